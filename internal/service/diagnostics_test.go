package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Shogund21/assetguardian-dev-sub003/internal/alert"
	"github.com/Shogund21/assetguardian-dev-sub003/internal/domain"
	"github.com/Shogund21/assetguardian-dev-sub003/internal/maintenance"
	"github.com/Shogund21/assetguardian-dev-sub003/internal/session"
)

// fakeStore backs both the equipment lookup and the alert engine in memory.
type fakeStore struct {
	equipment map[string]domain.Equipment
	alerts    map[string]*domain.PredictiveAlert
	readings  []domain.Reading
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		equipment: map[string]domain.Equipment{},
		alerts:    map[string]*domain.PredictiveAlert{},
	}
}

func (f *fakeStore) GetEquipment(_ context.Context, orgID, id string) (*domain.Equipment, error) {
	eq, ok := f.equipment[id]
	if !ok || eq.OrgID != orgID {
		return nil, domain.ErrNotFound
	}
	return &eq, nil
}

func (f *fakeStore) SaveReading(_ context.Context, rd *domain.Reading) error {
	f.readings = append(f.readings, *rd)
	return nil
}

func (f *fakeStore) LoadActiveAlerts(_ context.Context, orgID, equipmentID string) ([]domain.PredictiveAlert, error) {
	var out []domain.PredictiveAlert
	for _, a := range f.alerts {
		if a.OrgID != orgID || a.Status != domain.AlertActive {
			continue
		}
		if equipmentID != "" && a.EquipmentID != equipmentID {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeStore) LoadAlert(_ context.Context, orgID, alertID string) (*domain.PredictiveAlert, error) {
	a, ok := f.alerts[alertID]
	if !ok || a.OrgID != orgID {
		return nil, domain.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeStore) SaveAlert(_ context.Context, a *domain.PredictiveAlert) error {
	cp := *a
	f.alerts[a.ID] = &cp
	return nil
}

func (f *fakeStore) LoadReadings(_ context.Context, sessionID string) ([]domain.Reading, error) {
	var out []domain.Reading
	for _, r := range f.readings {
		if r.SessionID == sessionID {
			out = append(out, r)
		}
	}
	return out, nil
}

func newTestDiagnostics(store *fakeStore) (*DiagnosticService, *alert.Engine) {
	resolver := maintenance.NewResolver(maintenance.DefaultConfig())
	alerts := alert.NewEngine(store, alert.DefaultRules(), nil)
	sessions := session.NewStore(alerts, 0)
	return &DiagnosticService{
		equipment: store,
		store:     store,
		sessions:  sessions,
		alerts:    alerts,
		resolver:  resolver,
	}, alerts
}

func seedChiller(store *fakeStore) {
	store.equipment["E1"] = domain.Equipment{
		ID:      "E1",
		OrgID:   "org1",
		Name:    "Rooftop Chiller #2",
		Status:  domain.StatusActive,
		TypeTag: domain.TypeChiller,
	}
}

func TestDiagnosticFlowRaisesAndClearsAlert(t *testing.T) {
	store := newFakeStore()
	seedChiller(store)
	diag, alerts := newTestDiagnostics(store)
	ctx := context.Background()

	// hot session: two readings over the 180 chiller limit
	sess, err := diag.Start(ctx, "org1", "E1", "")
	if err != nil {
		t.Fatal(err)
	}
	if sess.Type != domain.TypeChiller {
		t.Fatalf("classified as %s, want chiller (not rtu)", sess.Type)
	}
	now := time.Now()
	if _, err := diag.Record(ctx, sess.ID, "temp", 200.0, now); err != nil {
		t.Fatal(err)
	}
	if _, err := diag.Record(ctx, sess.ID, "temp", 210.0, now.Add(time.Minute)); err != nil {
		t.Fatal(err)
	}

	verdict, err := diag.Complete(ctx, "org1", sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if verdict.Status != domain.VerdictAttentionRequired {
		t.Fatalf("verdict = %s, want attention_required", verdict.Status)
	}
	hasOverTemp := false
	for _, fd := range verdict.Findings {
		if fd.Kind == domain.KindOverTemperature {
			hasOverTemp = true
		}
	}
	if !hasOverTemp {
		t.Fatalf("verdict missing over_temperature: %+v", verdict.Findings)
	}

	active, err := alerts.GetActiveAlerts(ctx, "org1", "E1")
	if err != nil {
		t.Fatal(err)
	}
	overTempCount := 0
	for _, a := range active {
		if a.Kind == domain.KindOverTemperature {
			overTempCount++
		}
	}
	if overTempCount != 1 {
		t.Fatalf("expected exactly one active over_temperature alert, got %d", overTempCount)
	}

	// readings persisted against the session
	stored, _ := store.LoadReadings(context.Background(), sess.ID)
	if len(stored) != 2 {
		t.Fatalf("expected 2 persisted readings, got %d", len(stored))
	}

	// in-range follow-up session clears the condition
	sess2, err := diag.Start(ctx, "org1", "E1", "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := diag.Record(ctx, sess2.ID, "supply_temp", 44.0, now.Add(time.Hour)); err != nil {
		t.Fatal(err)
	}
	if _, err := diag.Record(ctx, sess2.ID, "return_temp", 54.0, now.Add(time.Hour)); err != nil {
		t.Fatal(err)
	}
	if _, err := diag.Record(ctx, sess2.ID, "temp", 150.0, now.Add(time.Hour)); err != nil {
		t.Fatal(err)
	}
	if _, err := diag.Complete(ctx, "org1", sess2.ID); err != nil {
		t.Fatal(err)
	}

	active, err = alerts.GetActiveAlerts(ctx, "org1", "E1")
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 0 {
		t.Fatalf("expected empty active set after in-range session, got %+v", active)
	}
}

func TestStartSecondSessionFails(t *testing.T) {
	store := newFakeStore()
	seedChiller(store)
	diag, _ := newTestDiagnostics(store)
	ctx := context.Background()

	if _, err := diag.Start(ctx, "org1", "E1", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := diag.Start(ctx, "org1", "E1", ""); !errors.Is(err, domain.ErrSessionInProgress) {
		t.Fatalf("expected ErrSessionInProgress, got %v", err)
	}
}

func TestStartUnknownEquipment(t *testing.T) {
	store := newFakeStore()
	diag, _ := newTestDiagnostics(store)

	if _, err := diag.Start(context.Background(), "org1", "ghost", ""); !errors.Is(err, domain.ErrInvalidEquipment) {
		t.Fatalf("expected ErrInvalidEquipment, got %v", err)
	}
}

func TestStartScopedToOrganization(t *testing.T) {
	store := newFakeStore()
	seedChiller(store)
	diag, _ := newTestDiagnostics(store)

	if _, err := diag.Start(context.Background(), "other-org", "E1", ""); !errors.Is(err, domain.ErrInvalidEquipment) {
		t.Fatalf("expected ErrInvalidEquipment for cross-org access, got %v", err)
	}
}

func TestStartUnconfiguredOptionalTier(t *testing.T) {
	store := newFakeStore()
	store.equipment["R1"] = domain.Equipment{ID: "R1", OrgID: "org1", Name: "Lobby Restroom", Status: domain.StatusActive}
	diag, _ := newTestDiagnostics(store)

	_, err := diag.Start(context.Background(), "org1", "R1", maintenance.TierAnnual)
	if !errors.Is(err, domain.ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestReadingHistoryFallsBackToStorage(t *testing.T) {
	store := newFakeStore()
	seedChiller(store)
	diag, _ := newTestDiagnostics(store)
	ctx := context.Background()

	sess, err := diag.Start(ctx, "org1", "E1", "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := diag.Record(ctx, sess.ID, "temp", 150.0, time.Now()); err != nil {
		t.Fatal(err)
	}
	if _, err := diag.Complete(ctx, "org1", sess.ID); err != nil {
		t.Fatal(err)
	}

	// completed session still in the arena serves from the live snapshot
	live, err := diag.Readings(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(live) != 1 || live[0].Field != "temp" {
		t.Fatalf("unexpected live history %+v", live)
	}

	// a session that aged out of the arena reads from storage
	store.readings = append(store.readings, domain.Reading{
		ID: "r9", EquipmentID: "E1", SessionID: "expired", Field: "supply_temp",
		Kind: domain.KindNumeric, NumericValue: 44, Timestamp: time.Now(),
	})
	stored, err := diag.Readings(ctx, "expired")
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 1 || stored[0].Field != "supply_temp" {
		t.Fatalf("unexpected stored history %+v", stored)
	}
}

func TestInsufficientDataLeavesAlertsUntouched(t *testing.T) {
	store := newFakeStore()
	seedChiller(store)
	diag, alerts := newTestDiagnostics(store)
	ctx := context.Background()

	// pre-existing active alert
	if err := alerts.UpsertAlerts(ctx, "org1", "E1", "old", []domain.Finding{{
		Kind: domain.KindOverTemperature, Severity: domain.SeverityCritical, Message: "hot",
	}}); err != nil {
		t.Fatal(err)
	}

	sess, err := diag.Start(ctx, "org1", "E1", "")
	if err != nil {
		t.Fatal(err)
	}
	verdict, err := diag.Complete(ctx, "org1", sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if verdict.Status != domain.VerdictInsufficientData {
		t.Fatalf("verdict = %s, want insufficient_data", verdict.Status)
	}

	active, _ := alerts.GetActiveAlerts(ctx, "org1", "E1")
	if len(active) != 1 {
		t.Fatal("an empty session must not resolve existing alerts")
	}
}
