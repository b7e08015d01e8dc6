package service

import (
	"context"
	"testing"
	"time"

	"github.com/Shogund21/assetguardian-dev-sub003/internal/alert"
	"github.com/Shogund21/assetguardian-dev-sub003/internal/domain"
)

type fakeSweepStore struct {
	equipment []domain.Equipment
	readings  map[string][]domain.Reading
	latest    map[string]time.Time
}

func (f *fakeSweepStore) ListActiveEquipment(context.Context) ([]domain.Equipment, error) {
	return f.equipment, nil
}

func (f *fakeSweepStore) RecentReadings(_ context.Context, equipmentID string, since time.Time) ([]domain.Reading, error) {
	var out []domain.Reading
	for _, rd := range f.readings[equipmentID] {
		if rd.Timestamp.After(since) {
			out = append(out, rd)
		}
	}
	return out, nil
}

func (f *fakeSweepStore) LatestReadingAt(_ context.Context, equipmentID string) (*time.Time, error) {
	ts, ok := f.latest[equipmentID]
	if !ok {
		return nil, nil
	}
	return &ts, nil
}

func TestSweepRaisesOverdue(t *testing.T) {
	alertStore := newFakeStore()
	alerts := alert.NewEngine(alertStore, alert.DefaultRules(), nil)

	stale := time.Now().UTC().Add(-7 * 24 * time.Hour)
	store := &fakeSweepStore{
		equipment: []domain.Equipment{{ID: "E1", OrgID: "org1", Name: "Chiller 1", TypeTag: domain.TypeChiller, Status: domain.StatusActive}},
		readings:  map[string][]domain.Reading{},
		latest:    map[string]time.Time{"E1": stale},
	}

	s := NewSweeper(store, alerts, 72*time.Hour)
	s.Sweep()

	active, err := alerts.GetActiveAlerts(context.Background(), "org1", "E1")
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 1 || active[0].Kind != domain.KindOverdueMaintenance {
		t.Fatalf("expected one overdue_maintenance alert, got %+v", active)
	}
}

func TestSweepSkipsIdleEquipment(t *testing.T) {
	alertStore := newFakeStore()
	alerts := alert.NewEngine(alertStore, alert.DefaultRules(), nil)

	// an active alert that a no-data sweep must not clobber
	if err := alerts.UpsertAlerts(context.Background(), "org1", "E1", "s0", []domain.Finding{{
		Kind: domain.KindOverTemperature, Severity: domain.SeverityCritical, Message: "hot",
	}}); err != nil {
		t.Fatal(err)
	}

	recent := time.Now().UTC().Add(-time.Hour)
	store := &fakeSweepStore{
		equipment: []domain.Equipment{{ID: "E1", OrgID: "org1", Name: "Chiller 1", TypeTag: domain.TypeChiller, Status: domain.StatusActive}},
		readings:  map[string][]domain.Reading{},
		latest:    map[string]time.Time{"E1": recent},
	}

	s := NewSweeper(store, alerts, 72*time.Hour)
	s.Sweep()

	active, _ := alerts.GetActiveAlerts(context.Background(), "org1", "E1")
	if len(active) != 1 {
		t.Fatal("sweep with no window data must leave the alert set untouched")
	}
}

func TestSweepEvaluatesRecentReadings(t *testing.T) {
	alertStore := newFakeStore()
	alerts := alert.NewEngine(alertStore, alert.DefaultRules(), nil)

	now := time.Now().UTC()
	store := &fakeSweepStore{
		equipment: []domain.Equipment{{ID: "E1", OrgID: "org1", Name: "Chiller 1", TypeTag: domain.TypeChiller, Status: domain.StatusActive}},
		readings: map[string][]domain.Reading{
			"E1": {{
				EquipmentID: "E1", Field: "temp", Kind: domain.KindNumeric,
				NumericValue: 200, Timestamp: now.Add(-time.Hour),
			}},
		},
		latest: map[string]time.Time{"E1": now.Add(-time.Hour)},
	}

	s := NewSweeper(store, alerts, 72*time.Hour)
	s.Sweep()

	active, _ := alerts.GetActiveAlerts(context.Background(), "org1", "E1")
	found := false
	for _, a := range active {
		if a.Kind == domain.KindOverTemperature {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected over_temperature from sweep evaluation, got %+v", active)
	}
}
