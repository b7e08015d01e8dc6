package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Shogund21/assetguardian-dev-sub003/internal/alert"
	"github.com/Shogund21/assetguardian-dev-sub003/internal/classify"
	"github.com/Shogund21/assetguardian-dev-sub003/internal/domain"
	"github.com/Shogund21/assetguardian-dev-sub003/internal/maintenance"
	"github.com/Shogund21/assetguardian-dev-sub003/internal/session"
)

// equipmentStore is the slice of the repository the diagnostic flow reads.
type equipmentStore interface {
	GetEquipment(ctx context.Context, orgID, id string) (*domain.Equipment, error)
}

// readingStore persists accepted readings and serves per-session history.
type readingStore interface {
	SaveReading(ctx context.Context, rd *domain.Reading) error
	LoadReadings(ctx context.Context, sessionID string) ([]domain.Reading, error)
}

// DiagnosticService orchestrates the classify -> resolve -> collect ->
// evaluate flow for one health check.
type DiagnosticService struct {
	equipment equipmentStore
	store     readingStore
	sessions  *session.Store
	alerts    *alert.Engine
	resolver  *maintenance.Resolver
}

// Start opens a diagnostic session for the equipment at the given cadence
// (daily when tier is empty). The equipment name is classified and the
// resulting template cached on the session.
func (s *DiagnosticService) Start(ctx context.Context, orgID, equipmentID string, tier maintenance.Tier) (*session.Session, error) {
	if tier == "" {
		tier = maintenance.TierDaily
	}
	eq, err := s.equipment.GetEquipment(ctx, orgID, equipmentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: equipment %s", domain.ErrInvalidEquipment, equipmentID)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrRetrievalFailed, err)
	}

	tag := classify.Classify(eq.Name)
	tmpl, err := s.resolver.Resolve(tag, tier)
	if err != nil {
		// No template on an optional tier means no readings are required, so
		// there is nothing for a session to collect.
		return nil, err
	}
	return s.sessions.Start(eq.ID, eq.Name, tag, tmpl)
}

// Record validates a reading against the session template and persists it.
func (s *DiagnosticService) Record(ctx context.Context, sessionID, field string, value interface{}, ts time.Time) (domain.Reading, error) {
	rd, err := s.sessions.Record(sessionID, field, value, ts)
	if err != nil {
		return domain.Reading{}, err
	}
	if err := s.store.SaveReading(ctx, &rd); err != nil {
		return domain.Reading{}, fmt.Errorf("%w: reading %s: %v", domain.ErrPersistFailed, rd.ID, err)
	}
	return rd, nil
}

// Complete finalises the session and reconciles the equipment's alert set
// with the verdict. Insufficient-data verdicts leave the alert set untouched:
// no evaluation happened, so there is nothing to diff against.
func (s *DiagnosticService) Complete(ctx context.Context, orgID, sessionID string) (domain.Verdict, error) {
	sess, verdict, err := s.sessions.Complete(sessionID)
	if err != nil {
		return domain.Verdict{}, err
	}
	if verdict.Status == domain.VerdictInsufficientData {
		return verdict, nil
	}
	if err := s.alerts.UpsertAlerts(ctx, orgID, sess.EquipmentID, sess.ID, verdict.Findings); err != nil {
		return verdict, err
	}
	return verdict, nil
}

// Abort cancels the session; no verdict, no alert changes.
func (s *DiagnosticService) Abort(sessionID string) error {
	return s.sessions.Abort(sessionID)
}

// Get returns a session snapshot.
func (s *DiagnosticService) Get(sessionID string) (*session.Session, error) {
	return s.sessions.Get(sessionID)
}

// Readings returns a session's recorded readings: from the live session while
// it is in the arena, from storage once it has aged out.
func (s *DiagnosticService) Readings(ctx context.Context, sessionID string) ([]domain.Reading, error) {
	if sess, err := s.sessions.Get(sessionID); err == nil {
		return sess.Readings, nil
	}
	out, err := s.store.LoadReadings(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: readings for session %s: %v", domain.ErrRetrievalFailed, sessionID, err)
	}
	return out, nil
}
