package alert

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Shogund21/assetguardian-dev-sub003/internal/domain"
	"github.com/Shogund21/assetguardian-dev-sub003/internal/maintenance"
)

// Store is the persistence collaborator. Failures surface as
// ErrRetrievalFailed / ErrPersistFailed wrapped by the engine.
type Store interface {
	LoadActiveAlerts(ctx context.Context, orgID, equipmentID string) ([]domain.PredictiveAlert, error)
	LoadAlert(ctx context.Context, orgID, alertID string) (*domain.PredictiveAlert, error)
	SaveAlert(ctx context.Context, a *domain.PredictiveAlert) error
	LoadReadings(ctx context.Context, sessionID string) ([]domain.Reading, error)
	SaveReading(ctx context.Context, r *domain.Reading) error
}

// Notifier is the optional sink for newly created or escalated alerts.
// A nil Notifier never blocks alert persistence.
type Notifier interface {
	NotifyAlert(ctx context.Context, a domain.PredictiveAlert) error
}

// Engine evaluates diagnostic output against the rule pack and keeps the
// active-alert set in sync with the most recent evaluation per equipment.
type Engine struct {
	store    Store
	rules    RuleSet
	notifier Notifier

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewEngine wires the engine. notifier may be nil.
func NewEngine(store Store, rules RuleSet, notifier Notifier) *Engine {
	return &Engine{
		store:    store,
		rules:    rules,
		notifier: notifier,
		locks:    map[string]*sync.Mutex{},
	}
}

// Evaluate runs the pure rule evaluation for readings plus the
// missing-required-field check against the template the readings were
// collected under. Callers evaluating free telemetry outside a session pass a
// zero template, which requires nothing. Deterministic for identical inputs;
// no side effects.
func (e *Engine) Evaluate(equipmentID string, readings []domain.Reading, tag domain.TypeTag, tmpl maintenance.Template) []domain.Finding {
	findings := e.rules.Evaluate(tag, readings)

	if len(readings) > 0 {
		if missing := missingRequired(tmpl, readings); len(missing) > 0 {
			findings = append(findings, domain.Finding{
				Kind:     domain.KindIncompleteReadings,
				Severity: domain.SeverityInfo,
				Message:  fmt.Sprintf("required readings not collected: %s", strings.Join(missing, ", ")),
			})
		}
	}
	return findings
}

func missingRequired(tmpl maintenance.Template, readings []domain.Reading) []string {
	present := map[string]bool{}
	for _, rd := range readings {
		present[rd.Field] = true
	}
	var missing []string
	for _, field := range tmpl.RequiredFields {
		if !present[field] {
			missing = append(missing, field)
		}
	}
	sort.Strings(missing)
	return missing
}

// UpsertAlerts reconciles the equipment's active-alert set with an evaluation
// result: triggered kinds are updated in place or created, and every active
// kind absent from the result is resolved. The read-diff-write sequence runs
// under a per-equipment lock; evaluations for different equipment never wait
// on each other.
func (e *Engine) UpsertAlerts(ctx context.Context, orgID, equipmentID, sessionID string, findings []domain.Finding) error {
	lock := e.lockFor(equipmentID)
	lock.Lock()
	defer lock.Unlock()

	active, err := e.store.LoadActiveAlerts(ctx, orgID, equipmentID)
	if err != nil {
		return fmt.Errorf("%w: load active alerts for %s: %v", domain.ErrRetrievalFailed, equipmentID, err)
	}
	byKind := make(map[domain.AlertKind]*domain.PredictiveAlert, len(active))
	for i := range active {
		byKind[active[i].Kind] = &active[i]
	}

	now := time.Now().UTC()
	triggered := map[domain.AlertKind]bool{}

	for _, fd := range findings {
		triggered[fd.Kind] = true
		if existing, ok := byKind[fd.Kind]; ok {
			escalated := fd.Severity.Rank() > existing.Severity.Rank()
			existing.Severity = fd.Severity
			existing.Message = fd.Message
			existing.Field = fd.Field
			existing.Value = fd.Value
			existing.SessionID = sessionID
			existing.UpdatedAt = now
			if err := e.store.SaveAlert(ctx, existing); err != nil {
				return fmt.Errorf("%w: update alert %s: %v", domain.ErrPersistFailed, existing.ID, err)
			}
			if escalated {
				e.notify(ctx, *existing)
			}
			continue
		}

		created := domain.PredictiveAlert{
			ID:          uuid.NewString(),
			OrgID:       orgID,
			EquipmentID: equipmentID,
			Kind:        fd.Kind,
			Severity:    fd.Severity,
			Message:     fd.Message,
			SessionID:   sessionID,
			Field:       fd.Field,
			Value:       fd.Value,
			Status:      domain.AlertActive,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := e.store.SaveAlert(ctx, &created); err != nil {
			return fmt.Errorf("%w: create %s alert for %s: %v", domain.ErrPersistFailed, fd.Kind, equipmentID, err)
		}
		e.notify(ctx, created)
	}

	for i := range active {
		if triggered[active[i].Kind] {
			continue
		}
		active[i].Status = domain.AlertResolved
		active[i].UpdatedAt = now
		if err := e.store.SaveAlert(ctx, &active[i]); err != nil {
			return fmt.Errorf("%w: resolve alert %s: %v", domain.ErrPersistFailed, active[i].ID, err)
		}
	}

	return nil
}

// GetActiveAlerts returns the active set, optionally filtered to one
// equipment id, ordered by creation time descending.
func (e *Engine) GetActiveAlerts(ctx context.Context, orgID, equipmentID string) ([]domain.PredictiveAlert, error) {
	alerts, err := e.store.LoadActiveAlerts(ctx, orgID, equipmentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRetrievalFailed, err)
	}
	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].CreatedAt.After(alerts[j].CreatedAt)
	})
	return alerts, nil
}

// Acknowledge resolves an alert on explicit technician action.
func (e *Engine) Acknowledge(ctx context.Context, orgID, alertID, resolvedBy string) error {
	a, err := e.store.LoadAlert(ctx, orgID, alertID)
	if err != nil {
		return err
	}

	lock := e.lockFor(a.EquipmentID)
	lock.Lock()
	defer lock.Unlock()

	if a.Status == domain.AlertResolved {
		return nil
	}
	a.Status = domain.AlertResolved
	a.ResolvedBy = resolvedBy
	a.UpdatedAt = time.Now().UTC()
	if err := e.store.SaveAlert(ctx, a); err != nil {
		return fmt.Errorf("%w: acknowledge alert %s: %v", domain.ErrPersistFailed, alertID, err)
	}
	return nil
}

// notify pushes to the sink; failures are logged, never propagated.
func (e *Engine) notify(ctx context.Context, a domain.PredictiveAlert) {
	if e.notifier == nil {
		return
	}
	if err := e.notifier.NotifyAlert(ctx, a); err != nil {
		log.Error().Err(err).
			Str("alert_id", a.ID).
			Str("equipment_id", a.EquipmentID).
			Str("kind", string(a.Kind)).
			Msg("alert notification failed")
	}
}

// lockFor returns the equipment's evaluation lock. The map holds one mutex
// per asset ever evaluated and is never pruned; it is bounded by the fleet
// size, which stays in the hundreds for a facility deployment.
func (e *Engine) lockFor(equipmentID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[equipmentID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[equipmentID] = l
	}
	return l
}
