package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/Shogund21/assetguardian-dev-sub003/internal/alert"
	"github.com/Shogund21/assetguardian-dev-sub003/internal/domain"
	"github.com/Shogund21/assetguardian-dev-sub003/internal/maintenance"
)

// sweepStore is the slice of the repository the periodic sweep reads.
type sweepStore interface {
	ListActiveEquipment(ctx context.Context) ([]domain.Equipment, error)
	RecentReadings(ctx context.Context, equipmentID string, since time.Time) ([]domain.Reading, error)
	LatestReadingAt(ctx context.Context, equipmentID string) (*time.Time, error)
}

// Sweeper periodically re-evaluates every active asset against its recent
// readings and raises overdue_maintenance when an asset has gone quiet.
type Sweeper struct {
	store        sweepStore
	alerts       *alert.Engine
	overdueAfter time.Duration
	cron         *cron.Cron
}

func NewSweeper(store sweepStore, alerts *alert.Engine, overdueAfter time.Duration) *Sweeper {
	return &Sweeper{
		store:        store,
		alerts:       alerts,
		overdueAfter: overdueAfter,
	}
}

// Start schedules the sweep; schedule accepts cron expressions and
// descriptors like "@hourly".
func (s *Sweeper) Start(schedule string) error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(schedule, s.Sweep); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}
	s.cron.Start()
	log.Info().Str("schedule", schedule).Msg("maintenance sweep scheduled")
	return nil
}

func (s *Sweeper) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Sweep runs one pass. Assets with no recent readings and nothing overdue are
// skipped rather than evaluated against an empty window, so idle equipment
// does not have its alert set clobbered.
func (s *Sweeper) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	equipment, err := s.store.ListActiveEquipment(ctx)
	if err != nil {
		log.Error().Err(err).Msg("sweep: list equipment failed")
		return
	}

	now := time.Now().UTC()
	swept := 0
	for _, eq := range equipment {
		if err := s.sweepOne(ctx, eq, now); err != nil {
			log.Error().Err(err).Str("equipment_id", eq.ID).Msg("sweep: evaluation failed")
			continue
		}
		swept++
	}
	log.Info().Int("equipment", swept).Msg("maintenance sweep complete")
}

func (s *Sweeper) sweepOne(ctx context.Context, eq domain.Equipment, now time.Time) error {
	latest, err := s.store.LatestReadingAt(ctx, eq.ID)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRetrievalFailed, err)
	}
	overdue := latest == nil || now.Sub(*latest) > s.overdueAfter

	readings, err := s.store.RecentReadings(ctx, eq.ID, now.Add(-s.overdueAfter))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRetrievalFailed, err)
	}
	if len(readings) == 0 && !overdue {
		return nil
	}

	// Telemetry outside a session carries no template; the zero template
	// requires no fields, so the sweep never raises incomplete_readings.
	findings := s.alerts.Evaluate(eq.ID, readings, eq.TypeTag, maintenance.Template{})
	if overdue {
		msg := "no readings have ever been recorded"
		if latest != nil {
			msg = fmt.Sprintf("no readings since %s", latest.Format(time.RFC3339))
		}
		findings = append(findings, domain.Finding{
			Kind:     domain.KindOverdueMaintenance,
			Severity: domain.SeverityWarning,
			Message:  msg,
		})
	}

	return s.alerts.UpsertAlerts(ctx, eq.OrgID, eq.ID, "", findings)
}
