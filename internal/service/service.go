package service

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Shogund21/assetguardian-dev-sub003/internal/alert"
	"github.com/Shogund21/assetguardian-dev-sub003/internal/maintenance"
	"github.com/Shogund21/assetguardian-dev-sub003/internal/repository"
	"github.com/Shogund21/assetguardian-dev-sub003/internal/session"
)

// Options carries the injected engine configuration. Maintenance templates
// and alert rules are immutable values decided at boot, never mutable
// module-level state.
type Options struct {
	Maintenance maintenance.TieredConfig
	Rules       alert.RuleSet
	Notifier    alert.Notifier
	SessionTTL  time.Duration
}

type Services struct {
	Repos       *repository.Repos
	Resolver    *maintenance.Resolver
	Sessions    *session.Store
	Alerts      *alert.Engine
	Diagnostics *DiagnosticService
	Readings    *ReadingService
}

func New(db *sqlx.DB, opts Options) *Services {
	if opts.Maintenance == nil {
		opts.Maintenance = maintenance.DefaultConfig()
	}
	if opts.Rules.Thresholds == nil {
		opts.Rules = alert.DefaultRules()
	}

	repos := repository.New(db)
	resolver := maintenance.NewResolver(opts.Maintenance)
	alerts := alert.NewEngine(repos, opts.Rules, opts.Notifier)
	sessions := session.NewStore(alerts, opts.SessionTTL)

	diagnostics := &DiagnosticService{
		equipment: repos,
		store:     repos,
		sessions:  sessions,
		alerts:    alerts,
		resolver:  resolver,
	}

	return &Services{
		Repos:       repos,
		Resolver:    resolver,
		Sessions:    sessions,
		Alerts:      alerts,
		Diagnostics: diagnostics,
		Readings: &ReadingService{
			diagnostics: diagnostics,
			sessions:    sessions,
		},
	}
}
