package main

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Shogund21/assetguardian-dev-sub003/internal/alert"
	"github.com/Shogund21/assetguardian-dev-sub003/internal/cloud"
	"github.com/Shogund21/assetguardian-dev-sub003/internal/config"
	"github.com/Shogund21/assetguardian-dev-sub003/internal/database"
	httpHandlers "github.com/Shogund21/assetguardian-dev-sub003/internal/http"
	"github.com/Shogund21/assetguardian-dev-sub003/internal/maintenance"
	"github.com/Shogund21/assetguardian-dev-sub003/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	db, err := database.Connect()
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	defer db.Close()

	templates, err := maintenance.Load(config.MaintTemplatesPath())
	if err != nil {
		log.Fatal().Err(err).Msg("maintenance templates load failed")
	}
	rules, err := alert.LoadRules(config.AlertRulesPath())
	if err != nil {
		log.Fatal().Err(err).Msg("alert rules load failed")
	}

	var notifier alert.Notifier
	if config.UseCloudServices() {
		sns, err := cloud.NewSNSClient(context.Background(), config.AWSRegion(), config.SNSTopicArn())
		if err != nil {
			log.Fatal().Err(err).Msg("sns client init failed")
		}
		notifier = sns
	}

	svcs := service.New(db, service.Options{
		Maintenance: templates,
		Rules:       rules,
		Notifier:    notifier,
		SessionTTL:  config.SessionTTL(),
	})

	sweeper := service.NewSweeper(svcs.Repos, svcs.Alerts, config.OverdueAfter())
	if err := sweeper.Start(config.SweepSchedule()); err != nil {
		log.Fatal().Err(err).Msg("sweep schedule failed")
	}
	defer sweeper.Stop()

	app := fiber.New()

	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })

	httpHandlers.Register(app, svcs)

	addr := config.APIAddr()
	log.Info().Str("addr", addr).Msg("api listening")
	log.Fatal().Err(app.Listen(addr)).Msg("server exit")
}
