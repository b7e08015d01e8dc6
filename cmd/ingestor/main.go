package main

import (
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Shogund21/assetguardian-dev-sub003/internal/alert"
	"github.com/Shogund21/assetguardian-dev-sub003/internal/config"
	"github.com/Shogund21/assetguardian-dev-sub003/internal/database"
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

	svcs := service.New(db, service.Options{
		Maintenance: templates,
		Rules:       rules,
		SessionTTL:  config.SessionTTL(),
	})

	opts := mqtt.NewClientOptions().AddBroker(config.MQTTBroker())
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("mqtt connect")
	}
	defer client.Disconnect(250)

	handler := func(_ mqtt.Client, msg mqtt.Message) {
		if err := svcs.Readings.FromMQTT(msg.Topic(), msg.Payload()); err != nil {
			log.Error().Err(err).Msg("ingest failed")
		}
	}

	topic := config.MQTTReadingsTopic()
	if token := client.Subscribe(topic, 0, handler); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("subscribe failed")
	}

	log.Info().Str("topic", topic).Msg("ingestor running; Ctrl+C to stop")
	for {
		time.Sleep(10 * time.Second)
	}
}
