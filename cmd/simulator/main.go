package main

import (
	"encoding/json"
	"math/rand"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/Shogund21/assetguardian-dev-sub003/internal/config"
	"github.com/Shogund21/assetguardian-dev-sub003/internal/domain"
)

type reading struct {
	OrgID       string      `json:"org_id"`
	EquipmentID string      `json:"equipment_id"`
	Field       string      `json:"field"`
	Value       interface{} `json:"value"`
	Timestamp   time.Time   `json:"timestamp"`
}

// fields emitted per asset, with a plausible operating band. Field names must
// match the asset type's daily template so the readings can join sessions.
var profiles = []struct {
	equipmentID string
	tag         domain.TypeTag
	field       string
	base, span  float64
}{
	{"11111111-1111-1111-1111-111111111111", domain.TypeChiller, "supply_temp", 42, 6},
	{"11111111-1111-1111-1111-111111111111", domain.TypeChiller, "return_temp", 52, 6},
	{"11111111-1111-1111-1111-111111111111", domain.TypeChiller, "temp", 140, 30},
	{"22222222-2222-2222-2222-222222222222", domain.TypeAHU, "supply_air_temp", 55, 8},
	{"22222222-2222-2222-2222-222222222222", domain.TypeAHU, "filter_dp", 0.6, 0.5},
	{"33333333-3333-3333-3333-333333333333", domain.TypeElevator, "motor_temp", 150, 25},
}

func main() {
	rand.Seed(time.Now().UnixNano())
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	opts := mqtt.NewClientOptions().AddBroker(config.MQTTBroker())
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("mqtt connect")
	}
	defer client.Disconnect(250)

	topic := config.MQTTReadingsTopic()
	for i := 0; i < 100; i++ {
		p := profiles[i%len(profiles)]
		r := reading{
			OrgID:       "00000000-0000-0000-0000-000000000001",
			EquipmentID: p.equipmentID,
			Field:       p.field,
			Value:       p.base + rand.Float64()*p.span,
			Timestamp:   time.Now().UTC(),
		}
		payload, _ := json.Marshal(r)
		token := client.Publish(topic, 0, false, payload)
		token.Wait()
		time.Sleep(500 * time.Millisecond)
	}
	log.Info().Msg("simulation done")
}
