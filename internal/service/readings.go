package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Shogund21/assetguardian-dev-sub003/internal/domain"
	"github.com/Shogund21/assetguardian-dev-sub003/internal/maintenance"
	"github.com/Shogund21/assetguardian-dev-sub003/internal/session"
	"github.com/Shogund21/assetguardian-dev-sub003/internal/validate"
)

// ReadingService ingests readings arriving over MQTT from building sensors
// and technician devices.
type ReadingService struct {
	diagnostics *DiagnosticService
	sessions    *session.Store
}

type mqttReading struct {
	OrgID       string      `json:"org_id" conform:"trim" validate:"required"`
	EquipmentID string      `json:"equipment_id" conform:"trim" validate:"required"`
	Field       string      `json:"field" conform:"trim" validate:"required"`
	Value       interface{} `json:"value" validate:"required"`
	Timestamp   time.Time   `json:"timestamp"`
}

// FromMQTT decodes and validates one published reading. When the equipment
// has an active diagnostic session the reading joins it (and is subject to
// the session's template); otherwise it is stored as standalone telemetry.
func (s *ReadingService) FromMQTT(topic string, payload []byte) error {
	var msg mqttReading
	if err := json.Unmarshal(payload, &msg); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidReading, err)
	}
	if err := validate.Get().Struct(&msg); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidReading, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if sid, ok := s.sessions.ActiveFor(msg.EquipmentID); ok {
		_, err := s.diagnostics.Record(ctx, sid, msg.Field, msg.Value, msg.Timestamp)
		return err
	}

	return s.storeStandalone(ctx, msg)
}

// storeStandalone persists telemetry outside any session. The value kind
// comes from the equipment's daily template when the field is declared there,
// numeric otherwise.
func (s *ReadingService) storeStandalone(ctx context.Context, msg mqttReading) error {
	eq, err := s.diagnostics.equipment.GetEquipment(ctx, msg.OrgID, msg.EquipmentID)
	if err != nil {
		return fmt.Errorf("%w: equipment %s", domain.ErrInvalidEquipment, msg.EquipmentID)
	}

	kind := domain.KindNumeric
	if tmpl, err := s.diagnostics.resolver.Resolve(eq.TypeTag, maintenance.TierDaily); err == nil && tmpl.AllowsField(msg.Field) {
		kind = tmpl.KindOf(msg.Field)
	}

	rd, err := domain.CoerceValue(kind, msg.Value)
	if err != nil {
		return err
	}
	rd.ID = uuid.NewString()
	rd.EquipmentID = eq.ID
	rd.Field = msg.Field
	rd.Timestamp = msg.Timestamp
	if rd.Timestamp.IsZero() {
		rd.Timestamp = time.Now().UTC()
	}

	if err := s.diagnostics.store.SaveReading(ctx, &rd); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistFailed, err)
	}
	log.Debug().
		Str("equipment_id", eq.ID).
		Str("field", msg.Field).
		Msg("standalone reading stored")
	return nil
}
