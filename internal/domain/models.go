package domain

import "time"

// TypeTag is the canonical equipment category used to select maintenance
// templates and alert rules. The taxonomy is closed; anything unrecognised
// classifies to TypeGeneral.
type TypeTag string

const (
	TypeAHU          TypeTag = "ahu"
	TypeChiller      TypeTag = "chiller"
	TypeRTU          TypeTag = "rtu"
	TypeCoolingTower TypeTag = "cooling_tower"
	TypeElevator     TypeTag = "elevator"
	TypeRestroom     TypeTag = "restroom"
	TypeGeneral      TypeTag = "general"
)

// EquipmentStatus lifecycle state of an asset.
type EquipmentStatus string

const (
	StatusActive  EquipmentStatus = "active"
	StatusRetired EquipmentStatus = "retired"
)

// Equipment is a tracked facility asset. TypeTag is derived from Name by the
// classifier and recomputed on read; the stored value is never authoritative.
type Equipment struct {
	ID           string          `db:"id" json:"id"`
	OrgID        string          `db:"org_id" json:"org_id"`
	Name         string          `db:"name" json:"name"`
	Location     string          `db:"location" json:"location"`
	TypeTag      TypeTag         `db:"type_tag" json:"type_tag"`
	Status       EquipmentStatus `db:"status" json:"status"`
	SerialNumber string          `db:"serial_number" json:"serial_number"`
	Model        string          `db:"model" json:"model"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

// ValueKind tags the shape of a reading value, resolved at ingestion from the
// template field declaration rather than at display time.
type ValueKind string

const (
	KindNumeric ValueKind = "numeric"
	KindBoolean ValueKind = "boolean"
	KindText    ValueKind = "text"
	KindDate    ValueKind = "date"
)

// Reading is a single manually recorded measurement. Immutable once stored;
// corrections create a new reading. Date values are carried RFC3339 in TextValue.
type Reading struct {
	ID           string    `db:"id" json:"id"`
	EquipmentID  string    `db:"equipment_id" json:"equipment_id"`
	SessionID    string    `db:"session_id" json:"session_id,omitempty"`
	Field        string    `db:"field" json:"field"`
	Kind         ValueKind `db:"kind" json:"kind"`
	NumericValue float64   `db:"numeric_value" json:"numeric_value,omitempty"`
	BoolValue    bool      `db:"bool_value" json:"bool_value,omitempty"`
	TextValue    string    `db:"text_value" json:"text_value,omitempty"`
	Timestamp    time.Time `db:"ts" json:"timestamp"`
}

// Severity of a finding or alert.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Rank orders severities so an upsert can tell an escalation from a repeat.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 2
	case SeverityWarning:
		return 1
	default:
		return 0
	}
}

// AlertKind names a triggered condition, e.g. over_temperature.
type AlertKind string

const (
	KindOverTemperature    AlertKind = "over_temperature"
	KindOverPressure       AlertKind = "over_pressure"
	KindLowRefrigerant     AlertKind = "low_refrigerant"
	KindCloggedFilter      AlertKind = "clogged_filter"
	KindVibrationHigh      AlertKind = "vibration_high"
	KindOverCurrent        AlertKind = "over_current"
	KindSlowDoor           AlertKind = "slow_door"
	KindDegradingTrend     AlertKind = "degrading_trend"
	KindIncompleteReadings AlertKind = "incomplete_readings"
	KindOverdueMaintenance AlertKind = "overdue_maintenance"
)

// Finding is one triggered condition from an evaluation pass.
type Finding struct {
	Kind     AlertKind `json:"kind"`
	Severity Severity  `json:"severity"`
	Field    string    `json:"field,omitempty"`
	Value    float64   `json:"value,omitempty"`
	Message  string    `json:"message"`
}

// VerdictStatus is the outcome class of a completed diagnostic session.
type VerdictStatus string

const (
	VerdictHealthy           VerdictStatus = "healthy"
	VerdictAttentionRequired VerdictStatus = "attention_required"
	VerdictInsufficientData  VerdictStatus = "insufficient_data"
)

// Verdict is the result of completing a diagnostic session. A session with no
// readings completes with VerdictInsufficientData; that is a normal outcome,
// not an error.
type Verdict struct {
	Status      VerdictStatus `json:"status"`
	Findings    []Finding     `json:"findings,omitempty"`
	EvaluatedAt time.Time     `json:"evaluated_at"`
}

// AlertStatus active/resolved state of a predictive alert.
type AlertStatus string

const (
	AlertActive   AlertStatus = "active"
	AlertResolved AlertStatus = "resolved"
)

// PredictiveAlert is a currently- or previously-true equipment condition. At
// most one active alert of a given kind exists per equipment at any time.
type PredictiveAlert struct {
	ID          string      `db:"id" json:"id"`
	OrgID       string      `db:"org_id" json:"org_id"`
	EquipmentID string      `db:"equipment_id" json:"equipment_id"`
	Kind        AlertKind   `db:"kind" json:"kind"`
	Severity    Severity    `db:"severity" json:"severity"`
	Message     string      `db:"message" json:"message"`
	SessionID   string      `db:"session_id" json:"session_id,omitempty"`
	Field       string      `db:"field" json:"field,omitempty"`
	Value       float64     `db:"value" json:"value,omitempty"`
	Status      AlertStatus `db:"status" json:"status"`
	ResolvedBy  string      `db:"resolved_by" json:"resolved_by,omitempty"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}
