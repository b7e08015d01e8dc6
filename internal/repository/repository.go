// Package repository is the Postgres persistence collaborator.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Shogund21/assetguardian-dev-sub003/internal/classify"
	"github.com/Shogund21/assetguardian-dev-sub003/internal/domain"
)

type Repos struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Repos { return &Repos{db: db} }

// ListEquipment returns the organization's assets, type tag recomputed from
// the name on the way out.
func (r *Repos) ListEquipment(ctx context.Context, orgID string) ([]domain.Equipment, error) {
	var out []domain.Equipment
	err := r.db.SelectContext(ctx, &out,
		`SELECT id, org_id, name, location, type_tag, status, serial_number, model, created_at, updated_at
		   FROM equipment WHERE org_id = $1 ORDER BY name`, orgID)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].TypeTag = classify.Classify(out[i].Name)
	}
	return out, nil
}

// ListActiveEquipment returns every non-retired asset across organizations.
// Used by the periodic sweep.
func (r *Repos) ListActiveEquipment(ctx context.Context) ([]domain.Equipment, error) {
	var out []domain.Equipment
	err := r.db.SelectContext(ctx, &out,
		`SELECT id, org_id, name, location, type_tag, status, serial_number, model, created_at, updated_at
		   FROM equipment WHERE status = $1 ORDER BY org_id, name`, domain.StatusActive)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].TypeTag = classify.Classify(out[i].Name)
	}
	return out, nil
}

func (r *Repos) GetEquipment(ctx context.Context, orgID, id string) (*domain.Equipment, error) {
	var eq domain.Equipment
	err := r.db.GetContext(ctx, &eq,
		`SELECT id, org_id, name, location, type_tag, status, serial_number, model, created_at, updated_at
		   FROM equipment WHERE org_id = $1 AND id = $2`, orgID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: equipment %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	eq.TypeTag = classify.Classify(eq.Name)
	return &eq, nil
}

func (r *Repos) LoadActiveAlerts(ctx context.Context, orgID, equipmentID string) ([]domain.PredictiveAlert, error) {
	query := `SELECT id, org_id, equipment_id, kind, severity, message, session_id, field, value,
	                 status, resolved_by, created_at, updated_at
	            FROM alerts WHERE org_id = $1 AND status = $2`
	args := []interface{}{orgID, domain.AlertActive}
	if equipmentID != "" {
		query += ` AND equipment_id = $3`
		args = append(args, equipmentID)
	}
	query += ` ORDER BY created_at DESC`

	var out []domain.PredictiveAlert
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repos) LoadAlert(ctx context.Context, orgID, alertID string) (*domain.PredictiveAlert, error) {
	var a domain.PredictiveAlert
	err := r.db.GetContext(ctx, &a,
		`SELECT id, org_id, equipment_id, kind, severity, message, session_id, field, value,
		        status, resolved_by, created_at, updated_at
		   FROM alerts WHERE org_id = $1 AND id = $2`, orgID, alertID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: alert %s", domain.ErrNotFound, alertID)
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repos) SaveAlert(ctx context.Context, a *domain.PredictiveAlert) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO alerts (id, org_id, equipment_id, kind, severity, message, session_id, field, value,
		                     status, resolved_by, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		 ON CONFLICT (id) DO UPDATE SET
		     severity = EXCLUDED.severity,
		     message = EXCLUDED.message,
		     session_id = EXCLUDED.session_id,
		     field = EXCLUDED.field,
		     value = EXCLUDED.value,
		     status = EXCLUDED.status,
		     resolved_by = EXCLUDED.resolved_by,
		     updated_at = EXCLUDED.updated_at`,
		a.ID, a.OrgID, a.EquipmentID, a.Kind, a.Severity, a.Message, a.SessionID, a.Field, a.Value,
		a.Status, a.ResolvedBy, a.CreatedAt, a.UpdatedAt)
	return err
}

func (r *Repos) SaveReading(ctx context.Context, rd *domain.Reading) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO readings (id, equipment_id, session_id, field, kind, numeric_value, bool_value, text_value, ts)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		rd.ID, rd.EquipmentID, rd.SessionID, rd.Field, rd.Kind, rd.NumericValue, rd.BoolValue, rd.TextValue, rd.Timestamp)
	return err
}

func (r *Repos) LoadReadings(ctx context.Context, sessionID string) ([]domain.Reading, error) {
	var out []domain.Reading
	err := r.db.SelectContext(ctx, &out,
		`SELECT id, equipment_id, session_id, field, kind, numeric_value, bool_value, text_value, ts
		   FROM readings WHERE session_id = $1 ORDER BY ts`, sessionID)
	return out, err
}

// RecentReadings returns an equipment's readings newer than since, oldest first.
func (r *Repos) RecentReadings(ctx context.Context, equipmentID string, since time.Time) ([]domain.Reading, error) {
	var out []domain.Reading
	err := r.db.SelectContext(ctx, &out,
		`SELECT id, equipment_id, session_id, field, kind, numeric_value, bool_value, text_value, ts
		   FROM readings WHERE equipment_id = $1 AND ts > $2 ORDER BY ts`, equipmentID, since)
	return out, err
}

// LatestReadingAt returns the newest reading timestamp for an equipment, or
// nil when it has none.
func (r *Repos) LatestReadingAt(ctx context.Context, equipmentID string) (*time.Time, error) {
	var ts sql.NullTime
	err := r.db.GetContext(ctx, &ts, `SELECT MAX(ts) FROM readings WHERE equipment_id = $1`, equipmentID)
	if err != nil {
		return nil, err
	}
	if !ts.Valid {
		return nil, nil
	}
	return &ts.Time, nil
}
