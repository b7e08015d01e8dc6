// Package session drives equipment health checks from initiation through
// measurement collection to a terminal verdict.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"github.com/Shogund21/assetguardian-dev-sub003/internal/domain"
	"github.com/Shogund21/assetguardian-dev-sub003/internal/maintenance"
)

// State of a diagnostic session.
type State string

const (
	StateOpen      State = "open"
	StateActive    State = "active"
	StateCompleted State = "completed"
	StateAborted   State = "aborted"
)

// Session is one end-to-end health check. It is exclusively owned by the
// store; callers only ever see snapshots. Template selection happens before
// start (classifier + tier resolver) and is cached here for the session's
// lifetime.
type Session struct {
	ID            string               `json:"id"`
	EquipmentID   string               `json:"equipment_id"`
	EquipmentName string               `json:"equipment_name"`
	Type          domain.TypeTag       `json:"type"`
	Template      maintenance.Template `json:"template"`
	State         State                `json:"state"`
	Readings      []domain.Reading     `json:"readings"`
	StartedAt     time.Time            `json:"started_at"`
	EndedAt       *time.Time           `json:"ended_at,omitempty"`
	Verdict       *domain.Verdict      `json:"verdict,omitempty"`
}

func (s *Session) terminal() bool {
	return s.State == StateCompleted || s.State == StateAborted
}

func (s *Session) snapshot() *Session {
	cp := *s
	cp.Readings = append([]domain.Reading(nil), s.Readings...)
	return &cp
}

// Evaluator computes findings for a completed session's readings against the
// template the session was driven by. Implemented by the alert engine.
type Evaluator interface {
	Evaluate(equipmentID string, readings []domain.Reading, tag domain.TypeTag, tmpl maintenance.Template) []domain.Finding
}

// DefaultTTL is how long a session may sit in the arena before it is treated
// as abandoned. Terminal sessions stay for the same window so verdicts remain
// readable after completion.
const DefaultTTL = 4 * time.Hour

// Store is the arena holding live sessions, indexed by session id. It
// enforces the single-active-session-per-equipment invariant at the boundary
// rather than trusting callers.
type Store struct {
	mu     sync.Mutex
	arena  *gocache.Cache
	active map[string]string // equipment id -> active session id
	eval   Evaluator
}

// NewStore builds a session arena. ttl <= 0 selects DefaultTTL.
func NewStore(eval Evaluator, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Store{
		arena:  gocache.New(ttl, ttl/4),
		active: map[string]string{},
		eval:   eval,
	}
	// Janitor eviction of an abandoned session must release its equipment slot.
	s.arena.OnEvicted(s.onEvicted)
	return s
}

func (s *Store) onEvicted(id string, v interface{}) {
	sess, ok := v.(*Session)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, held := s.active[sess.EquipmentID]; held && cur == id {
		delete(s.active, sess.EquipmentID)
		log.Warn().
			Str("session_id", id).
			Str("equipment_id", sess.EquipmentID).
			Msg("abandoned diagnostic session expired")
	}
}

// Start creates a session for the equipment and immediately activates it.
// Fails with ErrInvalidEquipment for an empty id and ErrSessionInProgress if
// the equipment already has an active session.
func (s *Store) Start(equipmentID, equipmentName string, tag domain.TypeTag, tmpl maintenance.Template) (*Session, error) {
	if equipmentID == "" {
		return nil, fmt.Errorf("%w: empty equipment id", domain.ErrInvalidEquipment)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sid, ok := s.active[equipmentID]; ok {
		if v, found := s.arena.Get(sid); found {
			if sess := v.(*Session); !sess.terminal() {
				return nil, fmt.Errorf("%w: session %s active for equipment %s", domain.ErrSessionInProgress, sid, equipmentID)
			}
		}
		// stale index entry from an expired or terminal session
		delete(s.active, equipmentID)
	}

	sess := &Session{
		ID:            uuid.NewString(),
		EquipmentID:   equipmentID,
		EquipmentName: equipmentName,
		Type:          tag,
		Template:      tmpl,
		State:         StateOpen,
		StartedAt:     time.Now().UTC(),
	}
	sess.State = StateActive

	s.arena.SetDefault(sess.ID, sess)
	s.active[equipmentID] = sess.ID

	log.Info().
		Str("session_id", sess.ID).
		Str("equipment_id", equipmentID).
		Str("type", string(tag)).
		Msg("diagnostic session started")

	return sess.snapshot(), nil
}

// Record appends a reading to an active session. The field must belong to the
// session's template and the value must match the field's declared kind.
func (s *Store) Record(sessionID, field string, raw interface{}, ts time.Time) (domain.Reading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.get(sessionID)
	if err != nil {
		return domain.Reading{}, err
	}
	if sess.terminal() {
		return domain.Reading{}, fmt.Errorf("%w: session %s is %s", domain.ErrSessionClosed, sessionID, sess.State)
	}
	if !sess.Template.AllowsField(field) {
		return domain.Reading{}, fmt.Errorf("%w: field %q not in %s/%s template", domain.ErrInvalidReading, field, sess.Type, sess.Template.Tier)
	}

	rd, err := domain.CoerceValue(sess.Template.KindOf(field), raw)
	if err != nil {
		return domain.Reading{}, err
	}
	rd.ID = uuid.NewString()
	rd.EquipmentID = sess.EquipmentID
	rd.SessionID = sess.ID
	rd.Field = field
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	rd.Timestamp = ts

	sess.Readings = append(sess.Readings, rd)
	return rd, nil
}

// Complete transitions Active to Completed, evaluates the accumulated
// readings and stores the verdict. A session with zero readings completes
// with an insufficient-data verdict.
func (s *Store) Complete(sessionID string) (*Session, domain.Verdict, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.get(sessionID)
	if err != nil {
		return nil, domain.Verdict{}, err
	}
	if sess.terminal() {
		return nil, domain.Verdict{}, fmt.Errorf("%w: session %s is %s", domain.ErrSessionClosed, sessionID, sess.State)
	}

	now := time.Now().UTC()
	verdict := domain.Verdict{Status: domain.VerdictInsufficientData, EvaluatedAt: now}
	if len(sess.Readings) > 0 {
		findings := s.eval.Evaluate(sess.EquipmentID, sess.Readings, sess.Type, sess.Template)
		verdict.Findings = findings
		if len(findings) == 0 {
			verdict.Status = domain.VerdictHealthy
		} else {
			verdict.Status = domain.VerdictAttentionRequired
		}
	}

	sess.State = StateCompleted
	sess.EndedAt = &now
	sess.Verdict = &verdict
	s.release(sess)

	log.Info().
		Str("session_id", sess.ID).
		Str("equipment_id", sess.EquipmentID).
		Str("verdict", string(verdict.Status)).
		Int("readings", len(sess.Readings)).
		Msg("diagnostic session completed")

	return sess.snapshot(), verdict, nil
}

// Abort cancels a non-terminal session. No verdict is computed and no alert
// state changes.
func (s *Store) Abort(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.get(sessionID)
	if err != nil {
		return err
	}
	if sess.terminal() {
		return fmt.Errorf("%w: session %s is %s", domain.ErrSessionClosed, sessionID, sess.State)
	}

	now := time.Now().UTC()
	sess.State = StateAborted
	sess.EndedAt = &now
	s.release(sess)

	log.Info().
		Str("session_id", sess.ID).
		Str("equipment_id", sess.EquipmentID).
		Msg("diagnostic session aborted")

	return nil
}

// Get returns a snapshot of the session.
func (s *Store) Get(sessionID string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.snapshot(), nil
}

// ActiveFor reports the active session id for an equipment, if any.
func (s *Store) ActiveFor(equipmentID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sid, ok := s.active[equipmentID]
	if !ok {
		return "", false
	}
	if _, found := s.arena.Get(sid); !found {
		delete(s.active, equipmentID)
		return "", false
	}
	return sid, true
}

// get expects s.mu held. Unknown ids map to ErrSessionClosed: the arena
// evicts expired sessions, so an unknown id and an expired one are
// indistinguishable here.
func (s *Store) get(sessionID string) (*Session, error) {
	v, found := s.arena.Get(sessionID)
	if !found {
		return nil, fmt.Errorf("%w: unknown or expired session %s", domain.ErrSessionClosed, sessionID)
	}
	return v.(*Session), nil
}

// release frees the equipment's active slot. Terminal sessions stay in the
// arena until TTL so verdicts remain readable.
func (s *Store) release(sess *Session) {
	if cur, ok := s.active[sess.EquipmentID]; ok && cur == sess.ID {
		delete(s.active, sess.EquipmentID)
	}
}
