package domain

import "errors"

// Typed failure conditions. Operations fail fast with one of these wrapped via
// %w; callers match with errors.Is and decide whether to retry (transient
// storage conditions) or surface to the user (usage errors).
var (
	// ErrInvalidEquipment rejects an empty or unknown equipment id.
	ErrInvalidEquipment = errors.New("invalid equipment")

	// ErrInvalidReading rejects a reading whose field is not part of the
	// session's template, or whose value does not match the declared kind.
	ErrInvalidReading = errors.New("invalid reading")

	// ErrSessionClosed rejects operations on a completed, aborted or expired
	// diagnostic session.
	ErrSessionClosed = errors.New("diagnostic session closed")

	// ErrSessionInProgress rejects a second session start while one is active
	// for the same equipment.
	ErrSessionInProgress = errors.New("diagnostic session already in progress")

	// ErrRetrievalFailed marks a storage read failure; assumed transient.
	ErrRetrievalFailed = errors.New("retrieval failed")

	// ErrPersistFailed marks a storage write failure; assumed transient.
	ErrPersistFailed = errors.New("persist failed")

	// ErrTemplateNotFound reports an unconfigured (type, tier) combination.
	// Expected for optional tiers; callers treat it as "no readings required".
	ErrTemplateNotFound = errors.New("maintenance template not found")

	// ErrNotFound reports a missing stored record.
	ErrNotFound = errors.New("not found")
)
