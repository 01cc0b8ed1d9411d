package domain

import "errors"

var (
	// ErrNotFound is returned when a referenced user or post does not exist.
	ErrNotFound = errors.New("travelshare: not found")

	// ErrUnauthorized is returned when the actor may not mutate the target
	// record, or when credentials do not check out.
	ErrUnauthorized = errors.New("travelshare: not authorized")

	// ErrConflict is returned when a mutation lost a write race and was
	// aborted by the store. Callers may retry.
	ErrConflict = errors.New("travelshare: write conflict")

	// ErrTransient is returned when a store round-trip failed or a record
	// vanished mid-aggregation. Safe to retry; never carries partial results.
	ErrTransient = errors.New("travelshare: transient store failure")

	// ErrEmpty signals a well-formed query that legitimately has no rows.
	// It is not a failure and is distinguishable from ErrNotFound.
	ErrEmpty = errors.New("travelshare: empty result")

	// ErrAlreadyExists is returned when a signup reuses a registered email.
	ErrAlreadyExists = errors.New("travelshare: already exists")
)
