// Package domain holds the core entities and services of the TravelShare
// backend: the follow graph, per-post heart reactions, the read-time timeline
// aggregator, and the post/user lifecycle.
//
// The package owns all business rules but no I/O. Persistence, credential
// hashing, token issuance, and media storage are consumed through the
// interfaces in ports.go, so every service here can be exercised against
// in-memory fakes.
//
// # Consistency model
//
// A follow relationship is a single edge record keyed by (follower,
// followee). Both the "following" and "followers" views are reads over that
// one record, so the two sides can never disagree. Toggles decide their
// branch once, from a fresh read, and commit through a conditional write:
// when two toggles race, the store rejects the stale one and the caller
// sees [ErrConflict].
//
// Mutations that span two records (creating or deleting a post together
// with the creator's post list) go through the store's transaction
// primitive and commit all-or-nothing.
//
// # Errors
//
// Services return the sentinel errors in errors.go. [ErrEmpty] marks a
// well-formed query with no rows; it is deliberately distinct from
// [ErrNotFound]. [ErrConflict] is the only kind worth retrying.
package domain
