package domain

import (
	"context"
	"io"
	"time"
)

// UserRepository defines persistence operations for user records.
type UserRepository interface {
	// GetUser retrieves a user by id. Returns ErrNotFound if absent.
	GetUser(ctx context.Context, id string) (*User, error)

	// CreateUser inserts a new user and claims its email atomically.
	// Returns ErrAlreadyExists if the email is already registered.
	CreateUser(ctx context.Context, user *User) error

	// UserIDByEmail resolves a registered email to a user id.
	// Returns ErrNotFound if the email is unknown.
	UserIDByEmail(ctx context.Context, email string) (string, error)

	// UpdateUserDescription replaces the description of the user record,
	// conditioned on the version read by the caller. Returns ErrConflict
	// if the record changed since that read.
	UpdateUserDescription(ctx context.Context, id, description string, version int64) error

	// SearchUsersByName returns users whose name matches exactly. An empty
	// result is returned as an empty slice, not an error.
	SearchUsersByName(ctx context.Context, name string) ([]User, error)
}

// PostRepository defines persistence operations for post records. CreatePost
// and DeletePost are two-record transactions: the post record and the
// creator's post list commit or abort together.
type PostRepository interface {
	// GetPost retrieves a post by id. Returns ErrNotFound if absent.
	GetPost(ctx context.Context, id string) (*Post, error)

	// CreatePost inserts the post and appends its id to the creator's post
	// list in one transaction. Returns ErrNotFound if the creator vanished.
	CreatePost(ctx context.Context, post *Post) error

	// DeletePost removes the post record and its id from the creator's post
	// list in one transaction, conditioned on the version read by the
	// caller. Returns ErrConflict if either record changed underneath.
	DeletePost(ctx context.Context, post *Post) error

	// SetHearts replaces the post's reaction set, conditioned on the version
	// read by the caller. Returns ErrConflict if the post changed since.
	SetHearts(ctx context.Context, postID string, hearts []string, version int64) error
}

// FollowRepository defines persistence for follow edges. An edge (follower,
// followee) is a single record; the conditional Put/Delete pair is the
// commit point where racing toggles are resolved.
type FollowRepository interface {
	// HasEdge reports whether follower currently follows followee, from a
	// strongly consistent read of the edge record.
	HasEdge(ctx context.Context, followerID, followeeID string) (bool, error)

	// PutEdge creates the edge, failing with ErrConflict if it already
	// exists (a concurrent follow won the race).
	PutEdge(ctx context.Context, followerID, followeeID string, at time.Time) error

	// DeleteEdge removes the edge, failing with ErrConflict if it is
	// already gone (a concurrent unfollow won the race).
	DeleteEdge(ctx context.Context, followerID, followeeID string) error

	// Following returns the ids the user follows, in edge insertion order.
	Following(ctx context.Context, userID string) ([]string, error)

	// Followers returns the ids following the user, in edge insertion order.
	Followers(ctx context.Context, userID string) ([]string, error)
}

// MediaStore stores uploaded images and releases them on post deletion.
type MediaStore interface {
	// Save stores an image and returns its opaque reference.
	Save(ctx context.Context, contentType string, body io.Reader) (string, error)

	// Release removes the blob behind ref.
	Release(ctx context.Context, ref string) error
}

// PasswordHasher hashes and verifies account credentials.
type PasswordHasher interface {
	Hash(password string) (string, error)

	// Compare returns a non-nil error when password does not match hash.
	Compare(hash, password string) error
}

// TokenIssuer mints access tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID, email string) (string, error)
}
