package domain

import "time"

// Post is a shared travel photo. Creator and CreatedAt are immutable after
// creation. Hearts is the set of user ids that reacted, kept as an ordered
// collection with set semantics (no duplicates).
type Post struct {
	ID          string
	Creator     string
	Description string

	// Image is the opaque media reference handed out by the media store.
	Image string

	Hearts []string

	// Version is the store's optimistic lock counter for this record.
	Version int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Hearted reports whether userID is in the post's reaction set.
func (p *Post) Hearted(userID string) bool {
	for _, id := range p.Hearts {
		if id == userID {
			return true
		}
	}
	return false
}
