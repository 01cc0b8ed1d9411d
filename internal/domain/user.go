package domain

import "time"

// User is a registered account. Follow relationships are not stored on the
// user record; they live as edge records behind FollowRepository. Posts is
// the ordered sequence of the user's post ids, oldest first.
type User struct {
	ID             string
	Name           string
	Email          string
	PasswordHash   string
	ProfilePicture string
	CoverPicture   string
	Description    string
	Posts          []string

	// Version is the store's optimistic lock counter for this record.
	Version int64

	CreatedAt time.Time
	UpdatedAt time.Time
}
