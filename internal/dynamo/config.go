package dynamo

// byFolloweeIndex is the GSI on the follow table serving the followers view.
const byFolloweeIndex = "by-followee"

// Config holds the table names used by the Store.
type Config struct {
	// UsersTable holds user records keyed by id.
	// Default: "travelshare_users"
	UsersTable string

	// PostsTable holds post records keyed by id.
	// Default: "travelshare_posts"
	PostsTable string

	// FollowTable holds follow edges keyed by (follower_id, followee_id).
	// Default: "travelshare_follow_edges"
	FollowTable string

	// EmailTable holds email-uniqueness claims keyed by pk.
	// Default: "travelshare_emails"
	EmailTable string
}

// DefaultConfig returns the default table names.
func DefaultConfig() Config {
	return Config{
		UsersTable:  "travelshare_users",
		PostsTable:  "travelshare_posts",
		FollowTable: "travelshare_follow_edges",
		EmailTable:  "travelshare_emails",
	}
}

// validate fills in defaults for unset table names.
func (c *Config) validate() {
	if c.UsersTable == "" {
		c.UsersTable = "travelshare_users"
	}
	if c.PostsTable == "" {
		c.PostsTable = "travelshare_posts"
	}
	if c.FollowTable == "" {
		c.FollowTable = "travelshare_follow_edges"
	}
	if c.EmailTable == "" {
		c.EmailTable = "travelshare_emails"
	}
}
