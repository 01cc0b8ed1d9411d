// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/mkovac00/travelshare-backend/internal/dynamo"
)

// Config holds all configuration for the application.
type Config struct {
	// Port is the HTTP server port.
	Port int

	// JWTSecret signs access tokens.
	JWTSecret string

	// MediaBucket is the S3 bucket holding uploaded images.
	MediaBucket string

	// Tables holds the DynamoDB table names.
	Tables dynamo.Config
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	port := 3000
	if p := os.Getenv("PORT"); p != "" {
		var err error
		port, err = strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %w", err)
		}
	}

	secret := os.Getenv("TRAVELSHARE_JWT_SECRET")
	if secret == "" {
		secret = "travelshare_secret_key_1"
	}

	bucket := os.Getenv("TRAVELSHARE_MEDIA_BUCKET")
	if bucket == "" {
		return nil, fmt.Errorf("TRAVELSHARE_MEDIA_BUCKET is required")
	}

	return &Config{
		Port:        port,
		JWTSecret:   secret,
		MediaBucket: bucket,
		Tables:      LoadTables(),
	}, nil
}

// LoadTables reads only the DynamoDB table names. Commands that provision
// tables without touching the HTTP server or the media bucket use this
// instead of Load.
func LoadTables() dynamo.Config {
	tables := dynamo.DefaultConfig()
	if v := os.Getenv("TRAVELSHARE_USERS_TABLE"); v != "" {
		tables.UsersTable = v
	}
	if v := os.Getenv("TRAVELSHARE_POSTS_TABLE"); v != "" {
		tables.PostsTable = v
	}
	if v := os.Getenv("TRAVELSHARE_FOLLOW_TABLE"); v != "" {
		tables.FollowTable = v
	}
	if v := os.Getenv("TRAVELSHARE_EMAILS_TABLE"); v != "" {
		tables.EmailTable = v
	}
	return tables
}
