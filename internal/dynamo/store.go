package dynamo

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/mkovac00/travelshare-backend/internal/domain"
)

// timeFormat is the stored timestamp layout for user and post records.
const timeFormat = time.RFC3339

// edgeTimeFormat keeps sub-second precision so edge insertion order survives
// round-trips.
const edgeTimeFormat = time.RFC3339Nano

// Store provides DynamoDB-backed persistence for users, posts, and follow
// edges. It implements domain.UserRepository, domain.PostRepository, and
// domain.FollowRepository.
type Store struct {
	client *dynamodb.Client
	config Config
}

// New creates a new Store instance.
func New(client *dynamodb.Client, config Config) *Store {
	config.validate()
	return &Store{
		client: client,
		config: config,
	}
}

// conditionFailed reports whether err is a failed condition expression on a
// single-item write.
func conditionFailed(err error) bool {
	var condErr *types.ConditionalCheckFailedException
	return errors.As(err, &condErr)
}

// transient wraps a raw SDK failure so callers only ever see the domain
// error kinds.
func transient(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, domain.ErrTransient)
}

// translateWrite maps a single-item conditional write error: failed
// conditions become kind, everything else becomes ErrTransient.
func translateWrite(op string, err error, kind error) error {
	if err == nil {
		return nil
	}
	if conditionFailed(err) {
		return fmt.Errorf("%s: %w", op, kind)
	}
	return transient(op, err)
}

// translateTransaction maps a TransactWriteItems error. kinds holds the
// error to return per item index when that item's condition failed; items
// without an entry fall back to ErrConflict.
func translateTransaction(op string, err error, kinds map[int]error) error {
	if err == nil {
		return nil
	}

	var txErr *types.TransactionCanceledException
	if errors.As(err, &txErr) {
		for i, reason := range txErr.CancellationReasons {
			if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
				if kind, ok := kinds[i]; ok {
					return fmt.Errorf("%s: %w", op, kind)
				}
				return fmt.Errorf("%s: %w", op, domain.ErrConflict)
			}
		}
		// Cancelled for another item's sake (e.g. TransactionConflict):
		// the decision may be stale, retry is safe.
		return fmt.Errorf("%s: %w", op, domain.ErrConflict)
	}

	return transient(op, err)
}

func formatInt(n int64) string {
	return strconv.FormatInt(n, 10)
}

// parseTime parses a stored timestamp, tolerating both layouts.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(edgeTimeFormat, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
