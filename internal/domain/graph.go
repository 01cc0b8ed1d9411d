package domain

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// GraphService owns the follow/unfollow toggle and the read contracts over
// the follow graph.
type GraphService struct {
	users   UserRepository
	follows FollowRepository
	logger  *slog.Logger
}

// NewGraphService creates a GraphService.
func NewGraphService(users UserRepository, follows FollowRepository, logger *slog.Logger) *GraphService {
	if logger == nil {
		logger = slog.Default()
	}
	return &GraphService{users: users, follows: follows, logger: logger}
}

// ToggleFollow flips the follow relationship from actor to target and
// returns the target's updated follower ids. The result always reflects the
// edge this call committed, even when the follower view trails the write.
// Both users must exist
// (ErrNotFound otherwise). The branch is decided once, from a fresh read of
// the edge record; a toggle that loses a race to a concurrent toggle on the
// same edge fails with ErrConflict and applies nothing.
//
// A user may follow themself; the (A, A) edge toggles like any other.
func (s *GraphService) ToggleFollow(ctx context.Context, actorID, targetID string) ([]string, error) {
	if _, err := s.users.GetUser(ctx, actorID); err != nil {
		return nil, fmt.Errorf("resolve actor %s: %w", actorID, err)
	}
	if _, err := s.users.GetUser(ctx, targetID); err != nil {
		return nil, fmt.Errorf("resolve target %s: %w", targetID, err)
	}

	following, err := s.follows.HasEdge(ctx, actorID, targetID)
	if err != nil {
		return nil, fmt.Errorf("read edge: %w", err)
	}

	if following {
		err = s.follows.DeleteEdge(ctx, actorID, targetID)
	} else {
		err = s.follows.PutEdge(ctx, actorID, targetID, time.Now().UTC())
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("follow toggled",
		"actor", actorID,
		"target", targetID,
		"following", !following,
	)

	followers, err := s.follows.Followers(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("list followers: %w", err)
	}

	// The follower view can be served from an index that has not caught up
	// with the edge write above. Fold the toggled edge into the result so
	// the caller always reads their own write.
	if following {
		kept := followers[:0]
		for _, id := range followers {
			if id != actorID {
				kept = append(kept, id)
			}
		}
		return kept, nil
	}
	for _, id := range followers {
		if id == actorID {
			return followers, nil
		}
	}
	return append(followers, actorID), nil
}

// ListFollowing resolves the full user records the given user follows, in
// edge insertion order. Returns ErrNotFound if the user does not exist and
// ErrEmpty if they follow no one.
func (s *GraphService) ListFollowing(ctx context.Context, userID string) ([]User, error) {
	if _, err := s.users.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	ids, err := s.follows.Following(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list following: %w", err)
	}
	if len(ids) == 0 {
		return nil, ErrEmpty
	}

	users := make([]User, 0, len(ids))
	for _, id := range ids {
		u, err := s.users.GetUser(ctx, id)
		if err != nil {
			// A followed user vanishing between the edge read and the
			// record read aborts the whole listing.
			return nil, fmt.Errorf("resolve followed user %s: %v: %w", id, err, ErrTransient)
		}
		users = append(users, *u)
	}
	return users, nil
}

// IsFollowing reports whether actor follows target. Both users must exist
// (ErrNotFound otherwise). The edge record itself is the canonical answer;
// the legacy follower/following sides are both views over it.
func (s *GraphService) IsFollowing(ctx context.Context, actorID, targetID string) (bool, error) {
	if _, err := s.users.GetUser(ctx, actorID); err != nil {
		return false, fmt.Errorf("resolve actor %s: %w", actorID, err)
	}
	if _, err := s.users.GetUser(ctx, targetID); err != nil {
		return false, fmt.Errorf("resolve target %s: %w", targetID, err)
	}
	return s.follows.HasEdge(ctx, actorID, targetID)
}
