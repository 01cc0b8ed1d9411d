package domain

import (
	"context"
	"fmt"
)

// EngagementService owns the heart/unheart toggle on a post's reaction set.
type EngagementService struct {
	posts PostRepository
}

// NewEngagementService creates an EngagementService.
func NewEngagementService(posts PostRepository) *EngagementService {
	return &EngagementService{posts: posts}
}

// ToggleHeart flips userID's membership in the post's reaction set and
// returns the updated set. The post must exist (ErrNotFound otherwise); the
// user id is trusted as supplied and not resolved to a record. The branch is
// decided from a fresh read and committed under the version observed by that
// read, so a toggle racing another mutation of the same post fails with
// ErrConflict.
func (s *EngagementService) ToggleHeart(ctx context.Context, postID, userID string) ([]string, error) {
	post, err := s.posts.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	var hearts []string
	if post.Hearted(userID) {
		hearts = make([]string, 0, len(post.Hearts))
		for _, id := range post.Hearts {
			if id != userID {
				hearts = append(hearts, id)
			}
		}
	} else {
		hearts = append(append([]string{}, post.Hearts...), userID)
	}

	if err := s.posts.SetHearts(ctx, postID, hearts, post.Version); err != nil {
		return nil, fmt.Errorf("set hearts on %s: %w", postID, err)
	}
	return hearts, nil
}

// IsHearted reports whether userID is in the post's reaction set. The post
// must exist (ErrNotFound otherwise).
func (s *EngagementService) IsHearted(ctx context.Context, postID, userID string) (bool, error) {
	post, err := s.posts.GetPost(ctx, postID)
	if err != nil {
		return false, err
	}
	return post.Hearted(userID), nil
}
