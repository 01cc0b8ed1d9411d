package domain

import (
	"context"
	"fmt"
	"sort"
)

// ErrNoFollowedPosts reports a timeline over a non-empty following set whose
// users authored nothing. It matches ErrEmpty.
var ErrNoFollowedPosts = fmt.Errorf("followed users have no posts: %w", ErrEmpty)

// Timeline is a joined (post, creator) sequence: position i in Creators
// describes the author of Posts[i].
type Timeline struct {
	Posts    []Post
	Creators []User
}

// TimelineService computes a user's timeline by fanning out over the follow
// graph at read time. No materialized timeline is stored.
type TimelineService struct {
	users   UserRepository
	posts   PostRepository
	follows FollowRepository
}

// NewTimelineService creates a TimelineService.
func NewTimelineService(users UserRepository, posts PostRepository, follows FollowRepository) *TimelineService {
	return &TimelineService{users: users, posts: posts, follows: follows}
}

// Timeline aggregates the posts of everyone userID follows. The outer order
// is the following set's insertion order; within one followed user, posts
// appear in creation order. No sort, no deduplication, no pagination.
//
// Returns ErrNotFound if the user does not exist, ErrEmpty if they follow no
// one, ErrNoFollowedPosts if none of the followed users authored anything,
// and ErrTransient if any record vanishes mid-aggregation. Partial timelines
// are never returned.
func (s *TimelineService) Timeline(ctx context.Context, userID string) (*Timeline, error) {
	if _, err := s.users.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	following, err := s.follows.Following(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list following: %w", err)
	}
	if len(following) == 0 {
		return nil, ErrEmpty
	}

	var postIDs []string
	for _, followeeID := range following {
		followee, err := s.users.GetUser(ctx, followeeID)
		if err != nil {
			return nil, fmt.Errorf("resolve followed user %s: %v: %w", followeeID, err, ErrTransient)
		}
		postIDs = append(postIDs, followee.Posts...)
	}
	if len(postIDs) == 0 {
		return nil, ErrNoFollowedPosts
	}

	tl := &Timeline{
		Posts:    make([]Post, 0, len(postIDs)),
		Creators: make([]User, 0, len(postIDs)),
	}
	for _, postID := range postIDs {
		post, err := s.posts.GetPost(ctx, postID)
		if err != nil {
			return nil, fmt.Errorf("resolve post %s: %v: %w", postID, err, ErrTransient)
		}
		// The creator comes from the post's own record, not from the
		// followed user walked above.
		creator, err := s.users.GetUser(ctx, post.Creator)
		if err != nil {
			return nil, fmt.Errorf("resolve creator %s: %v: %w", post.Creator, err, ErrTransient)
		}
		tl.Posts = append(tl.Posts, *post)
		tl.Creators = append(tl.Creators, *creator)
	}
	return tl, nil
}

// RecentTimeline is the same aggregation as Timeline with the pairs
// reordered by post creation time, newest first. This is a separate view;
// the core Timeline contract stays in fan-out order.
func (s *TimelineService) RecentTimeline(ctx context.Context, userID string) (*Timeline, error) {
	tl, err := s.Timeline(ctx, userID)
	if err != nil {
		return nil, err
	}

	order := make([]int, len(tl.Posts))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return tl.Posts[order[a]].CreatedAt.After(tl.Posts[order[b]].CreatedAt)
	})

	sorted := &Timeline{
		Posts:    make([]Post, len(order)),
		Creators: make([]User, len(order)),
	}
	for i, idx := range order {
		sorted.Posts[i] = tl.Posts[idx]
		sorted.Creators[i] = tl.Creators[idx]
	}
	return sorted, nil
}
