package domain

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// PostService owns the post lifecycle: creation, deletion, and reads.
type PostService struct {
	users  UserRepository
	posts  PostRepository
	media  MediaStore
	logger *slog.Logger
}

// NewPostService creates a PostService.
func NewPostService(users UserRepository, posts PostRepository, media MediaStore, logger *slog.Logger) *PostService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostService{users: users, posts: posts, media: media, logger: logger}
}

// CreatePost creates a post with an empty reaction set and appends its id to
// the actor's post list in one transaction. The actor must exist
// (ErrNotFound otherwise).
func (s *PostService) CreatePost(ctx context.Context, actorID, description, imageRef string) (*Post, error) {
	if _, err := s.users.GetUser(ctx, actorID); err != nil {
		return nil, err
	}

	post := &Post{
		ID:          uuid.NewString(),
		Creator:     actorID,
		Description: description,
		Image:       imageRef,
		Hearts:      []string{},
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

// DeletePost removes the post and detaches it from its creator's post list
// in one transaction. Only the creator may delete (ErrUnauthorized
// otherwise); the post must exist (ErrNotFound). The post's image is
// released afterwards on a best-effort basis: a failed release is logged,
// never propagated, and does not undo the delete.
func (s *PostService) DeletePost(ctx context.Context, actorID, postID string) error {
	post, err := s.posts.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if post.Creator != actorID {
		return fmt.Errorf("delete post %s: %w", postID, ErrUnauthorized)
	}

	if err := s.posts.DeletePost(ctx, post); err != nil {
		return fmt.Errorf("delete post %s: %w", postID, err)
	}

	if post.Image == "" {
		return nil
	}
	if err := s.media.Release(ctx, post.Image); err != nil {
		s.logger.Warn("failed to release post image",
			"post", postID,
			"image", post.Image,
			"error", err,
		)
	}
	return nil
}

// GetPost retrieves a single post by id.
func (s *PostService) GetPost(ctx context.Context, postID string) (*Post, error) {
	return s.posts.GetPost(ctx, postID)
}

// PostsForUser returns the user's own posts in creation order together with
// the author record. Returns ErrNotFound if the user does not exist and
// ErrEmpty if they have not authored anything.
func (s *PostService) PostsForUser(ctx context.Context, userID string) ([]Post, *User, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if len(user.Posts) == 0 {
		return nil, nil, ErrEmpty
	}

	posts := make([]Post, 0, len(user.Posts))
	for _, postID := range user.Posts {
		post, err := s.posts.GetPost(ctx, postID)
		if err != nil {
			return nil, nil, fmt.Errorf("resolve post %s: %v: %w", postID, err, ErrTransient)
		}
		posts = append(posts, *post)
	}
	return posts, user, nil
}

// UserService owns user profile reads and edits.
type UserService struct {
	users UserRepository
}

// NewUserService creates a UserService.
func NewUserService(users UserRepository) *UserService {
	return &UserService{users: users}
}

// GetUser retrieves a user by id.
func (s *UserService) GetUser(ctx context.Context, userID string) (*User, error) {
	return s.users.GetUser(ctx, userID)
}

// EditDescription replaces a user's profile description. Users may only edit
// themselves (ErrUnauthorized otherwise). Single-record update conditioned
// on the version read here; ErrConflict if the record changed underneath.
func (s *UserService) EditDescription(ctx context.Context, actorID, targetID, description string) (*User, error) {
	if actorID != targetID {
		return nil, fmt.Errorf("edit user %s: %w", targetID, ErrUnauthorized)
	}

	user, err := s.users.GetUser(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if err := s.users.UpdateUserDescription(ctx, targetID, description, user.Version); err != nil {
		return nil, fmt.Errorf("update description: %w", err)
	}

	user.Description = description
	return user, nil
}

// SearchUsers returns users whose name matches exactly. No match is an
// empty slice, not an error.
func (s *UserService) SearchUsers(ctx context.Context, name string) ([]User, error) {
	return s.users.SearchUsersByName(ctx, name)
}
