package httpserver_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/mkovac00/travelshare-backend/internal/auth"
	"github.com/mkovac00/travelshare-backend/internal/config"
	"github.com/mkovac00/travelshare-backend/internal/domain"
	"github.com/mkovac00/travelshare-backend/internal/httpserver"
)

// fakeRepo is a minimal in-memory backend for routing tests. It keeps just
// enough of the repository contract for the handlers to exercise.
type fakeRepo struct {
	mu     sync.Mutex
	users  map[string]domain.User
	posts  map[string]domain.Post
	emails map[string]string
	edges  map[string]map[string]int64
	seq    int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:  make(map[string]domain.User),
		posts:  make(map[string]domain.Post),
		emails: make(map[string]string),
		edges:  make(map[string]map[string]int64),
	}
}

func (f *fakeRepo) seedUser(id, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[id] = domain.User{
		ID:      id,
		Name:    name,
		Email:   id + "@example.com",
		Posts:   []string{},
		Version: 1,
	}
	f.emails[id+"@example.com"] = id
}

func (f *fakeRepo) seedPost(id, creator string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posts[id] = domain.Post{
		ID:      id,
		Creator: creator,
		Image:   "uploads/images/" + id + ".png",
		Hearts:  []string{},
		Version: 1,
	}
	u := f.users[creator]
	u.Posts = append(u.Posts, id)
	f.users[creator] = u
}

func (f *fakeRepo) GetUser(ctx context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u.Posts = append([]string{}, u.Posts...)
	return &u, nil
}

func (f *fakeRepo) CreateUser(ctx context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.emails[user.Email]; ok {
		return domain.ErrAlreadyExists
	}
	f.users[user.ID] = *user
	f.emails[user.Email] = user.ID
	return nil
}

func (f *fakeRepo) UserIDByEmail(ctx context.Context, email string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.emails[email]
	if !ok {
		return "", domain.ErrNotFound
	}
	return id, nil
}

func (f *fakeRepo) UpdateUserDescription(ctx context.Context, id, description string, version int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok || u.Version != version {
		return domain.ErrConflict
	}
	u.Description = description
	u.Version++
	f.users[id] = u
	return nil
}

func (f *fakeRepo) SearchUsersByName(ctx context.Context, name string) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := []domain.User{}
	for _, u := range f.users {
		if u.Name == name {
			result = append(result, u)
		}
	}
	return result, nil
}

func (f *fakeRepo) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p.Hearts = append([]string{}, p.Hearts...)
	return &p, nil
}

func (f *fakeRepo) CreatePost(ctx context.Context, post *domain.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[post.Creator]
	if !ok {
		return domain.ErrNotFound
	}
	f.posts[post.ID] = *post
	u.Posts = append(u.Posts, post.ID)
	f.users[post.Creator] = u
	return nil
}

func (f *fakeRepo) DeletePost(ctx context.Context, post *domain.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.posts[post.ID]; !ok {
		return domain.ErrConflict
	}
	delete(f.posts, post.ID)
	u := f.users[post.Creator]
	kept := u.Posts[:0]
	for _, id := range u.Posts {
		if id != post.ID {
			kept = append(kept, id)
		}
	}
	u.Posts = kept
	f.users[post.Creator] = u
	return nil
}

func (f *fakeRepo) SetHearts(ctx context.Context, postID string, hearts []string, version int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[postID]
	if !ok || p.Version != version {
		return domain.ErrConflict
	}
	p.Hearts = hearts
	p.Version++
	f.posts[postID] = p
	return nil
}

func (f *fakeRepo) HasEdge(ctx context.Context, followerID, followeeID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.edges[followerID][followeeID]
	return ok, nil
}

func (f *fakeRepo) PutEdge(ctx context.Context, followerID, followeeID string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.edges[followerID][followeeID]; ok {
		return domain.ErrConflict
	}
	if f.edges[followerID] == nil {
		f.edges[followerID] = make(map[string]int64)
	}
	f.seq++
	f.edges[followerID][followeeID] = f.seq
	return nil
}

func (f *fakeRepo) DeleteEdge(ctx context.Context, followerID, followeeID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.edges[followerID][followeeID]; !ok {
		return domain.ErrConflict
	}
	delete(f.edges[followerID], followeeID)
	return nil
}

func (f *fakeRepo) Following(ctx context.Context, userID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []string
	for followee := range f.edges[userID] {
		result = append(result, followee)
	}
	return result, nil
}

func (f *fakeRepo) Followers(ctx context.Context, userID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []string
	for follower, followees := range f.edges {
		if _, ok := followees[userID]; ok {
			result = append(result, follower)
		}
	}
	return result, nil
}

// fakeMedia records saves and releases.
type fakeMedia struct {
	mu       sync.Mutex
	saved    []string
	released []string
}

func (f *fakeMedia) Save(ctx context.Context, contentType string, body io.Reader) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ref := fmt.Sprintf("uploads/images/fake-%d.png", len(f.saved))
	f.saved = append(f.saved, ref)
	return ref, nil
}

func (f *fakeMedia) Release(ctx context.Context, ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released = append(f.released, ref)
	return nil
}

// fakeHasher avoids bcrypt latency in routing tests.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (fakeHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return fmt.Errorf("mismatch")
	}
	return nil
}

type testServer struct {
	handler http.Handler
	repo    *fakeRepo
	media   *fakeMedia
	issuer  *auth.JWTIssuer
}

func newTestServer() *testServer {
	repo := newFakeRepo()
	media := &fakeMedia{}
	issuer := auth.NewJWTIssuer("test-secret", time.Hour)
	logger := slog.Default()

	services := httpserver.Services{
		Accounts:   domain.NewAccountService(repo, fakeHasher{}, issuer),
		Users:      domain.NewUserService(repo),
		Posts:      domain.NewPostService(repo, repo, media, logger),
		Graph:      domain.NewGraphService(repo, repo, logger),
		Engagement: domain.NewEngagementService(repo),
		Timeline:   domain.NewTimelineService(repo, repo, repo),
	}

	server := httpserver.NewServer(&config.Config{Port: 0}, services, media, issuer, logger)
	return &testServer{
		handler: server.Handler(),
		repo:    repo,
		media:   media,
		issuer:  issuer,
	}
}

func (ts *testServer) token(userID string) string {
	token, err := ts.issuer.Issue(userID, userID+"@example.com")
	if err != nil {
		panic(err)
	}
	return token
}
