package domain_test

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/mkovac00/travelshare-backend/internal/domain"
)

// memStore is an in-memory stand-in for the DynamoDB repositories. It
// reproduces the store's concurrency contract: conditional edge writes fail
// with ErrConflict when the condition no longer holds, and version-guarded
// updates fail with ErrConflict on a stale version.
type memStore struct {
	mu     sync.Mutex
	users  map[string]domain.User
	posts  map[string]domain.Post
	emails map[string]string
	edges  map[string]map[string]int64 // follower -> followee -> insertion seq
	seq    int64
}

func newMemStore() *memStore {
	return &memStore{
		users:  make(map[string]domain.User),
		posts:  make(map[string]domain.Post),
		emails: make(map[string]string),
		edges:  make(map[string]map[string]int64),
	}
}

// seedUser installs a user record directly, bypassing signup.
func (m *memStore) seedUser(id, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[id] = domain.User{
		ID:        id,
		Name:      name,
		Email:     id + "@example.com",
		Posts:     []string{},
		Version:   1,
		CreatedAt: time.Now().UTC(),
	}
	m.emails[id+"@example.com"] = id
}

// seedPost installs a post and appends it to the creator's post list.
func (m *memStore) seedPost(id, creator string, createdAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts[id] = domain.Post{
		ID:        id,
		Creator:   creator,
		Hearts:    []string{},
		Version:   1,
		CreatedAt: createdAt,
	}
	u := m.users[creator]
	u.Posts = append(u.Posts, id)
	m.users[creator] = u
}

// removeUser simulates a record vanishing mid-aggregation.
func (m *memStore) removeUser(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
}

func copyUser(u domain.User) *domain.User {
	c := u
	c.Posts = append([]string{}, u.Posts...)
	return &c
}

func copyPost(p domain.Post) *domain.Post {
	c := p
	c.Hearts = append([]string{}, p.Hearts...)
	return &c
}

// --- UserRepository ---

func (m *memStore) GetUser(ctx context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyUser(u), nil
}

func (m *memStore) CreateUser(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.emails[user.Email]; ok {
		return domain.ErrAlreadyExists
	}
	if _, ok := m.users[user.ID]; ok {
		return domain.ErrAlreadyExists
	}
	u := *copyUser(*user)
	u.Version = 1
	m.users[user.ID] = u
	m.emails[user.Email] = user.ID
	return nil
}

func (m *memStore) UserIDByEmail(ctx context.Context, email string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.emails[email]
	if !ok {
		return "", domain.ErrNotFound
	}
	return id, nil
}

func (m *memStore) UpdateUserDescription(ctx context.Context, id, description string, version int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok || u.Version != version {
		return domain.ErrConflict
	}
	u.Description = description
	u.Version++
	m.users[id] = u
	return nil
}

func (m *memStore) SearchUsersByName(ctx context.Context, name string) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.User
	for _, u := range m.users {
		if u.Name == name {
			out = append(out, *copyUser(u))
		}
	}
	return out, nil
}

// --- PostRepository ---

func (m *memStore) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyPost(p), nil
}

func (m *memStore) CreatePost(ctx context.Context, post *domain.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[post.Creator]
	if !ok {
		return domain.ErrNotFound
	}
	if _, ok := m.posts[post.ID]; ok {
		return domain.ErrAlreadyExists
	}
	p := *copyPost(*post)
	p.Version = 1
	m.posts[post.ID] = p
	u.Posts = append(u.Posts, post.ID)
	u.Version++
	m.users[post.Creator] = u
	return nil
}

func (m *memStore) DeletePost(ctx context.Context, post *domain.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[post.ID]
	if !ok || p.Version != post.Version {
		return domain.ErrConflict
	}
	delete(m.posts, post.ID)
	u, ok := m.users[p.Creator]
	if ok {
		kept := u.Posts[:0]
		for _, id := range u.Posts {
			if id != post.ID {
				kept = append(kept, id)
			}
		}
		u.Posts = kept
		u.Version++
		m.users[p.Creator] = u
	}
	return nil
}

func (m *memStore) SetHearts(ctx context.Context, postID string, hearts []string, version int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[postID]
	if !ok {
		return domain.ErrNotFound
	}
	if p.Version != version {
		return domain.ErrConflict
	}
	p.Hearts = append([]string{}, hearts...)
	p.Version++
	m.posts[postID] = p
	return nil
}

// --- FollowRepository ---

func (m *memStore) HasEdge(ctx context.Context, followerID, followeeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.edges[followerID][followeeID]
	return ok, nil
}

func (m *memStore) PutEdge(ctx context.Context, followerID, followeeID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.edges[followerID][followeeID]; ok {
		return domain.ErrConflict
	}
	if m.edges[followerID] == nil {
		m.edges[followerID] = make(map[string]int64)
	}
	m.seq++
	m.edges[followerID][followeeID] = m.seq
	return nil
}

func (m *memStore) DeleteEdge(ctx context.Context, followerID, followeeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.edges[followerID][followeeID]; !ok {
		return domain.ErrConflict
	}
	delete(m.edges[followerID], followeeID)
	return nil
}

func (m *memStore) Following(ctx context.Context, userID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	type edge struct {
		id  string
		seq int64
	}
	var es []edge
	for followee, seq := range m.edges[userID] {
		es = append(es, edge{followee, seq})
	}
	sort.Slice(es, func(a, b int) bool { return es[a].seq < es[b].seq })
	ids := make([]string, 0, len(es))
	for _, e := range es {
		ids = append(ids, e.id)
	}
	return ids, nil
}

func (m *memStore) Followers(ctx context.Context, userID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	type edge struct {
		id  string
		seq int64
	}
	var es []edge
	for follower, followees := range m.edges {
		if seq, ok := followees[userID]; ok {
			es = append(es, edge{follower, seq})
		}
	}
	sort.Slice(es, func(a, b int) bool { return es[a].seq < es[b].seq })
	ids := make([]string, 0, len(es))
	for _, e := range es {
		ids = append(ids, e.id)
	}
	return ids, nil
}

// --- Collaborator fakes ---

type fakeMedia struct {
	mu       sync.Mutex
	released []string
	failWith error
}

func (f *fakeMedia) Save(ctx context.Context, contentType string, body io.Reader) (string, error) {
	return "", fmt.Errorf("not implemented")
}

func (f *fakeMedia) Release(ctx context.Context, ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	f.released = append(f.released, ref)
	return nil
}

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (fakeHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return fmt.Errorf("mismatch")
	}
	return nil
}

type fakeTokens struct{}

func (fakeTokens) Issue(userID, email string) (string, error) {
	return "token-" + userID, nil
}
