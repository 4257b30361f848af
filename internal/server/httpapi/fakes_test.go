package httpapi

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/postplanner/internal/common"
	"github.com/dmitrijs2005/postplanner/internal/dbx"
	"github.com/dmitrijs2005/postplanner/internal/server/models"
	postsrepo "github.com/dmitrijs2005/postplanner/internal/server/repositories/posts"
	usersrepo "github.com/dmitrijs2005/postplanner/internal/server/repositories/users"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// openTxDB returns a database that only serves as a transaction source for
// the services; all data lives in the in-memory repositories below.
func openTxDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type memStore struct {
	mu    sync.Mutex
	users map[string]*models.User
	posts map[string]*models.Post
	seq   int64
}

func newMemStore() *memStore {
	return &memStore{users: map[string]*models.User{}, posts: map[string]*models.Post{}}
}

func (m *memStore) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *memStore) Users(dbx.DBTX) usersrepo.Repository          { return memUsers{m} }
func (m *memStore) Posts(dbx.DBTX) postsrepo.Repository          { return memPosts{m} }

type memUsers struct{ m *memStore }

func (r memUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.users {
		if existing.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	cp := *u
	cp.ID = uuid.NewString()
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	r.m.users[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r memUsers) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memUsers) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *u
	return &out, nil
}

type memPosts struct{ m *memStore }

func (r memPosts) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.seq++
	cp := *p
	cp.ID = uuid.NewString()
	cp.CreatedAt = time.Unix(1_700_000_000+r.m.seq, 0).UTC()
	cp.UpdatedAt = cp.CreatedAt
	r.m.posts[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r memPosts) ListByUser(ctx context.Context, userID string) ([]*models.Post, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var scheduled, undated []*models.Post
	for _, p := range r.m.posts {
		if p.UserID != userID {
			continue
		}
		cp := *p
		if cp.ScheduledAt != nil {
			scheduled = append(scheduled, &cp)
		} else {
			undated = append(undated, &cp)
		}
	}
	sortPosts(scheduled, func(a, b *models.Post) bool {
		if !a.ScheduledAt.Equal(*b.ScheduledAt) {
			return a.ScheduledAt.Before(*b.ScheduledAt)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	sortPosts(undated, func(a, b *models.Post) bool { return a.CreatedAt.After(b.CreatedAt) })
	return append(scheduled, undated...), nil
}

func sortPosts(list []*models.Post, less func(a, b *models.Post) bool) {
	for i := 1; i < len(list); i++ {
		for j := i; j > 0 && less(list[j], list[j-1]); j-- {
			list[j], list[j-1] = list[j-1], list[j]
		}
	}
}

func (r memPosts) GetByID(ctx context.Context, id string) (*models.Post, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.posts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *p
	return &out, nil
}

func (r memPosts) Update(ctx context.Context, p *models.Post) (*models.Post, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	cur, ok := r.m.posts[p.ID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *p
	cp.UserID = cur.UserID
	cp.UpdatedAt = time.Now().UTC()
	r.m.posts[p.ID] = &cp
	out := cp
	return &out, nil
}

func (r memPosts) Delete(ctx context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.posts[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.m.posts, id)
	return nil
}
