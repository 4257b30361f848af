package services

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/postplanner/internal/common"
	"github.com/dmitrijs2005/postplanner/internal/dbx"
	"github.com/dmitrijs2005/postplanner/internal/server/models"
	postsrepo "github.com/dmitrijs2005/postplanner/internal/server/repositories/posts"
	usersrepo "github.com/dmitrijs2005/postplanner/internal/server/repositories/users"
	"github.com/google/uuid"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

type fakeUsersRepo struct {
	mu      sync.Mutex
	byEmail map[string]*models.User
	creates int

	createErr error
	getErr    error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byEmail: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	f.creates++
	cp := *u
	cp.ID = uuid.NewString()
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.byEmail[cp.Email] = &cp
	out := cp
	return &out, nil
}

func (f *fakeUsersRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *u
	return &out, nil
}

func (f *fakeUsersRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byEmail {
		if u.ID == id {
			out := *u
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

type fakePostsRepo struct {
	mu    sync.Mutex
	byID  map[string]*models.Post
	seq   int
	fault error
}

func newFakePostsRepo() *fakePostsRepo {
	return &fakePostsRepo{byID: map[string]*models.Post{}}
}

func (f *fakePostsRepo) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fault != nil {
		return nil, f.fault
	}
	f.seq++
	cp := *p
	cp.ID = uuid.NewString()
	cp.CreatedAt = time.Unix(int64(f.seq), 0)
	cp.UpdatedAt = cp.CreatedAt
	f.byID[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakePostsRepo) ListByUser(ctx context.Context, userID string) ([]*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fault != nil {
		return nil, f.fault
	}
	var out []*models.Post
	for _, p := range f.byID {
		if p.UserID == userID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.ScheduledAt != nil && b.ScheduledAt != nil && !a.ScheduledAt.Equal(*b.ScheduledAt):
			return a.ScheduledAt.Before(*b.ScheduledAt)
		case a.ScheduledAt != nil && b.ScheduledAt == nil:
			return true
		case a.ScheduledAt == nil && b.ScheduledAt != nil:
			return false
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return out, nil
}

func (f *fakePostsRepo) GetByID(ctx context.Context, id string) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fault != nil {
		return nil, f.fault
	}
	p, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePostsRepo) Update(ctx context.Context, p *models.Post) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fault != nil {
		return nil, f.fault
	}
	cur, ok := f.byID[p.ID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *p
	cp.UserID = cur.UserID
	cp.UpdatedAt = time.Now()
	f.byID[p.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakePostsRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fault != nil {
		return f.fault
	}
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	p *fakePostsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{u: newFakeUsersRepo(), p: newFakePostsRepo()}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository   { return m.u }
func (m *fakeRepoManager) Posts(db dbx.DBTX) postsrepo.Repository   { return m.p }

var errBoom = errors.New("boom")
