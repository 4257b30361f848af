package server

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/postplanner/internal/logging"
	"github.com/dmitrijs2005/postplanner/internal/server/config"
	"github.com/dmitrijs2005/postplanner/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeManager struct {
	repomanager.RepositoryManager
	migrateErr error
	migrated   bool
}

func (m *fakeManager) RunMigrations(context.Context, *sql.DB) error {
	m.migrated = true
	return m.migrateErr
}

func stubStorage(t *testing.T, mgr *fakeManager, openErr error) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	origOpen, origMgr := openDB, newRepositoryManager
	t.Cleanup(func() {
		openDB, newRepositoryManager = origOpen, origMgr
		_ = db.Close()
	})

	openDB = func(ctx context.Context, dsn string) (*sql.DB, error) {
		if openErr != nil {
			return nil, openErr
		}
		return db, nil
	}
	newRepositoryManager = func() repomanager.RepositoryManager { return mgr }
	return mock
}

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.EndpointAddrHTTP = "127.0.0.1:0"
	c.EndpointAddrGRPC = "127.0.0.1:0"
	c.HealthCheckInterval = 50 * time.Millisecond
	return c
}

func TestNewApp_MissingDSN(t *testing.T) {
	c := testConfig()
	c.DatabaseDSN = ""

	_, err := NewApp(context.Background(), c, logging.Nop{})
	require.ErrorIs(t, err, config.ErrMissingDatabaseDSN)
}

func TestNewApp_OpenError(t *testing.T) {
	stubStorage(t, &fakeManager{}, errors.New("refused"))

	_, err := NewApp(context.Background(), testConfig(), logging.Nop{})
	require.ErrorContains(t, err, "db init error: refused")
}

func TestNewApp_MigrationError(t *testing.T) {
	mock := stubStorage(t, &fakeManager{migrateErr: errors.New("bad sql")}, nil)
	mock.ExpectClose()

	_, err := NewApp(context.Background(), testConfig(), logging.Nop{})
	require.ErrorContains(t, err, "migration error: bad sql")
}

func TestNewApp_RedisOptional(t *testing.T) {
	mgr := &fakeManager{}
	stubStorage(t, mgr, nil)

	app, err := NewApp(context.Background(), testConfig(), logging.Nop{})
	require.NoError(t, err)
	assert.True(t, mgr.migrated)
	assert.Nil(t, app.redis)

	c := testConfig()
	c.RedisAddr = "127.0.0.1:6379"
	app, err = NewApp(context.Background(), c, logging.Nop{})
	require.NoError(t, err)
	require.NotNil(t, app.redis)
	_ = app.redis.Close()
}

func TestRun_StopsOnCancel(t *testing.T) {
	mock := stubStorage(t, &fakeManager{}, nil)
	mock.ExpectClose()

	app, err := NewApp(context.Background(), testConfig(), logging.Nop{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRun_ServerFailureStopsApp(t *testing.T) {
	mock := stubStorage(t, &fakeManager{}, nil)
	mock.ExpectClose()

	c := testConfig()
	c.EndpointAddrHTTP = "127.0.0.1:99999"
	app, err := NewApp(context.Background(), c, logging.Nop{})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()

	select {
	case err := <-done:
		require.ErrorContains(t, err, "http")
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop after server failure")
	}
}
