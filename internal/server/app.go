// Package server wires configuration, storage, services and transports into
// a runnable application and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/postplanner/internal/logging"
	"github.com/dmitrijs2005/postplanner/internal/server/config"
	"github.com/dmitrijs2005/postplanner/internal/server/httpapi"
	"github.com/dmitrijs2005/postplanner/internal/server/ratelimit"
	"github.com/dmitrijs2005/postplanner/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/postplanner/internal/server/services"
	"github.com/redis/go-redis/v9"

	gs "github.com/dmitrijs2005/postplanner/internal/server/grpc"
)

// authRateLimitPrefix namespaces throttling counters in Redis.
const authRateLimitPrefix = "postplanner:auth"

// Seams for tests.
var (
	openDB               = repomanager.OpenPostgres
	newRepositoryManager = repomanager.NewPostgresRepositoryManager
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	redis  *redis.Client
	http   *httpapi.Server
	health *gs.HealthServer
}

// NewApp opens the database, applies migrations and builds every component.
// The returned App owns the database handle until Run returns.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	if c.SecretKey == "" {
		logger.Warn(ctx, "JWT secret is empty; authentication requests will fail with a server misconfiguration error")
	}

	db, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := newRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	app := &App{config: c, logger: logger, db: db}

	proxies, err := c.TrustedProxyPrefixes()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("config error: %w", err)
	}

	var limiter ratelimit.Limiter
	if c.RedisAddr != "" {
		app.redis = ratelimit.NewRedisClient(c.RedisAddr, c.RedisPassword)
		limiter = ratelimit.NewRedisLimiter(app.redis, c.AuthRateLimit, c.AuthRateWindow, authRateLimitPrefix)
	} else {
		logger.Info(ctx, "Redis address not set; auth rate limiting disabled")
	}

	app.http = httpapi.NewServer(httpapi.Deps{
		Users:          services.NewUserService(db, rm, c),
		Posts:          services.NewPostService(db, rm),
		Media:          services.NewMediaService(db, rm, c),
		Limiter:        limiter,
		DB:             db,
		Logger:         logger,
		CORSOrigins:    c.CORSOrigins,
		TrustedProxies: proxies,
	})
	app.health = gs.NewHealthServer(c.EndpointAddrGRPC, logger, db, c.HealthCheckInterval)

	return app, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run starts the HTTP and gRPC servers and blocks until ctx is cancelled, a
// termination signal arrives, or either server fails.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	run := func(name string, fn func(context.Context) error) {
		defer wg.Done()
		if err := fn(ctx); err != nil {
			app.logger.Error(ctx, "server failed", "server", name, "error", err)
			mu.Lock()
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			mu.Unlock()
			cancelFunc()
		}
	}

	wg.Add(2)
	go run("http", func(ctx context.Context) error { return app.http.Run(ctx, app.config.EndpointAddrHTTP) })
	go run("grpc", app.health.Run)

	wg.Wait()

	app.close(ctx)
	app.logger.Info(ctx, "App stopped")

	return errors.Join(errs...)
}

func (app *App) close(ctx context.Context) {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Warn(ctx, "redis close error", "error", err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Warn(ctx, "db close error", "error", err)
	}
}
