// Package httpapi exposes the REST surface of PostPlanner over chi.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/netip"
	"time"

	"github.com/dmitrijs2005/postplanner/internal/logging"
	"github.com/dmitrijs2005/postplanner/internal/server/models"
	"github.com/dmitrijs2005/postplanner/internal/server/ratelimit"
	"github.com/dmitrijs2005/postplanner/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
	healthPingTimeout = 2 * time.Second
)

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	ResolveIdentity(token string) (string, error)
	GetProfile(ctx context.Context, userID string) (*models.User, error)
}

type PostService interface {
	Create(ctx context.Context, userID string, in models.PostInput) (*models.Post, error)
	List(ctx context.Context, userID string) ([]*models.Post, error)
	Get(ctx context.Context, userID, id string) (*models.Post, error)
	Update(ctx context.Context, userID, id string, patch models.PostPatch) (*models.Post, error)
	Delete(ctx context.Context, userID, id string) error
}

type MediaService interface {
	PresignUpload(ctx context.Context, userID, postID, contentType string) (*services.PresignedURL, error)
	PresignDownload(ctx context.Context, userID, postID, key string) (*services.PresignedURL, error)
}

// Pinger reports database reachability for /healthz.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps bundles everything the router needs. Limiter may be nil, which
// disables auth throttling. Forwarding headers are only honoured for peers
// inside TrustedProxies.
type Deps struct {
	Users          AuthService
	Posts          PostService
	Media          MediaService
	Limiter        ratelimit.Limiter
	DB             Pinger
	Logger         logging.Logger
	CORSOrigins    []string
	TrustedProxies []netip.Prefix
}

type Server struct {
	users          AuthService
	posts          PostService
	media          MediaService
	limiter        ratelimit.Limiter
	db             Pinger
	logger         logging.Logger
	corsOrigins    []string
	trustedProxies []netip.Prefix
}

func NewServer(d Deps) *Server {
	return &Server{
		users:          d.Users,
		posts:          d.Posts,
		media:          d.Media,
		limiter:        d.Limiter,
		db:             d.DB,
		logger:         d.Logger.With("module", "http_server"),
		corsOrigins:    d.CORSOrigins,
		trustedProxies: d.TrustedProxies,
	}
}

// Routes builds the chi router with all middleware attached.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(trustedRealIP(s.trustedProxies))
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				if s.limiter != nil {
					r.Use(ratelimit.Middleware(s.limiter, s.logger, s.writeError))
				}
				r.Post("/register", s.handleRegister)
				r.Post("/login", s.handleLogin)
			})
			r.With(s.identityMiddleware).Get("/me", s.handleMe)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Use(s.identityMiddleware)

			r.Get("/", s.handleListPosts)
			r.Post("/", s.handleCreatePost)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetPost)
				r.Put("/", s.handleUpdatePost)
				r.Delete("/", s.handleDeletePost)

				r.Post("/media", s.handlePresignUpload)
				r.Get("/media", s.handlePresignDownload)
			})
		})
	})

	return r
}

// Run serves the API on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn(ctx, "health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false, "message": "Database unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
