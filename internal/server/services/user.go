// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login, token verification and
// profile lookup.
package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/postplanner/internal/common"
	"github.com/dmitrijs2005/postplanner/internal/dbx"
	"github.com/dmitrijs2005/postplanner/internal/server/auth"
	"github.com/dmitrijs2005/postplanner/internal/server/config"
	"github.com/dmitrijs2005/postplanner/internal/server/models"
	"github.com/dmitrijs2005/postplanner/internal/server/repositories/repomanager"
)

// AuthResult is returned by Register and Login.
type AuthResult struct {
	User  *models.User
	Token string
}

// UserService provides authentication-related operations:
//   - Register: create users and mint a long-lived token
//   - Login: verify credentials and mint a token
//   - ResolveIdentity: turn a bearer token into a user ID
//   - GetProfile: load the caller's public profile
type UserService struct {
	db                            *sql.DB
	repomanager                   repomanager.RepositoryManager
	jwtSecret                     []byte
	registerTokenValidityDuration time.Duration
	loginTokenValidityDuration    time.Duration
	bcryptCost                    int
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                            db,
		repomanager:                   m,
		jwtSecret:                     []byte(cfg.SecretKey),
		registerTokenValidityDuration: cfg.RegisterTokenValidityDuration,
		loginTokenValidityDuration:    cfg.LoginTokenValidityDuration,
		bcryptCost:                    cfg.BcryptCost,
	}
}

// Register creates a user and returns it together with a fresh token.
// A missing signing secret is detected before anything is written.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, common.NewError(common.ErrorValidation, "All fields are required")
	}
	if len(s.jwtSecret) == 0 {
		return nil, common.NewError(common.ErrorMisconfiguration, "Server misconfiguration")
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, common.WrapError(common.ErrorInternal, "Internal Server Error", err)
	}

	user := &models.User{Name: name, Email: email, PasswordHash: hash}
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		_, err := repo.GetUserByEmail(ctx, email)
		switch {
		case err == nil:
			return common.ErrorAlreadyExists
		case !errors.Is(err, common.ErrorNotFound):
			return err
		}

		user, err = repo.Create(ctx, user)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.NewError(common.ErrorAlreadyExists, "User already exists")
		}
		return nil, common.WrapError(common.ErrorInternal, "Internal Server Error", err)
	}

	token, err := s.issueToken(user.ID, s.registerTokenValidityDuration)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

// Login verifies credentials. Unknown emails and wrong passwords produce the
// same error and cost the same bcrypt work.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, common.NewError(common.ErrorValidation, "Please fill all fields")
	}

	invalid := common.NewError(common.ErrorInvalidCredentials, "Invalid credentials")

	user, err := s.repomanager.Users(s.db).GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			auth.BurnPasswordCheck(password)
			return nil, invalid
		}
		return nil, common.WrapError(common.ErrorInternal, "Server error", err)
	}

	ok, err := auth.CheckPassword(user.PasswordHash, password)
	if err != nil {
		return nil, common.WrapError(common.ErrorInternal, "Server error", err)
	}
	if !ok {
		return nil, invalid
	}

	token, err := s.issueToken(user.ID, s.loginTokenValidityDuration)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

// ResolveIdentity validates a bearer token and returns the user ID it was
// issued to.
func (s *UserService) ResolveIdentity(token string) (string, error) {
	if token == "" {
		return "", common.NewError(common.ErrorUnauthorized, "Not authorized, no token")
	}
	if len(s.jwtSecret) == 0 {
		return "", common.NewError(common.ErrorMisconfiguration, "Server misconfiguration")
	}

	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return "", common.WrapError(common.ErrorUnauthorized, "Not authorized, token failed", err)
	}
	return userID, nil
}

// GetProfile returns the stored user for userID.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewError(common.ErrorNotFound, "User not found")
		}
		return nil, common.WrapError(common.ErrorInternal, "Server error", err)
	}
	return user, nil
}

// --- helpers below ---

func (s *UserService) issueToken(userID string, validity time.Duration) (string, error) {
	token, err := auth.GenerateToken(userID, s.jwtSecret, validity)
	if err != nil {
		if errors.Is(err, common.ErrorMisconfiguration) {
			return "", common.NewError(common.ErrorMisconfiguration, "Server misconfiguration")
		}
		return "", common.WrapError(common.ErrorInternal, "Internal Server Error", err)
	}
	return token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
