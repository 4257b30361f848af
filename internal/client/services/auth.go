package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/postplanner/internal/client/api"
	"github.com/dmitrijs2005/postplanner/internal/common"
)

// AuthService performs registration and login against the server and
// returns the resulting session. It keeps no session state itself.
type AuthService interface {
	Register(ctx context.Context, name, email string, password []byte) (*api.Session, error)
	Login(ctx context.Context, email string, password []byte) (*api.Session, error)
	Me(ctx context.Context, s *api.Session) (*api.User, error)
	Ping(ctx context.Context) error
}

type authService struct {
	client Client
}

func NewAuthService(c Client) AuthService {
	return &authService{client: c}
}

// Register wipes password once the request has been sent.
func (a *authService) Register(ctx context.Context, name, email string, password []byte) (*api.Session, error) {
	defer common.WipeByteArray(password)

	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" || email == "" || len(password) == 0 {
		return nil, fmt.Errorf("%w: all fields are required", api.ErrValidation)
	}

	return a.client.Register(ctx, name, email, string(password))
}

// Login wipes password once the request has been sent.
func (a *authService) Login(ctx context.Context, email string, password []byte) (*api.Session, error) {
	defer common.WipeByteArray(password)

	email = strings.TrimSpace(email)
	if email == "" || len(password) == 0 {
		return nil, fmt.Errorf("%w: please fill all fields", api.ErrValidation)
	}

	return a.client.Login(ctx, email, string(password))
}

func (a *authService) Me(ctx context.Context, s *api.Session) (*api.User, error) {
	return a.client.Me(ctx, s)
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}
