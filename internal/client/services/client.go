// Package services holds the dashboard client's application logic on top of
// the REST client: authentication flows and post statistics and filtering, and media uploads.
package services

import (
	"context"

	"github.com/dmitrijs2005/postplanner/internal/client/api"
)

// Client is the subset of *api.Client the services depend on.
type Client interface {
	Register(ctx context.Context, name, email, password string) (*api.Session, error)
	Login(ctx context.Context, email, password string) (*api.Session, error)
	Me(ctx context.Context, s *api.Session) (*api.User, error)
	Ping(ctx context.Context) error

	ListPosts(ctx context.Context, s *api.Session) ([]api.Post, error)
	GetPost(ctx context.Context, s *api.Session, id string) (*api.Post, error)
	CreatePost(ctx context.Context, s *api.Session, in api.PostInput) (*api.Post, error)
	UpdatePost(ctx context.Context, s *api.Session, id string, in api.PostInput) (*api.Post, error)
	DeletePost(ctx context.Context, s *api.Session, id string) (string, error)

	PresignUpload(ctx context.Context, s *api.Session, postID, contentType string) (*api.PresignedURL, error)
	PresignDownload(ctx context.Context, s *api.Session, postID, key string) (*api.PresignedURL, error)
}

var _ Client = (*api.Client)(nil)
