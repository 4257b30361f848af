package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/postplanner/internal/client/api"
	"github.com/dmitrijs2005/postplanner/internal/filex"
	"github.com/dmitrijs2005/postplanner/internal/netx"
)

// MediaService attaches local files to posts through presigned URLs.
type MediaService interface {
	Attach(ctx context.Context, s *api.Session, postID, path string) (string, error)
	DownloadURL(ctx context.Context, s *api.Session, postID, key string) (*api.PresignedURL, error)
}

type mediaService struct {
	client Client
	http   *http.Client
}

// NewMediaService uploads with httpClient; nil means http.DefaultClient.
func NewMediaService(c Client, httpClient *http.Client) MediaService {
	return &mediaService{client: c, http: httpClient}
}

// Attach uploads the file at path and returns its object key.
func (m *mediaService) Attach(ctx context.Context, s *api.Session, postID, path string) (string, error) {
	u, err := filex.OpenUpload(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", api.ErrValidation, err)
	}
	defer u.Close()

	url, err := m.client.PresignUpload(ctx, s, postID, u.ContentType)
	if err != nil {
		return "", err
	}

	if err := netx.UploadToPresignedURL(ctx, m.http, url.URL, u.ContentType, u.File, u.Size); err != nil {
		return "", fmt.Errorf("%w: %v", api.ErrUnavailable, err)
	}
	return url.Key, nil
}

func (m *mediaService) DownloadURL(ctx context.Context, s *api.Session, postID, key string) (*api.PresignedURL, error) {
	return m.client.PresignDownload(ctx, s, postID, key)
}
