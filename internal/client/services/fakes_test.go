package services

import (
	"context"

	"github.com/dmitrijs2005/postplanner/internal/client/api"
)

type fakeClient struct {
	posts   []api.Post
	listErr error

	lastPassword string
	lastEmail    string
	session      *api.Session
	authErr      error
	pings        int

	uploadURL       string
	lastContentType string
	presignErr      error
}

func (f *fakeClient) Register(ctx context.Context, name, email, password string) (*api.Session, error) {
	f.lastEmail, f.lastPassword = email, password
	return f.session, f.authErr
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (*api.Session, error) {
	f.lastEmail, f.lastPassword = email, password
	return f.session, f.authErr
}

func (f *fakeClient) Me(ctx context.Context, s *api.Session) (*api.User, error) {
	return &s.User, nil
}

func (f *fakeClient) Ping(ctx context.Context) error {
	f.pings++
	return nil
}

func (f *fakeClient) ListPosts(ctx context.Context, s *api.Session) ([]api.Post, error) {
	return f.posts, f.listErr
}

func (f *fakeClient) GetPost(ctx context.Context, s *api.Session, id string) (*api.Post, error) {
	for i := range f.posts {
		if f.posts[i].ID == id {
			return &f.posts[i], nil
		}
	}
	return nil, api.ErrNotFound
}

func (f *fakeClient) CreatePost(ctx context.Context, s *api.Session, in api.PostInput) (*api.Post, error) {
	p := api.Post{ID: "new", Title: in.Title, Platform: in.Platform, Status: in.Status}
	f.posts = append(f.posts, p)
	return &p, nil
}

func (f *fakeClient) UpdatePost(ctx context.Context, s *api.Session, id string, in api.PostInput) (*api.Post, error) {
	p, err := f.GetPost(ctx, s, id)
	if err != nil {
		return nil, err
	}
	p.Title, p.Status = in.Title, in.Status
	return p, nil
}

func (f *fakeClient) DeletePost(ctx context.Context, s *api.Session, id string) (string, error) {
	for i := range f.posts {
		if f.posts[i].ID == id {
			f.posts = append(f.posts[:i], f.posts[i+1:]...)
			return "Post deleted", nil
		}
	}
	return "", api.ErrNotFound
}

func (f *fakeClient) PresignUpload(ctx context.Context, s *api.Session, postID, contentType string) (*api.PresignedURL, error) {
	f.lastContentType = contentType
	if f.presignErr != nil {
		return nil, f.presignErr
	}
	return &api.PresignedURL{Key: "posts/" + postID + "/k1", URL: f.uploadURL}, nil
}

func (f *fakeClient) PresignDownload(ctx context.Context, s *api.Session, postID, key string) (*api.PresignedURL, error) {
	if f.presignErr != nil {
		return nil, f.presignErr
	}
	return &api.PresignedURL{Key: key, URL: "http://storage/" + key}, nil
}
