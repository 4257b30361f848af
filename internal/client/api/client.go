package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxResponseSize = 4 << 20

// Client talks to a PostPlanner server. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type messageResponse struct {
	Message string `json:"message"`
}

type registerResponse struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user"`
}

func (c *Client) Register(ctx context.Context, name, email, password string) (*Session, error) {
	body := map[string]string{"name": name, "email": email, "password": password}

	var res registerResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", nil, body, &res); err != nil {
		return nil, err
	}
	return &Session{Token: res.Token, User: User{ID: res.ID, Name: res.Name, Email: res.Email}}, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}

	var res loginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, body, &res); err != nil {
		return nil, err
	}
	return &Session{
		Token: res.Token,
		User:  User{ID: res.User.ID, Name: res.User.Name, Email: res.User.Email},
	}, nil
}

func (c *Client) Me(ctx context.Context, s *Session) (*User, error) {
	var u User
	if err := c.authorized(ctx, http.MethodGet, "/api/auth/me", s, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) ListPosts(ctx context.Context, s *Session) ([]Post, error) {
	posts := []Post{}
	if err := c.authorized(ctx, http.MethodGet, "/api/posts", s, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *Client) GetPost(ctx context.Context, s *Session, id string) (*Post, error) {
	var p Post
	if err := c.authorized(ctx, http.MethodGet, postPath(id), s, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) CreatePost(ctx context.Context, s *Session, in PostInput) (*Post, error) {
	var p Post
	if err := c.authorized(ctx, http.MethodPost, "/api/posts", s, in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdatePost(ctx context.Context, s *Session, id string, in PostInput) (*Post, error) {
	var p Post
	if err := c.authorized(ctx, http.MethodPut, postPath(id), s, in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeletePost returns the server's confirmation message.
func (c *Client) DeletePost(ctx context.Context, s *Session, id string) (string, error) {
	var res messageResponse
	if err := c.authorized(ctx, http.MethodDelete, postPath(id), s, nil, &res); err != nil {
		return "", err
	}
	return res.Message, nil
}

func (c *Client) PresignUpload(ctx context.Context, s *Session, postID, contentType string) (*PresignedURL, error) {
	body := map[string]string{"contentType": contentType}

	var res PresignedURL
	if err := c.authorized(ctx, http.MethodPost, postPath(postID)+"/media", s, body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) PresignDownload(ctx context.Context, s *Session, postID, key string) (*PresignedURL, error) {
	path := postPath(postID) + "/media?key=" + url.QueryEscape(key)

	var res PresignedURL
	if err := c.authorized(ctx, http.MethodGet, path, s, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Ping checks the server health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil, nil)
}

func postPath(id string) string {
	return "/api/posts/" + url.PathEscape(id)
}

func (c *Client) authorized(ctx context.Context, method, path string, s *Session, in, out any) error {
	if !s.valid() {
		return fmt.Errorf("%w: not logged in", ErrUnauthorized)
	}
	return c.do(ctx, method, path, s, in, out)
}

func (c *Client) do(ctx context.Context, method, path string, s *Session, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.valid() {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var msg messageResponse
		_ = json.Unmarshal(data, &msg)
		return statusError(resp.StatusCode, msg.Message)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
