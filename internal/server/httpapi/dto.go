package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/postplanner/internal/common"
	"github.com/dmitrijs2005/postplanner/internal/server/models"
	"github.com/dmitrijs2005/postplanner/internal/server/services"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	Message string `json:"message"`
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Token   string `json:"token"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type loginResponse struct {
	Message string    `json:"message"`
	Token   string    `json:"token"`
	User    loginUser `json:"user"`
}

type userResponse struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt}
}

type postResponse struct {
	ID          string         `json:"_id"`
	User        string         `json:"user"`
	Title       string         `json:"title"`
	Content     string         `json:"content"`
	Platform    string         `json:"platform"`
	ScheduledAt *time.Time     `json:"scheduledAt"`
	Status      string         `json:"status"`
	Meta        map[string]any `json:"meta,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

func newPostResponse(p *models.Post) postResponse {
	return postResponse{
		ID:          p.ID,
		User:        p.UserID,
		Title:       p.Title,
		Content:     p.Content,
		Platform:    p.Platform,
		ScheduledAt: p.ScheduledAt,
		Status:      string(p.Status),
		Meta:        p.Metadata,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func newPostListResponse(list []*models.Post) []postResponse {
	out := make([]postResponse, 0, len(list))
	for _, p := range list {
		out = append(out, newPostResponse(p))
	}
	return out
}

type mediaUploadRequest struct {
	ContentType string `json:"contentType"`
}

type presignedResponse struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func newPresignedResponse(p *services.PresignedURL) presignedResponse {
	return presignedResponse{Key: p.Key, URL: p.URL, ExpiresAt: p.ExpiresAt}
}

// timeLayouts are accepted for scheduledAt, most specific first. The last two
// match what HTML datetime-local inputs send.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", s)
}

// postFields is the raw body of create and update requests. Decoding into a
// map keeps absent keys distinguishable from explicit nulls, and anything
// outside the allow-list below is dropped.
type postFields map[string]json.RawMessage

var allowedPostFields = map[string]struct{}{
	"title": {}, "content": {}, "platform": {}, "scheduledAt": {}, "status": {}, "meta": {}, "metadata": {},
}

func (f postFields) lookup(key string) (json.RawMessage, bool) {
	if _, ok := allowedPostFields[key]; !ok {
		return nil, false
	}
	raw, ok := f[key]
	return raw, ok
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func (f postFields) stringField(key string) (models.Field[string], error) {
	raw, ok := f.lookup(key)
	if !ok {
		return models.Field[string]{}, nil
	}
	if isNull(raw) {
		return models.Some(""), nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return models.Field[string]{}, invalidField(key, err)
	}
	return models.Some(s), nil
}

func (f postFields) timeField(key string) (models.Field[*time.Time], error) {
	raw, ok := f.lookup(key)
	if !ok {
		return models.Field[*time.Time]{}, nil
	}
	if isNull(raw) {
		return models.Some[*time.Time](nil), nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return models.Field[*time.Time]{}, invalidField(key, err)
	}
	if strings.TrimSpace(s) == "" {
		return models.Some[*time.Time](nil), nil
	}
	t, err := parseTime(s)
	if err != nil {
		return models.Field[*time.Time]{}, invalidField(key, err)
	}
	return models.Some(&t), nil
}

func (f postFields) metaField() (models.Field[map[string]any], error) {
	key := "meta"
	raw, ok := f.lookup(key)
	if !ok {
		key = "metadata"
		raw, ok = f.lookup(key)
	}
	if !ok {
		return models.Field[map[string]any]{}, nil
	}
	if isNull(raw) {
		return models.Some[map[string]any](nil), nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return models.Field[map[string]any]{}, invalidField(key, err)
	}
	return models.Some(m), nil
}

// toPatch converts the allow-listed fields into a models.PostPatch.
func (f postFields) toPatch() (models.PostPatch, error) {
	var (
		p   models.PostPatch
		err error
	)
	if p.Title, err = f.stringField("title"); err != nil {
		return p, err
	}
	if p.Content, err = f.stringField("content"); err != nil {
		return p, err
	}
	if p.Platform, err = f.stringField("platform"); err != nil {
		return p, err
	}
	if p.ScheduledAt, err = f.timeField("scheduledAt"); err != nil {
		return p, err
	}
	if p.Status, err = f.stringField("status"); err != nil {
		return p, err
	}
	if p.Metadata, err = f.metaField(); err != nil {
		return p, err
	}
	return p, nil
}

// toInput converts the fields of a create request.
func (f postFields) toInput() (models.PostInput, error) {
	p, err := f.toPatch()
	if err != nil {
		return models.PostInput{}, err
	}
	return models.PostInput{
		Title:       p.Title.Value,
		Content:     p.Content.Value,
		Platform:    p.Platform.Value,
		ScheduledAt: p.ScheduledAt.Value,
		Status:      p.Status.Value,
		Metadata:    p.Metadata.Value,
	}, nil
}

func invalidField(key string, err error) error {
	return common.WrapError(common.ErrorValidation, "Invalid value for "+key, err)
}
