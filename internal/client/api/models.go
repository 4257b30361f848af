package api

import "time"

const (
	StatusDraft     = "Draft"
	StatusScheduled = "Scheduled"
	StatusPublished = "Published"
)

// Statuses lists the post statuses in display order.
var Statuses = []string{StatusDraft, StatusScheduled, StatusPublished}

type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session holds the bearer token of an authenticated user.
type Session struct {
	Token string
	User  User
}

func (s *Session) valid() bool {
	return s != nil && s.Token != ""
}

type Post struct {
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

// PostInput is the body of create and update requests. A nil ScheduledAt
// is sent as null and clears the schedule on update. A nil Meta is left out
// and keeps the stored metadata; an empty map is sent and clears it.
type PostInput struct {
	Title       string         `json:"title"`
	Content     string         `json:"content"`
	Platform    string         `json:"platform"`
	ScheduledAt *time.Time     `json:"scheduledAt"`
	Status      string         `json:"status,omitempty"`
	Meta        map[string]any `json:"meta,omitzero"`
}

type PresignedURL struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}
