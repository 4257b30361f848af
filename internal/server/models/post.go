// Package models defines server-side data models persisted in the database.
package models

import (
	"fmt"
	"time"
)

// PostStatus is the publication state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "Draft"
	PostStatusScheduled PostStatus = "Scheduled"
	PostStatusPublished PostStatus = "Published"
)

// Valid reports whether s is one of the known statuses.
func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusDraft, PostStatusScheduled, PostStatusPublished:
		return true
	}
	return false
}

// ParsePostStatus converts raw input into a PostStatus. An empty string
// yields the default (Draft).
func ParsePostStatus(raw string) (PostStatus, error) {
	if raw == "" {
		return PostStatusDraft, nil
	}
	s := PostStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown status %q", raw)
	}
	return s, nil
}

// MediaMetadataKey is the metadata entry listing uploaded media object keys.
const MediaMetadataKey = "media"

// Post is a planned social-media post owned by exactly one user.
type Post struct {
	ID          string
	UserID      string
	Title       string
	Content     string
	Platform    string
	ScheduledAt *time.Time
	Status      PostStatus
	Metadata    map[string]any
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MediaKeys returns the object keys recorded under metadata["media"].
func (p *Post) MediaKeys() []string {
	raw, ok := p.Metadata[MediaMetadataKey]
	if !ok {
		return nil
	}
	var keys []string
	switch v := raw.(type) {
	case []string:
		keys = append(keys, v...)
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				keys = append(keys, s)
			}
		}
	}
	return keys
}

// AddMediaKey appends key to metadata["media"].
func (p *Post) AddMediaKey(key string) {
	if p.Metadata == nil {
		p.Metadata = map[string]any{}
	}
	keys := p.MediaKeys()
	list := make([]any, 0, len(keys)+1)
	for _, k := range keys {
		list = append(list, k)
	}
	p.Metadata[MediaMetadataKey] = append(list, key)
}

// UserMetadata returns a copy of m without the server-owned media entry.
func UserMetadata(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		if k != MediaMetadataKey {
			out[k] = v
		}
	}
	return out
}

// PostInput carries the fields accepted on creation.
type PostInput struct {
	Title       string
	Content     string
	Platform    string
	ScheduledAt *time.Time
	Status      string
	Metadata    map[string]any
}

// Field is an optional patch value; Set reports whether the caller sent it.
type Field[T any] struct {
	Value T
	Set   bool
}

// Some returns a Field holding v.
func Some[T any](v T) Field[T] {
	return Field[T]{Value: v, Set: true}
}

// PostPatch lists every field a caller may change on an existing post.
// Ownership, identifiers and timestamps are deliberately absent.
type PostPatch struct {
	Title       Field[string]
	Content     Field[string]
	Platform    Field[string]
	ScheduledAt Field[*time.Time]
	Status      Field[string]
	Metadata    Field[map[string]any]
}

// ApplyTo copies the set fields onto post. Status must already be validated.
// A metadata patch replaces every entry except metadata["media"], which only
// the media service writes.
func (p PostPatch) ApplyTo(post *Post) {
	if p.Title.Set {
		post.Title = p.Title.Value
	}
	if p.Content.Set {
		post.Content = p.Content.Value
	}
	if p.Platform.Set {
		post.Platform = p.Platform.Value
	}
	if p.ScheduledAt.Set {
		post.ScheduledAt = p.ScheduledAt.Value
	}
	if p.Status.Set {
		post.Status = PostStatus(p.Status.Value)
	}
	if p.Metadata.Set {
		media, hasMedia := post.Metadata[MediaMetadataKey]
		post.Metadata = UserMetadata(p.Metadata.Value)
		if hasMedia {
			if post.Metadata == nil {
				post.Metadata = map[string]any{}
			}
			post.Metadata[MediaMetadataKey] = media
		}
	}
}
