package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePostStatus(t *testing.T) {
	s, err := ParsePostStatus("")
	require.NoError(t, err)
	assert.Equal(t, PostStatusDraft, s)

	s, err = ParsePostStatus("Scheduled")
	require.NoError(t, err)
	assert.Equal(t, PostStatusScheduled, s)

	_, err = ParsePostStatus("scheduled")
	assert.Error(t, err, "status is case sensitive")

	_, err = ParsePostStatus("Archived")
	assert.Error(t, err)
}

func TestPostPatch_ApplyTo_OnlySetFields(t *testing.T) {
	when := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	post := &Post{
		ID:          "p1",
		UserID:      "owner",
		Title:       "Launch",
		Content:     "old",
		Platform:    "Instagram",
		ScheduledAt: &when,
		Status:      PostStatusDraft,
		Metadata:    map[string]any{"k": "v"},
	}

	PostPatch{
		Title:  Some("Launch v2"),
		Status: Some(string(PostStatusScheduled)),
	}.ApplyTo(post)

	assert.Equal(t, "Launch v2", post.Title)
	assert.Equal(t, PostStatusScheduled, post.Status)
	assert.Equal(t, "old", post.Content)
	assert.Equal(t, "Instagram", post.Platform)
	assert.Equal(t, &when, post.ScheduledAt)
	assert.Equal(t, "owner", post.UserID)
	assert.Equal(t, map[string]any{"k": "v"}, post.Metadata)
}

func TestPostPatch_ApplyTo_ClearsSchedule(t *testing.T) {
	when := time.Now()
	post := &Post{ScheduledAt: &when}

	PostPatch{ScheduledAt: Some[*time.Time](nil)}.ApplyTo(post)

	assert.Nil(t, post.ScheduledAt)
}

func TestPostPatch_ApplyTo_KeepsServerMedia(t *testing.T) {
	post := &Post{Metadata: map[string]any{"k": "v", MediaMetadataKey: []any{"posts/p1/a"}}}

	PostPatch{Metadata: Some(map[string]any{"n": 1, MediaMetadataKey: []any{"posts/other/b"}})}.ApplyTo(post)
	assert.Equal(t, map[string]any{"n": 1, MediaMetadataKey: []any{"posts/p1/a"}}, post.Metadata)

	PostPatch{Metadata: Some(map[string]any{})}.ApplyTo(post)
	assert.Equal(t, map[string]any{MediaMetadataKey: []any{"posts/p1/a"}}, post.Metadata)

	bare := &Post{Metadata: map[string]any{"k": "v"}}
	PostPatch{Metadata: Some(map[string]any{})}.ApplyTo(bare)
	assert.Equal(t, map[string]any{}, bare.Metadata)
}

func TestUserMetadata(t *testing.T) {
	assert.Nil(t, UserMetadata(nil))

	in := map[string]any{"k": "v", MediaMetadataKey: []any{"x"}}
	assert.Equal(t, map[string]any{"k": "v"}, UserMetadata(in))
	assert.Contains(t, in, MediaMetadataKey)
}

func TestPost_MediaKeys(t *testing.T) {
	p := &Post{}
	assert.Empty(t, p.MediaKeys())

	p.AddMediaKey("posts/p1/a")
	p.AddMediaKey("posts/p1/b")
	assert.Equal(t, []string{"posts/p1/a", "posts/p1/b"}, p.MediaKeys())

	// shape produced by encoding/json when metadata comes back from the store
	p.Metadata = map[string]any{MediaMetadataKey: []any{"x", 42, "y"}}
	assert.Equal(t, []string{"x", "y"}, p.MediaKeys())
}
