// Package posts provides PostgreSQL-backed persistence for posts.
package posts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/postplanner/internal/common"
	"github.com/dmitrijs2005/postplanner/internal/dbx"
	"github.com/dmitrijs2005/postplanner/internal/server/models"
)

const selectColumns = `id, user_id, title, content, platform, scheduled_at, status, metadata, created_at, updated_at`

// PostgresRepository implements post storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts post and fills in the store-assigned ID and timestamps.
func (r *PostgresRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	meta, err := encodeMetadata(post.Metadata)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO posts (user_id, title, content, platform, scheduled_at, status, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err = r.db.QueryRowContext(ctx, query,
		post.UserID, post.Title, post.Content, post.Platform, nullTime(post.ScheduledAt), string(post.Status), meta,
	).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return post, nil
}

// ListByUser returns the posts of userID, earliest schedule first, unscheduled
// posts last, newest first among equal schedules.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Post, error) {
	query := `SELECT ` + selectColumns + ` FROM posts
		WHERE user_id = $1
		ORDER BY scheduled_at ASC NULLS LAST, created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return result, nil
}

// GetByID returns the post with the given id or common.ErrorNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := `SELECT ` + selectColumns + ` FROM posts WHERE id = $1`

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, err
	}
	return post, nil
}

// Update writes the mutable columns of post. user_id is never part of the
// statement, so ownership cannot change here.
func (r *PostgresRepository) Update(ctx context.Context, post *models.Post) (*models.Post, error) {
	meta, err := encodeMetadata(post.Metadata)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE posts SET
			title = $2,
			content = $3,
			platform = $4,
			scheduled_at = $5,
			status = $6,
			metadata = $7,
			updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`
	err = r.db.QueryRowContext(ctx, query,
		post.ID, post.Title, post.Content, post.Platform, nullTime(post.ScheduledAt), string(post.Status), meta,
	).Scan(&post.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return post, nil
}

// Delete removes the post with the given id.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(s scanner) (*models.Post, error) {
	var (
		post        models.Post
		status      string
		scheduledAt sql.NullTime
		meta        []byte
	)
	err := s.Scan(&post.ID, &post.UserID, &post.Title, &post.Content, &post.Platform,
		&scheduledAt, &status, &meta, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	post.Status = models.PostStatus(status)
	if scheduledAt.Valid {
		t := scheduledAt.Time
		post.ScheduledAt = &t
	}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &post.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata: %w", err)
		}
	}
	return &post, nil
}

func encodeMetadata(meta map[string]any) (any, error) {
	if meta == nil {
		return nil, nil
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	return b, nil
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
