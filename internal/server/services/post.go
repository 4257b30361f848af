package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/dmitrijs2005/postplanner/internal/common"
	"github.com/dmitrijs2005/postplanner/internal/dbx"
	"github.com/dmitrijs2005/postplanner/internal/server/models"
	"github.com/dmitrijs2005/postplanner/internal/server/repositories/posts"
	"github.com/dmitrijs2005/postplanner/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// PostDeletedMessage confirms a successful Delete.
const PostDeletedMessage = "Post deleted"

var errPostNotFound = common.NewError(common.ErrorNotFound, "Post not found")

// PostService implements owner-scoped CRUD over posts. Every method takes the
// caller's user ID; posts owned by someone else behave as if they did not exist.
type PostService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewPostService constructs a PostService.
func NewPostService(db *sql.DB, m repomanager.RepositoryManager) *PostService {
	return &PostService{db: db, repomanager: m}
}

// Create validates in and stores a new post owned by userID.
func (s *PostService) Create(ctx context.Context, userID string, in models.PostInput) (*models.Post, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, common.NewError(common.ErrorValidation, "Title required")
	}
	status, err := models.ParsePostStatus(in.Status)
	if err != nil {
		return nil, common.WrapError(common.ErrorValidation, "Invalid status", err)
	}

	post := &models.Post{
		UserID:      userID,
		Title:       in.Title,
		Content:     in.Content,
		Platform:    in.Platform,
		ScheduledAt: in.ScheduledAt,
		Status:      status,
		Metadata:    models.UserMetadata(in.Metadata),
	}

	created, err := s.repomanager.Posts(s.db).Create(ctx, post)
	if err != nil {
		return nil, internalError(err)
	}
	return created, nil
}

// List returns the caller's posts, soonest schedule first and unscheduled
// posts last. The result is never nil.
func (s *PostService) List(ctx context.Context, userID string) ([]*models.Post, error) {
	list, err := s.repomanager.Posts(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, internalError(err)
	}
	if list == nil {
		list = []*models.Post{}
	}
	return list, nil
}

// Get returns a single post owned by userID.
func (s *PostService) Get(ctx context.Context, userID, id string) (*models.Post, error) {
	return loadOwnedPost(ctx, s.repomanager.Posts(s.db), userID, id)
}

// Update applies patch to a post owned by userID. Only the fields listed in
// models.PostPatch can change; the owner never does.
func (s *PostService) Update(ctx context.Context, userID, id string, patch models.PostPatch) (*models.Post, error) {
	if patch.Title.Set && strings.TrimSpace(patch.Title.Value) == "" {
		return nil, common.NewError(common.ErrorValidation, "Title required")
	}
	if patch.Status.Set {
		status, err := models.ParsePostStatus(patch.Status.Value)
		if err != nil {
			return nil, common.WrapError(common.ErrorValidation, "Invalid status", err)
		}
		patch.Status.Value = string(status)
	}

	var updated *models.Post
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Posts(tx)

		post, err := loadOwnedPost(ctx, repo, userID, id)
		if err != nil {
			return err
		}

		patch.ApplyTo(post)
		updated, err = repo.Update(ctx, post)
		return err
	})
	if err != nil {
		return nil, serviceError(err)
	}
	return updated, nil
}

// Delete removes a post owned by userID.
func (s *PostService) Delete(ctx context.Context, userID, id string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Posts(tx)

		if _, err := loadOwnedPost(ctx, repo, userID, id); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
	if err != nil {
		return serviceError(err)
	}
	return nil
}

// loadOwnedPost fetches id and hides posts that are missing, malformed or
// owned by another user behind the same not-found error.
func loadOwnedPost(ctx context.Context, repo posts.Repository, userID, id string) (*models.Post, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errPostNotFound
	}

	post, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, errPostNotFound
		}
		return nil, internalError(err)
	}
	if post.UserID != userID {
		return nil, errPostNotFound
	}
	return post, nil
}

// serviceError passes through errors that already carry a caller-facing
// message and maps everything else.
func serviceError(err error) error {
	var e *common.Error
	if errors.As(err, &e) {
		return err
	}
	if errors.Is(err, common.ErrorNotFound) {
		return errPostNotFound
	}
	return internalError(err)
}

func internalError(err error) error {
	return common.WrapError(common.ErrorInternal, "Server error", err)
}
