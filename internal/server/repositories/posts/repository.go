package posts

import (
	"context"

	"github.com/dmitrijs2005/postplanner/internal/server/models"
)

// Repository is the resource store for posts. It does not enforce
// ownership; callers scope access by UserID.
type Repository interface {
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) (*models.Post, error)
	Delete(ctx context.Context, id string) error
}
