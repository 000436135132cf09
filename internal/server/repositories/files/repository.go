package files

import (
	"context"

	"github.com/vtumanov/filevault/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, file *models.File) (*models.File, error)
	// GetByID fetches an entry without an ownership filter; visibility rules
	// are applied by the service layer.
	GetByID(ctx context.Context, id string) (*models.File, error)
	GetByIDAndOwner(ctx context.Context, id, userID string) (*models.File, error)
	// List returns the owner's entries in creation order. A non-empty
	// parentID narrows the result to direct children of that parent.
	List(ctx context.Context, userID, parentID string, offset, limit int) ([]*models.File, error)
	UpdateVisibility(ctx context.Context, id, userID string, isPublic bool) (*models.File, error)
	Count(ctx context.Context) (int64, error)
}
