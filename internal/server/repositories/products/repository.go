package products

import (
	"context"

	"github.com/dmitrijs2005/baibai/internal/server/models"
)

type Repository interface {
	List(ctx context.Context, filter models.ProductFilter) ([]*models.Product, error)
	// GetByID returns the product with its owner. Unknown or malformed ids
	// yield common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, userID string, fields models.ProductFields, previewImage string) (*models.Product, error)
	// Update changes the product only if it belongs to userID. previewImage
	// is left untouched when nil.
	Update(ctx context.Context, id, userID string, fields models.ProductFields, previewImage *string) error
	Delete(ctx context.Context, id, userID string) error
}
