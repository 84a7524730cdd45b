package rest

import (
	"context"
	"io"

	"github.com/dmitrijs2005/baibai/internal/server/models"
	"github.com/dmitrijs2005/baibai/internal/server/services"
)

// Authenticator is the auth core as seen by the HTTP layer.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*services.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Authenticate(accessToken string) (models.Principal, error)
}

type UserManager interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Profile(ctx context.Context, userID string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

type ProductManager interface {
	List(ctx context.Context, filter models.ProductFilter) ([]*models.Product, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	Locations() []string
	Preview(ctx context.Context, name string) (io.ReadCloser, string, error)
	Create(ctx context.Context, p models.Principal, fields models.ProductFields, img *services.ImageUpload) (*models.Product, error)
	Update(ctx context.Context, p models.Principal, productID string, fields models.ProductFields) error
	UpdateWithImage(ctx context.Context, p models.Principal, productID string, fields models.ProductFields, img *services.ImageUpload) error
	Delete(ctx context.Context, p models.Principal, productID string) error
}
