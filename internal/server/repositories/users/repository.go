package users

import (
	"context"

	"github.com/dmitrijs2005/baibai/internal/server/models"
)

// Repository is the credential store.
type Repository interface {
	// Create inserts user and fills in the generated fields. A taken
	// username yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByLogin(ctx context.Context, userName string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
}
