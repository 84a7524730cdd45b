package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/baibai/internal/common"
	"github.com/dmitrijs2005/baibai/internal/server/auth"
	"github.com/dmitrijs2005/baibai/internal/server/models"
	"github.com/dmitrijs2005/baibai/internal/server/repositories/repomanager"
)

// UserService manages accounts: registration, profile lookups and the admin
// check used by privileged routes.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      auth.PasswordHasher
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher auth.PasswordHasher) *UserService {
	return &UserService{db: db, repomanager: m, hasher: hasher}
}

// Register stores a new user with a bcrypt hash of password. A taken
// username yields common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, auth.ErrEmptyPassword) {
			return nil, fmt.Errorf("%w: %w", common.ErrorValidation, err)
		}
		return nil, fmt.Errorf("%w: hash password: %w", common.ErrorInternal, err)
	}

	return s.repomanager.Users(s.db).Create(ctx, &models.User{UserName: username, PasswordHash: hash})
}

func (s *UserService) Profile(ctx context.Context, userID string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetUserByID(ctx, userID)
}

func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.repomanager.Users(s.db).List(ctx)
}

// IsAdmin reports the admin flag of userID. A missing user yields
// (false, common.ErrorNotFound).
func (s *UserService) IsAdmin(ctx context.Context, userID string) (bool, error) {
	user, err := s.repomanager.Users(s.db).GetUserByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.Admin, nil
}
