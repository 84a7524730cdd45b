// Package services contains server-side business logic: the login/refresh
// flows, user accounts and product listings.
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

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// dummyPassword is hashed once at construction. Logins for unknown users
// compare against that hash so both failure paths cost one bcrypt run.
const dummyPassword = "baibai-dummy-password"

// AuthService is the only place that decides whether a caller is
// authenticated.
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      auth.PasswordHasher
	tokens      *auth.TokenService
	dummyHash   string
}

func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, hasher auth.PasswordHasher, tokens *auth.TokenService) *AuthService {
	dummy, err := hasher.Hash(dummyPassword)
	if err != nil {
		dummy = ""
	}
	return &AuthService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
		dummyHash:   dummy,
	}
}

// Login checks the credentials and issues a new token pair. Unknown users and
// wrong passwords both yield common.ErrWrongCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	user, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Compare(password, s.dummyHash)
			return nil, common.ErrWrongCredentials
		}
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	if !s.hasher.Compare(password, user.PasswordHash) {
		return nil, common.ErrWrongCredentials
	}

	return s.issuePair(user.Principal())
}

// Refresh issues a new pair for the principal of a valid refresh token. The
// store is not consulted and the presented token stays valid until it expires.
func (s *AuthService) Refresh(_ context.Context, refreshToken string) (*TokenPair, error) {
	p, err := s.tokens.Verify(refreshToken, auth.RefreshToken)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}
	return s.issuePair(p)
}

// Authenticate resolves an access token to its principal.
func (s *AuthService) Authenticate(accessToken string) (models.Principal, error) {
	p, err := s.tokens.Verify(accessToken, auth.AccessToken)
	if err != nil {
		return models.Principal{}, common.ErrorUnauthorized
	}
	return p, nil
}

func (s *AuthService) issuePair(p models.Principal) (*TokenPair, error) {
	access, err := s.tokens.Issue(p, auth.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: issue access token: %w", common.ErrorInternal, err)
	}
	refresh, err := s.tokens.Issue(p, auth.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: issue refresh token: %w", common.ErrorInternal, err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
