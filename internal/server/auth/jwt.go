// Package auth implements the credential primitives of the server: password
// hashing and signing/verification of access and refresh JWTs.
package auth

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/baibai/internal/common"
	"github.com/dmitrijs2005/baibai/internal/server/config"
	"github.com/dmitrijs2005/baibai/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenKind selects the secret and lifetime used for a token.
type TokenKind int

const (
	AccessToken TokenKind = iota
	RefreshToken
)

func (k TokenKind) String() string {
	switch k {
	case AccessToken:
		return "access"
	case RefreshToken:
		return "refresh"
	default:
		return fmt.Sprintf("TokenKind(%d)", int(k))
	}
}

// Claims is the JWT payload: standard claims (sub = user id, iat, exp, jti)
// plus the username.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

type signingKey struct {
	secret   []byte
	validity time.Duration
}

// TokenService issues and verifies bearer tokens. Each kind has its own
// secret, so a token of one kind never verifies as the other.
type TokenService struct {
	keys map[TokenKind]signingKey
	now  func() time.Time
}

type TokenServiceOption func(*TokenService)

// WithClock overrides the time source used for iat/exp and expiry checks.
func WithClock(now func() time.Time) TokenServiceOption {
	return func(s *TokenService) { s.now = now }
}

func NewTokenService(cfg *config.Config, opts ...TokenServiceOption) *TokenService {
	s := &TokenService{
		keys: map[TokenKind]signingKey{
			AccessToken:  {secret: []byte(cfg.AccessTokenSecret), validity: cfg.AccessTokenValidityDuration},
			RefreshToken: {secret: []byte(cfg.RefreshTokenSecret), validity: cfg.RefreshTokenValidityDuration},
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue signs a token of the given kind for p.
func (s *TokenService) Issue(p models.Principal, kind TokenKind) (string, error) {
	key, ok := s.keys[kind]
	if !ok {
		return "", fmt.Errorf("unknown token kind %v", kind)
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(key.validity)),
		},
		Username: p.UserName,
	})

	return token.SignedString(key.secret)
}

// Verify checks the signature of tokenString against the secret of kind and
// rejects it once the current time is past its expiry. Every failure is
// reported as common.ErrInvalidToken.
func (s *TokenService) Verify(tokenString string, kind TokenKind) (models.Principal, error) {
	key, ok := s.keys[kind]
	if !ok {
		return models.Principal{}, common.ErrInvalidToken
	}

	claims := &Claims{}

	// Expiry is checked below so that a token is still valid at exactly exp.
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return key.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithoutClaimsValidation())
	if err != nil || !token.Valid {
		return models.Principal{}, common.ErrInvalidToken
	}

	if claims.ExpiresAt == nil || s.now().After(claims.ExpiresAt.Time) {
		return models.Principal{}, common.ErrInvalidToken
	}
	if claims.Subject == "" {
		return models.Principal{}, common.ErrInvalidToken
	}

	return models.Principal{ID: claims.Subject, UserName: claims.Username}, nil
}
