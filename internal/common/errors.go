// Package common defines shared constants and sentinel errors used across
// the repository, service and HTTP layers. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")
	ErrorValidation   = errors.New("validation error")

	// ErrWrongCredentials is returned by login for both an unknown username
	// and a wrong password. The message must stay identical for both.
	ErrWrongCredentials = errors.New("wrong username or password")

	// Auth errors (invalid, expired or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
