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
	ErrorInternal = errors.New("internal error")

	// Validation errors.
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidVote  = errors.New("vote value must be -1, 0 or 1")

	// Credential store errors. ErrInvalidCredentials is returned for both an
	// unknown username and a wrong password.
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Session errors.
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrInvalidToken    = errors.New("invalid token")

	// Catalog / ledger errors.
	ErrItemNotFound = errors.New("audiobook not found")
)
