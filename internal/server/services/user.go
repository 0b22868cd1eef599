// Package services contains server-side business logic. This file implements
// UserService, the credential store: registration, password verification and
// user lookup.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/audiovote/internal/common"
	"github.com/dmitrijs2005/audiovote/internal/server/auth"
	"github.com/dmitrijs2005/audiovote/internal/server/models"
	"github.com/dmitrijs2005/audiovote/internal/server/repositories/repomanager"
)

const (
	maxUsernameLen = 150
	// bcrypt ignores anything past 72 bytes; refuse instead of truncating.
	maxPasswordLen = 72
)

// UserService provides credential operations:
// - Register: create users with a bcrypt password hash
// - Authenticate: verify a username/password pair
// - GetByID: resolve a session's user
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager) *UserService {
	return &UserService{db: db, repomanager: m}
}

// Register creates a user. Usernames are compared exactly (case-sensitive);
// a taken one yields common.ErrDuplicateUsername.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.repomanager.Users(s.db).Create(ctx, &models.User{Username: username, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateUsername) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Authenticate returns the user whose password matches. Unknown users and
// wrong passwords both give common.ErrInvalidCredentials, and both pay for
// one bcrypt comparison.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			auth.BurnPasswordCheck(password)
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	ok, err := auth.CheckPassword(user.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("error checking password: %w", err)
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}
	return user, nil
}

// GetByID returns common.ErrUnauthenticated when the user no longer exists.
func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUnauthenticated
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user, nil
}

func validateCredentials(username, password string) error {
	switch {
	case strings.TrimSpace(username) == "":
		return fmt.Errorf("%w: username is required", common.ErrInvalidInput)
	case len(username) > maxUsernameLen:
		return fmt.Errorf("%w: username is too long", common.ErrInvalidInput)
	case password == "":
		return fmt.Errorf("%w: password is required", common.ErrInvalidInput)
	case len(password) > maxPasswordLen:
		return fmt.Errorf("%w: password is too long", common.ErrInvalidInput)
	}
	return nil
}
