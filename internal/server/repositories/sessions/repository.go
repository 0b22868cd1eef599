// Package sessions provides a SQL-backed repository for server-side session
// records used by the session manager.
package sessions

import (
	"context"
	"time"

	"github.com/dmitrijs2005/audiovote/internal/server/models"
)

// Repository defines operations for issuing, retrieving, extending and
// revoking sessions.
type Repository interface {
	// Create stores a new session.
	Create(ctx context.Context, s *models.Session) error

	// Find looks up a session by its token and returns common.ErrorNotFound
	// when absent. Expiry is not checked here.
	Find(ctx context.Context, token string) (*models.Session, error)

	// Touch moves the session's expiry to expires.
	Touch(ctx context.Context, token string, expires time.Time) error

	// Delete removes a session. Deleting a non-existent token is not an error.
	Delete(ctx context.Context, token string) error

	// DeleteExpired removes every session that expired before now and
	// returns how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
