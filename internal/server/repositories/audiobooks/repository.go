// Package audiobooks provides the catalog repository. The votes and
// total_votes columns are only ever written by Recount.
package audiobooks

import (
	"context"

	"github.com/dmitrijs2005/audiovote/internal/server/models"
)

type Repository interface {
	// List returns every audiobook ordered by id.
	List(ctx context.Context) ([]models.Audiobook, error)
	// ListForUser is List plus the given user's vote value per item (0 if none).
	ListForUser(ctx context.Context, userID int64) ([]models.AudiobookView, error)
	Get(ctx context.Context, id int64) (*models.Audiobook, error)
	// Lock takes a write lock on the item row for the rest of the transaction.
	Lock(ctx context.Context, id int64) error
	// Recount recomputes votes and total_votes from the votes table.
	Recount(ctx context.Context, id int64) (votes int, total int, err error)
	Create(ctx context.Context, book *models.Audiobook) (*models.Audiobook, error)
	Count(ctx context.Context) (int, error)
}
