// Package votes provides the vote ledger repository. At most one row exists
// per (user_id, audiobook_id); a stored value is always -1 or 1.
package votes

import (
	"context"

	"github.com/dmitrijs2005/audiovote/internal/server/models"
)

type Repository interface {
	// Find returns common.ErrorNotFound when the user has not voted on the item.
	Find(ctx context.Context, userID, audiobookID int64) (*models.Vote, error)
	Insert(ctx context.Context, vote *models.Vote) error
	UpdateValue(ctx context.Context, id int64, value int) error
	Delete(ctx context.Context, id int64) error
	// Stats returns the ledger's own SUM and COUNT for an item.
	Stats(ctx context.Context, audiobookID int64) (sum int, count int, err error)
}
