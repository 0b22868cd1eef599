package votes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/audiovote/internal/common"
	"github.com/dmitrijs2005/audiovote/internal/dbx"
	"github.com/dmitrijs2005/audiovote/internal/server/models"
)

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Find(ctx context.Context, userID, audiobookID int64) (*models.Vote, error) {
	query :=
		`SELECT id, user_id, audiobook_id, value, created_at
		 FROM votes
		 WHERE user_id = $1 AND audiobook_id = $2`

	v := &models.Vote{}
	err := r.db.QueryRowContext(ctx, query, userID, audiobookID).
		Scan(&v.ID, &v.UserID, &v.AudiobookID, &v.Value, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return v, nil
}

// Insert stores a new vote. A concurrent insert for the same pair surfaces
// as a unique violation, which dbx.IsRetryable recognises through the wrap.
func (r *SQLRepository) Insert(ctx context.Context, vote *models.Vote) error {
	query :=
		`INSERT INTO votes (user_id, audiobook_id, value)
		 VALUES ($1, $2, $3)
		 RETURNING id`

	if err := r.db.QueryRowContext(ctx, query, vote.UserID, vote.AudiobookID, vote.Value).Scan(&vote.ID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) UpdateValue(ctx context.Context, id int64, value int) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE votes SET value = $1 WHERE id = $2`, value, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM votes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) Stats(ctx context.Context, audiobookID int64) (int, int, error) {
	query :=
		`SELECT COALESCE(SUM(value), 0), COUNT(*)
		 FROM votes
		 WHERE audiobook_id = $1`

	var sum, count int
	if err := r.db.QueryRowContext(ctx, query, audiobookID).Scan(&sum, &count); err != nil {
		return 0, 0, fmt.Errorf("db error: %w", err)
	}
	return sum, count, nil
}
