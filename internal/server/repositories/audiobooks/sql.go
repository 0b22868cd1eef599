package audiobooks

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

func (r *SQLRepository) List(ctx context.Context) ([]models.Audiobook, error) {
	query :=
		`SELECT id, title, author, cover_image, votes, total_votes
		 FROM audiobooks
		 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	books := make([]models.Audiobook, 0)
	for rows.Next() {
		var b models.Audiobook
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.CoverImage, &b.Votes, &b.TotalVotes); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return books, nil
}

func (r *SQLRepository) ListForUser(ctx context.Context, userID int64) ([]models.AudiobookView, error) {
	query :=
		`SELECT a.id, a.title, a.author, a.cover_image, a.votes, a.total_votes, COALESCE(v.value, 0)
		 FROM audiobooks a
		 LEFT JOIN votes v ON v.audiobook_id = a.id AND v.user_id = $1
		 ORDER BY a.id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	views := make([]models.AudiobookView, 0)
	for rows.Next() {
		var v models.AudiobookView
		if err := rows.Scan(&v.ID, &v.Title, &v.Author, &v.CoverImage, &v.Votes, &v.TotalVotes, &v.UserVote); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return views, nil
}

func (r *SQLRepository) Get(ctx context.Context, id int64) (*models.Audiobook, error) {
	query :=
		`SELECT id, title, author, cover_image, votes, total_votes
		 FROM audiobooks
		 WHERE id = $1`

	b := &models.Audiobook{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&b.ID, &b.Title, &b.Author, &b.CoverImage, &b.Votes, &b.TotalVotes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrItemNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return b, nil
}

// Lock uses a no-op UPDATE: it row-locks in Postgres and takes the database
// write lock in SQLite, and it tells us whether the row exists.
func (r *SQLRepository) Lock(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE audiobooks SET votes = votes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrItemNotFound
	}
	return nil
}

func (r *SQLRepository) Recount(ctx context.Context, id int64) (int, int, error) {
	query :=
		`UPDATE audiobooks
		 SET votes = (SELECT COALESCE(SUM(value), 0) FROM votes WHERE audiobook_id = $1),
		     total_votes = (SELECT COUNT(*) FROM votes WHERE audiobook_id = $1)
		 WHERE id = $1
		 RETURNING votes, total_votes`

	var votes, total int
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&votes, &total); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, 0, common.ErrItemNotFound
		}
		return 0, 0, fmt.Errorf("db error: %w", err)
	}
	return votes, total, nil
}

func (r *SQLRepository) Create(ctx context.Context, book *models.Audiobook) (*models.Audiobook, error) {
	query :=
		`INSERT INTO audiobooks (title, author, cover_image)
		 VALUES ($1, $2, $3)
		 RETURNING id`

	if err := r.db.QueryRowContext(ctx, query, book.Title, book.Author, book.CoverImage).Scan(&book.ID); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	book.Votes, book.TotalVotes = 0, 0
	return book, nil
}

func (r *SQLRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audiobooks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
