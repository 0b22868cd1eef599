package votes

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/audiovote/internal/common"
	"github.com/dmitrijs2005/audiovote/internal/dbx"
	"github.com/dmitrijs2005/audiovote/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*SQLRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLRepository(db), mock
}

func TestFind(t *testing.T) {
	q := `(?s)^SELECT\s+id,\s*user_id,\s*audiobook_id,\s*value,\s*created_at\s+FROM\s+votes\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+audiobook_id\s*=\s*\$2$`

	t.Run("found", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).WithArgs(int64(1), int64(2)).WillReturnRows(
			sqlmock.NewRows([]string{"id", "user_id", "audiobook_id", "value", "created_at"}).
				AddRow(int64(10), int64(1), int64(2), -1, time.Now()))

		v, err := repo.Find(context.Background(), 1, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(10), v.ID)
		assert.Equal(t, -1, v.Value)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).WithArgs(int64(1), int64(2)).WillReturnError(sql.ErrNoRows)

		_, err := repo.Find(context.Background(), 1, 2)
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})
}

func TestInsert(t *testing.T) {
	q := `(?s)^INSERT\s+INTO\s+votes\s*\(user_id,\s*audiobook_id,\s*value\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING\s+id$`

	t.Run("ok", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).WithArgs(int64(1), int64(2), 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(77)))

		v := &models.Vote{UserID: 1, AudiobookID: 2, Value: 1}
		require.NoError(t, repo.Insert(context.Background(), v))
		assert.Equal(t, int64(77), v.ID)
	})

	t.Run("unique violation stays retryable", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).WithArgs(int64(1), int64(2), 1).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		err := repo.Insert(context.Background(), &models.Vote{UserID: 1, AudiobookID: 2, Value: 1})
		require.Error(t, err)
		assert.True(t, dbx.IsUniqueViolation(err))
		assert.True(t, dbx.IsRetryable(err))
	})
}

func TestUpdateValueAndDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`^UPDATE votes SET value = \$1 WHERE id = \$2$`).
		WithArgs(-1, int64(5)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`^DELETE FROM votes WHERE id = \$1$`).
		WithArgs(int64(5)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`^DELETE FROM votes WHERE id = \$1$`).
		WithArgs(int64(6)).WillReturnError(errors.New("db down"))

	require.NoError(t, repo.UpdateValue(context.Background(), 5, -1))
	require.NoError(t, repo.Delete(context.Background(), 5))
	err := repo.Delete(context.Background(), 6)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error: db down")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStats(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)^SELECT\s+COALESCE\(SUM\(value\),\s*0\),\s*COUNT\(\*\)\s+FROM\s+votes\s+WHERE\s+audiobook_id\s*=\s*\$1$`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"sum", "count"}).AddRow(1, 3))

	sum, count, err := repo.Stats(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 1, sum)
	assert.Equal(t, 3, count)
}
