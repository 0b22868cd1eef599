package sessions

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/audiovote/internal/common"
	"github.com/dmitrijs2005/audiovote/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*SQLRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewSQLRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+sessions\b.*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*$`
	expires := time.Now().Add(time.Hour)

	mock.ExpectExec(q).
		WithArgs("tok123", int64(1), expires.UTC()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &models.Session{Token: "tok123", UserID: 1, Expires: expires})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT\s+INTO\s+sessions`).
		WithArgs("tok123", int64(1), sqlmock.AnyArg()).
		WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), &models.Session{Token: "tok123", UserID: 1, Expires: time.Now()})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestFind_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+token,\s*user_id,\s*expires_at,\s*created_at\s+FROM\s+sessions\s+WHERE\s+token\s*=\s*\$1\s*$`

	expires := time.Now().Add(10 * time.Minute)
	rows := sqlmock.NewRows([]string{"token", "user_id", "expires_at", "created_at"}).
		AddRow("tok123", int64(4), expires, time.Now())

	mock.ExpectQuery(q).WithArgs("tok123").WillReturnRows(rows)

	got, err := repo.Find(context.Background(), "tok123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.UserID != 4 || !got.Expires.Equal(expires) {
		t.Fatalf("unexpected row: %+v", got)
	}
}

func TestFind_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+sessions`).WithArgs("missing").WillReturnError(sql.ErrNoRows)

	_, err := repo.Find(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestTouch(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+sessions\s+SET\s+expires_at\s*=\s*\$1\s+WHERE\s+token\s*=\s*\$2\s*$`
	expires := time.Now().Add(time.Hour)

	mock.ExpectExec(q).WithArgs(expires.UTC(), "tok").WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Touch(context.Background(), "tok", expires); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDelete_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+sessions\s+WHERE\s+token\s*=\s*\$1\s*$`

	mock.ExpectExec(q).WithArgs("tok123").WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "tok123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeleteExpired(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+sessions\s+WHERE\s+expires_at\s*<\s*\$1\s*$`
	now := time.Now()

	mock.ExpectExec(q).WithArgs(now.UTC()).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(q).WithArgs(now.UTC()).WillReturnError(errors.New("db err"))

	n, err := repo.DeleteExpired(context.Background(), now)
	if err != nil || n != 3 {
		t.Fatalf("DeleteExpired = %d, %v", n, err)
	}

	_, err = repo.DeleteExpired(context.Background(), now)
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
