package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/audiovote/internal/server/repositories/audiobooks"
	"github.com/dmitrijs2005/audiovote/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/audiovote/internal/server/repositories/users"
	"github.com/dmitrijs2005/audiovote/internal/server/repositories/votes"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func TestNewRepositoryManager(t *testing.T) {
	for _, driver := range []string{"pgx", "sqlite"} {
		m, err := NewRepositoryManager(driver)
		require.NoError(t, err, driver)
		var _ RepositoryManager = m
	}

	_, err := NewRepositoryManager("mysql")
	require.Error(t, err)
}

func TestFactories_ReturnConcreteRepos(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	m := &SQLRepositoryManager{dialect: dialects["pgx"]}

	var _ users.Repository = m.Users(db)
	var _ audiobooks.Repository = m.Audiobooks(db)
	var _ votes.Repository = m.Votes(db)
	var _ sessions.Repository = m.Sessions(db)

	assert.NotNil(t, m.Users(db))
	assert.NotNil(t, m.Audiobooks(db))
	assert.NotNil(t, m.Votes(db))
	assert.NotNil(t, m.Sessions(db))
}

func TestRunMigrations_UsesDialectDir(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	for driver, wantDir := range map[string]string{"pgx": "postgres", "sqlite": "sqlite"} {
		var gotDir string
		gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
			gotDir = dir
			if len(opts) != 0 {
				return errors.New("unexpected opts")
			}
			return nil
		}

		m, err := NewRepositoryManager(driver)
		require.NoError(t, err)
		require.NoError(t, m.RunMigrations(context.Background(), db))
		assert.Equal(t, wantDir, gotDir)
	}
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	defer func() { gooseUpContext = orig }()

	m, _ := NewRepositoryManager("pgx")
	if err := m.RunMigrations(context.Background(), db); err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestRunMigrations_SQLiteForReal(t *testing.T) {
	db, err := Open(context.Background(), "sqlite", "file:repomanager_migrations?mode=memory&cache=shared")
	require.NoError(t, err)
	defer db.Close()

	m, err := NewRepositoryManager("sqlite")
	require.NoError(t, err)
	require.NoError(t, m.RunMigrations(context.Background(), db))

	for _, table := range []string{"users", "audiobooks", "votes", "sessions"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = $1`, table).Scan(&name)
		require.NoError(t, err, table)
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "dsn")
	require.Error(t, err)
}
