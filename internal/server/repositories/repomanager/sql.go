package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/audiovote/internal/dbx"
	"github.com/dmitrijs2005/audiovote/internal/server/migrations"
	"github.com/dmitrijs2005/audiovote/internal/server/repositories/audiobooks"
	"github.com/dmitrijs2005/audiovote/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/audiovote/internal/server/repositories/users"
	"github.com/dmitrijs2005/audiovote/internal/server/repositories/votes"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// dialect ties a database/sql driver name to its goose dialect and the
// migration directory inside migrations.FS.
type dialect struct {
	driver string
	goose  string
	dir    string
}

var dialects = map[string]dialect{
	"pgx":    {driver: "pgx", goose: "pgx", dir: "postgres"},
	"sqlite": {driver: "sqlite", goose: "sqlite3", dir: "sqlite"},
}

// SQLRepositoryManager vends the SQL repository implementations, which share
// their queries across dialects. Only migrations differ per dialect.
type SQLRepositoryManager struct {
	dialect dialect
}

func (m *SQLRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) Audiobooks(db dbx.DBTX) audiobooks.Repository {
	return audiobooks.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) Votes(db dbx.DBTX) votes.Repository {
	return votes.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) Sessions(db dbx.DBTX) sessions.Repository {
	return sessions.NewSQLRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations for this dialect
// and applies them.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect(m.dialect.goose); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, m.dialect.dir); err != nil {
		return err
	}
	return nil
}

// NewRepositoryManager returns the manager for driver ("pgx" or "sqlite").
func NewRepositoryManager(driver string) (RepositoryManager, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	return &SQLRepositoryManager{dialect: d}, nil
}

// Open opens and pings a database for driver. SQLite is limited to a single
// connection so that writers queue in the pool instead of failing with
// SQLITE_BUSY.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
