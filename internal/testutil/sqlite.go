// Package testutil provides helpers shared by package tests that need a real
// database with the production schema.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/dmitrijs2005/audiovote/internal/server/repositories/repomanager"
)

var dbSeq atomic.Int64

// NewSQLiteDB opens a private in-memory SQLite database, applies the goose
// migrations and returns it with a matching RepositoryManager. The database
// is closed when the test ends.
func NewSQLiteDB(t testing.TB) (*sql.DB, repomanager.RepositoryManager) {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", name, dbSeq.Add(1))

	ctx := context.Background()
	db, err := repomanager.Open(ctx, "sqlite", dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	rm, err := repomanager.NewRepositoryManager("sqlite")
	if err != nil {
		t.Fatalf("repository manager: %v", err)
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	return db, rm
}
