// Package repomanager vends repositories bound to a *sql.DB or *sql.Tx and
// runs the schema migrations for the configured SQL dialect.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/audiovote/internal/dbx"
	"github.com/dmitrijs2005/audiovote/internal/server/repositories/audiobooks"
	"github.com/dmitrijs2005/audiovote/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/audiovote/internal/server/repositories/users"
	"github.com/dmitrijs2005/audiovote/internal/server/repositories/votes"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Audiobooks(db dbx.DBTX) audiobooks.Repository
	Votes(db dbx.DBTX) votes.Repository
	Sessions(db dbx.DBTX) sessions.Repository
}
