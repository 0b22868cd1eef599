package sessions

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/audiovote/internal/server/models"
	"github.com/dmitrijs2005/audiovote/internal/server/repositories/repomanager"
)

// Store persists session records. Load returns common.ErrorNotFound for
// unknown ids; Remove of an unknown id is not an error.
type Store interface {
	Save(ctx context.Context, s *models.Session) error
	Load(ctx context.Context, id string) (*models.Session, error)
	Extend(ctx context.Context, id string, expires time.Time) error
	Remove(ctx context.Context, id string) error
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// SQLStore keeps sessions in the sessions table of the main database.
type SQLStore struct {
	db *sql.DB
	rm repomanager.RepositoryManager
}

func NewSQLStore(db *sql.DB, rm repomanager.RepositoryManager) *SQLStore {
	return &SQLStore{db: db, rm: rm}
}

func (s *SQLStore) Save(ctx context.Context, sess *models.Session) error {
	return s.rm.Sessions(s.db).Create(ctx, sess)
}

func (s *SQLStore) Load(ctx context.Context, id string) (*models.Session, error) {
	return s.rm.Sessions(s.db).Find(ctx, id)
}

func (s *SQLStore) Extend(ctx context.Context, id string, expires time.Time) error {
	return s.rm.Sessions(s.db).Touch(ctx, id, expires)
}

func (s *SQLStore) Remove(ctx context.Context, id string) error {
	return s.rm.Sessions(s.db).Delete(ctx, id)
}

func (s *SQLStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	return s.rm.Sessions(s.db).DeleteExpired(ctx, now)
}
