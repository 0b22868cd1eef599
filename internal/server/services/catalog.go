package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/audiovote/internal/server/models"
	"github.com/dmitrijs2005/audiovote/internal/server/repositories/repomanager"
)

// CatalogService lists audiobooks with their aggregates.
type CatalogService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	covers      CoverResolver
}

func NewCatalogService(db *sql.DB, m repomanager.RepositoryManager, covers CoverResolver) *CatalogService {
	if covers == nil {
		covers = PassthroughCovers{}
	}
	return &CatalogService{db: db, repomanager: m, covers: covers}
}

// List returns every audiobook in creation order. viewerID is nil for an
// anonymous caller, in which case every UserVote is 0.
func (s *CatalogService) List(ctx context.Context, viewerID *int64) ([]models.AudiobookView, error) {
	repo := s.repomanager.Audiobooks(s.db)

	var views []models.AudiobookView
	if viewerID == nil {
		books, err := repo.List(ctx)
		if err != nil {
			return nil, err
		}
		views = make([]models.AudiobookView, len(books))
		for i, b := range books {
			views[i] = models.AudiobookView{Audiobook: b}
		}
	} else {
		var err error
		if views, err = repo.ListForUser(ctx, *viewerID); err != nil {
			return nil, err
		}
	}

	for i := range views {
		views[i].CoverImage = s.covers.Resolve(ctx, views[i].CoverImage)
	}
	return views, nil
}

// Get returns common.ErrItemNotFound for an unknown id.
func (s *CatalogService) Get(ctx context.Context, id int64) (*models.Audiobook, error) {
	book, err := s.repomanager.Audiobooks(s.db).Get(ctx, id)
	if err != nil {
		return nil, err
	}
	book.CoverImage = s.covers.Resolve(ctx, book.CoverImage)
	return book, nil
}
