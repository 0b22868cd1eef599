// Package seed fills an empty database with a small demo catalog and a few
// users who have already voted.
package seed

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"

	"github.com/dmitrijs2005/audiovote/internal/common"
	"github.com/dmitrijs2005/audiovote/internal/logging"
	"github.com/dmitrijs2005/audiovote/internal/server/models"
	"github.com/dmitrijs2005/audiovote/internal/server/repositories/repomanager"
)

type UserRegistrar interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
}

type VoteSubmitter interface {
	SubmitVote(ctx context.Context, userID, audiobookID int64, value int) (*models.VoteResult, error)
}

var DemoAudiobooks = []models.Audiobook{
	{Title: "The Hobbit", Author: "J.R.R. Tolkien", CoverImage: "https://example.com/hobbit.jpg"},
	{Title: "1984", Author: "George Orwell", CoverImage: "https://example.com/1984.jpg"},
	{Title: "To Kill a Mockingbird", Author: "Harper Lee", CoverImage: "https://example.com/mockingbird.jpg"},
	{Title: "The Catcher in the Rye", Author: "J.D. Salinger", CoverImage: "https://example.com/catcher.jpg"},
	{Title: "Moby Dick", Author: "Herman Melville", CoverImage: "https://example.com/mobydick.jpg"},
}

var DemoUsers = []struct{ Username, Password string }{
	{"alice", "password1"},
	{"bob", "password2"},
	{"charlie", "password3"},
}

// votesPerUser is how many random picks each demo user gets. A repeated pick
// is a no-op, so a user ends up with one or two upvotes.
const votesPerUser = 2

type Seeder struct {
	db     *sql.DB
	rm     repomanager.RepositoryManager
	users  UserRegistrar
	votes  VoteSubmitter
	rnd    *rand.Rand
	logger logging.Logger
}

func NewSeeder(db *sql.DB, rm repomanager.RepositoryManager, users UserRegistrar, votes VoteSubmitter,
	rnd *rand.Rand, l logging.Logger) *Seeder {
	return &Seeder{db: db, rm: rm, users: users, votes: votes, rnd: rnd, logger: l.With("module", "seed")}
}

// Run seeds the catalog if it is empty, and the demo users with their votes
// if there are no users yet. Votes go through the vote service so the
// aggregates stay consistent with the ledger.
func (s *Seeder) Run(ctx context.Context) error {
	books := s.rm.Audiobooks(s.db)

	n, err := books.Count(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		for _, b := range DemoAudiobooks {
			if _, err := books.Create(ctx, &b); err != nil {
				return fmt.Errorf("seed audiobook %q: %w", b.Title, err)
			}
		}
		s.logger.Info(ctx, "Seeded audiobooks", "count", len(DemoAudiobooks))
	}

	n, err = s.rm.Users(s.db).Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	catalog, err := books.List(ctx)
	if err != nil {
		return err
	}

	for _, du := range DemoUsers {
		u, err := s.users.Register(ctx, du.Username, du.Password)
		if err != nil {
			return fmt.Errorf("seed user %q: %w", du.Username, err)
		}
		if len(catalog) == 0 {
			continue
		}
		for i := 0; i < votesPerUser; i++ {
			book := catalog[s.rnd.Intn(len(catalog))]
			if _, err := s.votes.SubmitVote(ctx, u.ID, book.ID, common.VoteUp); err != nil {
				return fmt.Errorf("seed vote: %w", err)
			}
		}
	}
	s.logger.Info(ctx, "Seeded demo users", "count", len(DemoUsers))
	return nil
}
