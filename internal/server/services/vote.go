package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/audiovote/internal/common"
	"github.com/dmitrijs2005/audiovote/internal/dbx"
	"github.com/dmitrijs2005/audiovote/internal/logging"
	"github.com/dmitrijs2005/audiovote/internal/server/events"
	"github.com/dmitrijs2005/audiovote/internal/server/models"
	"github.com/dmitrijs2005/audiovote/internal/server/repositories/repomanager"
)

// VoteService owns the vote ledger and keeps each audiobook's aggregates in
// step with it.
type VoteService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	publisher   events.Publisher
	log         logging.Logger
	attempts    int
	now         func() time.Time
}

func NewVoteService(db *sql.DB, m repomanager.RepositoryManager, publisher events.Publisher, log logging.Logger) *VoteService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &VoteService{
		db:          db,
		repomanager: m,
		publisher:   publisher,
		log:         log.With("module", "votes"),
		attempts:    dbx.DefaultTxAttempts,
		now:         time.Now,
	}
}

// SubmitVote records userID's vote of value (-1, 0 or 1) on audiobookID.
//
// Everything happens in one transaction: the item row is locked, the prior
// vote read, the ledger changed according to Reconcile and both aggregates
// recomputed from the ledger. Conflicts (a concurrent first vote by the same
// user, serialization failures, a busy SQLite) restart the transaction.
func (s *VoteService) SubmitVote(ctx context.Context, userID, audiobookID int64, value int) (*models.VoteResult, error) {
	if !common.ValidVote(value) {
		return nil, common.ErrInvalidVote
	}

	var (
		result *models.VoteResult
		prior  int
		action Action
	)

	err := dbx.WithTxRetry(ctx, s.db, nil, s.attempts, func(ctx context.Context, tx dbx.DBTX) error {
		books := s.repomanager.Audiobooks(tx)
		ledger := s.repomanager.Votes(tx)

		if err := books.Lock(ctx, audiobookID); err != nil {
			return err
		}

		existing, err := ledger.Find(ctx, userID, audiobookID)
		switch {
		case errors.Is(err, common.ErrorNotFound):
			existing, prior, err = nil, 0, nil
		case err != nil:
			return err
		default:
			prior = existing.Value
		}

		action = Reconcile(prior, value)

		switch action.Kind {
		case ActionInsert:
			err = ledger.Insert(ctx, &models.Vote{UserID: userID, AudiobookID: audiobookID, Value: action.Value})
		case ActionUpdate:
			err = ledger.UpdateValue(ctx, existing.ID, action.Value)
		case ActionDelete:
			err = ledger.Delete(ctx, existing.ID)
		}
		if err != nil {
			return err
		}

		votes, total, err := books.Recount(ctx, audiobookID)
		if err != nil {
			return err
		}

		result = &models.VoteResult{
			AudiobookID: audiobookID,
			Votes:       votes,
			TotalVotes:  total,
			UserVote:    action.Value,
			Action:      string(action.Kind),
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrItemNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("submit vote: %w", err)
	}

	s.log.Debug(ctx, "vote submitted",
		"user_id", userID, "audiobook_id", audiobookID,
		"previous", prior, "value", value, "action", action.Kind,
		"votes", result.Votes, "total_votes", result.TotalVotes)

	if action.Kind != ActionNone {
		s.publish(ctx, userID, prior, result)
	}
	return result, nil
}

func (s *VoteService) publish(ctx context.Context, userID int64, prior int, r *models.VoteResult) {
	ev := &models.VoteEvent{
		UserID:      userID,
		AudiobookID: r.AudiobookID,
		Previous:    prior,
		Value:       r.UserVote,
		Action:      r.Action,
		Votes:       r.Votes,
		TotalVotes:  r.TotalVotes,
		VotedAt:     s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.log.Warn(ctx, "failed to publish vote event", "audiobook_id", r.AudiobookID, "error", err)
	}
}
