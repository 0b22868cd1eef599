package models

import "time"

// Vote is a single user's vote on an audiobook. Value is -1 or 1.
type Vote struct {
	ID          int64
	UserID      int64
	AudiobookID int64
	Value       int
	CreatedAt   time.Time
}

// VoteResult reports the outcome of a vote submission.
type VoteResult struct {
	AudiobookID int64
	Votes       int
	TotalVotes  int
	UserVote    int
	Action      string
}

// VoteEvent is emitted after a vote changed the ledger.
type VoteEvent struct {
	UserID      int64     `json:"user_id"`
	AudiobookID int64     `json:"audiobook_id"`
	Previous    int       `json:"previous"`
	Value       int       `json:"value"`
	Action      string    `json:"action"`
	Votes       int       `json:"votes"`
	TotalVotes  int       `json:"total_votes"`
	VotedAt     time.Time `json:"voted_at"`
}
