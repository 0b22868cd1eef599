package models

// Audiobook is a votable catalog item. Votes is the signed sum of all vote
// values for the item and TotalVotes their count; both are derived from the
// votes table and only written by a recount.
type Audiobook struct {
	ID         int64
	Title      string
	Author     string
	CoverImage string
	Votes      int
	TotalVotes int
}

// AudiobookView is an Audiobook as seen by a particular viewer.
// UserVote is the viewer's vote value, 0 when none or anonymous.
type AudiobookView struct {
	Audiobook
	UserVote int
}
