// Package common contains shared constants and sentinel errors used across
// audiovote components.
package common

import "time"

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "session"

// DefaultSessionTTL is how long a session stays valid after issuance or the
// last authenticated request.
const DefaultSessionTTL = 7 * 24 * time.Hour

// Allowed vote values. Zero is a request to remove a vote and is never stored.
const (
	VoteDown   = -1
	VoteRemove = 0
	VoteUp     = 1
)
