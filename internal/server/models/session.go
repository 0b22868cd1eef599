package models

import "time"

// Session maps an opaque server-side id to a user until Expires.
type Session struct {
	Token     string
	UserID    int64
	Expires   time.Time
	CreatedAt time.Time
}
