package models

import "time"

// RefreshToken is a server-side session record. The row is the source of
// truth for session liveness: a token whose signature still verifies but
// whose row is gone is a dead session. Exactly one row exists per issued,
// un-rotated token.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}
