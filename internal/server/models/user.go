// Package models holds the persisted entities of the authentication service.
package models

import "time"

// User is an identity record. Email comparison is case-insensitive: callers
// normalize before hitting the store, and the store enforces uniqueness on
// the normalized value. PasswordHash is opaque and must never be logged or
// serialized outward.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
