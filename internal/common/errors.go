// Package common defines shared constants and sentinel errors used across
// walletgate components. Callers match these values with errors.Is.
package common

import (
	"errors"
	"fmt"
	"time"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal   = errors.New("internal error")
	ErrorValidation = errors.New("validation error")

	// Credential errors. The message is deliberately identical for an unknown
	// email and a wrong password.
	ErrorUnauthorized = errors.New("invalid email or password")

	// Token lifecycle errors.
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// Lockout errors. Matched by AccountLockedError via errors.Is.
	ErrAccountLocked = errors.New("account temporarily locked")
)

// AccountLockedError reports that an account is in lockout and how long the
// caller has to wait before the next attempt is accepted. It matches
// ErrAccountLocked under errors.Is.
type AccountLockedError struct {
	Remaining time.Duration
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("account temporarily locked, retry in %s", e.Remaining.Round(time.Second))
}

func (e *AccountLockedError) Is(target error) bool {
	return target == ErrAccountLocked
}
