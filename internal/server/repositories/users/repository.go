// Package users declares the repository contract for persistent user records.
package users

import (
	"context"

	"github.com/esaveliev/walletgate/internal/server/models"
)

// Repository owns the users table. Emails are stored normalized (lowercase,
// trimmed); callers normalize before lookups.
type Repository interface {
	// Create inserts a new user. A duplicate email returns
	// common.ErrorAlreadyExists, including when two registrations race past
	// the existence check and the unique index resolves the tie.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail returns the user with the given normalized email, or
	// common.ErrorNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID returns the user with the given id, or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.User, error)
}
