// Package refreshtokens declares the repository contract for server-side
// refresh-token session records.
package refreshtokens

import (
	"context"

	"github.com/esaveliev/walletgate/internal/server/models"
)

// Repository owns the refresh_tokens table. The table is authoritative for
// session liveness: a token absent here is a dead session regardless of its
// signature. Delete methods report how many rows went away so callers can
// distinguish "revoked now" from "was already gone".
type Repository interface {
	// Create inserts a new refresh-token row.
	Create(ctx context.Context, token *models.RefreshToken) error

	// FindByToken returns the row for the opaque token string, or
	// common.ErrorNotFound.
	FindByToken(ctx context.Context, token string) (*models.RefreshToken, error)

	// FindByID returns the row with the given id, or common.ErrorNotFound.
	FindByID(ctx context.Context, id string) (*models.RefreshToken, error)

	// FindByUserID lists all live session rows for a user.
	FindByUserID(ctx context.Context, userID string) ([]*models.RefreshToken, error)

	// DeleteByToken removes the row matching the token string.
	DeleteByToken(ctx context.Context, token string) (int64, error)

	// DeleteByID removes the row with the given id.
	DeleteByID(ctx context.Context, id string) (int64, error)

	// DeleteByUserID revokes every session of a user.
	DeleteByUserID(ctx context.Context, userID string) (int64, error)

	// DeleteExpired removes all rows whose expiry has passed. Run out-of-band
	// as a garbage-collection sweep.
	DeleteExpired(ctx context.Context) (int64, error)
}
