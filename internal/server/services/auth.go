// Package services contains the server-side business logic. This file
// implements AuthService: registration, password login with lockout,
// refresh-token rotation, and session revocation.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/esaveliev/walletgate/internal/common"
	"github.com/esaveliev/walletgate/internal/dbx"
	"github.com/esaveliev/walletgate/internal/logging"
	"github.com/esaveliev/walletgate/internal/server/auth"
	"github.com/esaveliev/walletgate/internal/server/lockout"
	"github.com/esaveliev/walletgate/internal/server/models"
	"github.com/esaveliev/walletgate/internal/server/password"
	"github.com/esaveliev/walletgate/internal/server/repositories/repomanager"
)

// dummyPasswordHash is compared against when the email is unknown, so a
// missing user burns roughly the same time as a wrong password and the
// response does not leak email existence through timing. The comparison
// result is discarded.
const dummyPasswordHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// TokenPair bundles a short-lived access token and a longer-lived refresh
// token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
}

// ClientInfo carries optional request metadata supplied by the transport
// layer, used only for logging.
type ClientInfo struct {
	IP        string
	UserAgent string
}

// AuthService composes the credential store, token issuance, password
// hashing, and the lockout tracker into the public authentication
// operations. Each method is safe for concurrent use; the lockout tracker is
// the only shared mutable state outside the database.
type AuthService struct {
	db      *sql.DB
	repos   repomanager.RepositoryManager
	hasher  password.Hasher
	tokens  *auth.JWTManager
	lockout *lockout.Tracker
	logger  logging.Logger
}

// NewAuthService constructs an AuthService from its collaborators. The
// service graph is built once at startup; nothing is looked up globally.
func NewAuthService(db *sql.DB, repos repomanager.RepositoryManager, hasher password.Hasher,
	tokens *auth.JWTManager, tracker *lockout.Tracker, logger logging.Logger) *AuthService {
	return &AuthService{
		db:      db,
		repos:   repos,
		hasher:  hasher,
		tokens:  tokens,
		lockout: tracker,
		logger:  logger.With("module", "auth_service"),
	}
}

// NormalizeEmail lowercases and trims an email for case-insensitive
// comparison. All store and lockout lookups use the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user and opens its first session. A duplicate email
// yields common.ErrorAlreadyExists; the pre-check race is resolved by the
// unique index and surfaces as the same error.
func (s *AuthService) Register(ctx context.Context, email, plainPassword string) (*AuthResult, error) {
	email = NormalizeEmail(email)
	if email == "" || plainPassword == "" {
		return nil, common.ErrorValidation
	}

	if _, err := s.repos.Users(s.db).GetByEmail(ctx, email); err == nil {
		return nil, common.ErrorAlreadyExists
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, s.failure(ctx, "register", err)
	}

	hash, err := s.hasher.Hash(plainPassword)
	if err != nil {
		return nil, s.failure(ctx, "register", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repos.Users(tx).Create(ctx, user); err != nil {
			return err
		}
		var issueErr error
		pair, issueErr = s.issuePair(ctx, tx, user.ID, user.Email)
		return issueErr
	}); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, s.failure(ctx, "register", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return &AuthResult{User: user, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

// Login verifies credentials and opens a new session. A locked account fails
// with an AccountLockedError carrying the remaining wait; an unknown email
// and a wrong password fail with the same common.ErrorUnauthorized and both
// count toward lockout.
func (s *AuthService) Login(ctx context.Context, email, plainPassword string, client *ClientInfo) (*AuthResult, error) {
	email = NormalizeEmail(email)
	if email == "" || plainPassword == "" {
		return nil, common.ErrorValidation
	}

	if remaining := s.lockout.Remaining(email); remaining > 0 {
		s.logger.Warn(ctx, "login rejected, account locked", clientArgs(client, "remaining", remaining.Round(time.Second).String())...)
		return nil, &common.AccountLockedError{Remaining: remaining}
	}

	user, err := s.repos.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Compare(dummyPasswordHash, plainPassword)
			s.lockout.RecordFailure(email)
			s.logger.Warn(ctx, "login failed", clientArgs(client)...)
			return nil, common.ErrorUnauthorized
		}
		return nil, s.failure(ctx, "login", err)
	}

	if !s.hasher.Compare(user.PasswordHash, plainPassword) {
		s.lockout.RecordFailure(email)
		s.logger.Warn(ctx, "login failed", clientArgs(client, "user_id", user.ID)...)
		return nil, common.ErrorUnauthorized
	}

	s.lockout.RecordSuccess(email)

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var issueErr error
		pair, issueErr = s.issuePair(ctx, tx, user.ID, user.Email)
		return issueErr
	}); err != nil {
		return nil, s.failure(ctx, "login", err)
	}

	s.logger.Info(ctx, "login succeeded", clientArgs(client, "user_id", user.ID)...)
	return &AuthResult{User: user, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

// Refresh exchanges a refresh token for a new pair, rotating the stored row.
// Rotation is single-use: the old row is deleted in the same transaction that
// persists the replacement, so an exchanged token can never be exchanged
// again and a crash mid-rotation cannot burn a token without a successor.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	row, err := s.repos.RefreshTokens(s.db).FindByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// A verifying signature without a row means the session was
			// rotated or revoked; the store wins.
			return nil, common.ErrorNotFound
		}
		return nil, s.failure(ctx, "refresh", err)
	}

	if row.ExpiresAt.Before(time.Now()) {
		if _, err := s.repos.RefreshTokens(s.db).DeleteByToken(ctx, refreshToken); err != nil {
			return nil, s.failure(ctx, "refresh", err)
		}
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		affected, err := s.repos.RefreshTokens(tx).DeleteByToken(ctx, refreshToken)
		if err != nil {
			return err
		}
		if affected == 0 {
			// A concurrent exchange already rotated this token between our
			// read and the delete; only the rotation that removed the row may
			// mint a successor.
			return common.ErrorNotFound
		}
		var issueErr error
		pair, issueErr = s.issuePair(ctx, tx, row.UserID, claims.Email)
		return issueErr
	}); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, s.failure(ctx, "refresh", err)
	}

	s.logger.Debug(ctx, "refresh token rotated", "user_id", row.UserID)
	return pair, nil
}

// Logout revokes the session behind the refresh token. A malformed token
// fails verification; a token whose row is already gone yields
// common.ErrorNotFound, so a second logout with the same token is visible to
// the caller. Transports wanting idempotent logout may map that to success.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if _, err := s.tokens.VerifyRefreshToken(refreshToken); err != nil {
		return err
	}

	affected, err := s.repos.RefreshTokens(s.db).DeleteByToken(ctx, refreshToken)
	if err != nil {
		return s.failure(ctx, "logout", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// LogoutAll revokes every session of the user and reports how many there
// were.
func (s *AuthService) LogoutAll(ctx context.Context, userID string) (int64, error) {
	affected, err := s.repos.RefreshTokens(s.db).DeleteByUserID(ctx, userID)
	if err != nil {
		return 0, s.failure(ctx, "logout_all", err)
	}
	s.logger.Info(ctx, "all sessions revoked", "user_id", userID, "sessions", affected)
	return affected, nil
}

// ActiveSessions lists the live refresh-token rows of a user. Token strings
// are blanked; only metadata leaves the service.
func (s *AuthService) ActiveSessions(ctx context.Context, userID string) ([]*models.RefreshToken, error) {
	sessions, err := s.repos.RefreshTokens(s.db).FindByUserID(ctx, userID)
	if err != nil {
		return nil, s.failure(ctx, "sessions", err)
	}
	for _, session := range sessions {
		session.Token = ""
	}
	return sessions, nil
}

// GetUser returns the identity behind a user id, for transports serving
// "who am I" lookups off a verified access token.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repos.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, s.failure(ctx, "get_user", err)
	}
	return user, nil
}

// PurgeExpiredTokens removes refresh-token rows whose expiry has passed.
// Intended to run periodically from the janitor.
func (s *AuthService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	purged, err := s.repos.RefreshTokens(s.db).DeleteExpired(ctx)
	if err != nil {
		return 0, s.failure(ctx, "purge_expired", err)
	}
	return purged, nil
}

// PurgeLockouts drops stale in-memory lockout entries.
func (s *AuthService) PurgeLockouts() int {
	return s.lockout.Purge()
}

// issuePair mints an access and refresh token for the user and persists the
// refresh-token row through the given DBTX. The jti embedded in the refresh
// token doubles as the row id.
func (s *AuthService) issuePair(ctx context.Context, db dbx.DBTX, userID, email string) (*TokenPair, error) {
	accessToken, err := s.tokens.GenerateAccessToken(userID, email)
	if err != nil {
		return nil, fmt.Errorf("signing access token: %w", err)
	}

	refreshToken, tokenID, err := s.tokens.GenerateRefreshToken(userID, email)
	if err != nil {
		return nil, fmt.Errorf("signing refresh token: %w", err)
	}

	row := &models.RefreshToken{
		ID:        tokenID,
		UserID:    userID,
		Token:     refreshToken,
		ExpiresAt: time.Now().Add(s.tokens.RefreshTTL()),
	}
	if err := s.repos.RefreshTokens(db).Create(ctx, row); err != nil {
		return nil, fmt.Errorf("persisting refresh token: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// failure logs the underlying error with its operation name and returns an
// opaque internal error; collaborator details never reach the caller.
func (s *AuthService) failure(ctx context.Context, op string, err error) error {
	s.logger.Error(ctx, "operation failed", "op", op, "error", err.Error())
	return fmt.Errorf("%s: %w", op, common.ErrorInternal)
}

func clientArgs(client *ClientInfo, args ...any) []any {
	if client == nil {
		return args
	}
	out := make([]any, 0, len(args)+4)
	out = append(out, args...)
	if client.IP != "" {
		out = append(out, "ip", client.IP)
	}
	if client.UserAgent != "" {
		out = append(out, "user_agent", client.UserAgent)
	}
	return out
}
