// Package auth implements token issuance and verification for the
// authentication service.
//
// Two independent HMAC secrets are used: one for short-lived access tokens
// and one for refresh tokens. Compromise of the access secret (exercised on
// every request) must not allow forging refresh tokens, and vice versa.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/esaveliev/walletgate/internal/common"
)

// Claims is the payload carried by both token kinds. Refresh tokens
// additionally set RegisteredClaims.ID (jti) to a fresh UUID so two tokens
// minted in the same instant for the same user are never byte-identical.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
	Email  string `json:"email"`
}

// JWTManager signs and verifies access and refresh tokens.
type JWTManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewJWTManager(accessSecret, refreshSecret []byte, accessTTL, refreshTTL time.Duration) *JWTManager {
	return &JWTManager{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// AccessTTL returns the configured access token lifetime.
func (m *JWTManager) AccessTTL() time.Duration { return m.accessTTL }

// RefreshTTL returns the configured refresh token lifetime.
func (m *JWTManager) RefreshTTL() time.Duration { return m.refreshTTL }

// GenerateAccessToken signs a {userID, email} payload with the access secret.
func (m *JWTManager) GenerateAccessToken(userID, email string) (string, error) {
	return m.sign(m.accessSecret, userID, email, "", m.accessTTL)
}

// GenerateRefreshToken signs a {userID, email, jti} payload with the refresh
// secret and returns the token together with its embedded jti.
func (m *JWTManager) GenerateRefreshToken(userID, email string) (token string, tokenID string, err error) {
	tokenID = uuid.NewString()
	token, err = m.sign(m.refreshSecret, userID, email, tokenID, m.refreshTTL)
	if err != nil {
		return "", "", err
	}
	return token, tokenID, nil
}

// VerifyAccessToken validates signature and expiry against the access secret.
func (m *JWTManager) VerifyAccessToken(token string) (*Claims, error) {
	return m.verify(m.accessSecret, token)
}

// VerifyRefreshToken validates signature and expiry against the refresh
// secret. A valid signature says nothing about session liveness; the
// refresh-token store stays authoritative for that.
func (m *JWTManager) VerifyRefreshToken(token string) (*Claims, error) {
	return m.verify(m.refreshSecret, token)
}

func (m *JWTManager) sign(secret []byte, userID, email, tokenID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
		Email:  email,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// verify never partially trusts an invalid token: any signature mismatch,
// malformed token, unexpected algorithm, or expiry yields an error and no
// claims.
func (m *JWTManager) verify(secret []byte, tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}
	if !token.Valid || claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
