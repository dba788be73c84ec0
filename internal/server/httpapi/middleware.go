package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/esaveliev/walletgate/internal/common"
)

type ctxKey string

const (
	userIDKey ctxKey = "userID"
	emailKey  ctxKey = "email"
)

// requireAccessToken verifies the bearer access token and stores the caller's
// identity in the request context.
func (s *Server) requireAccessToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthorizationHeaderName)
		if !strings.HasPrefix(header, common.BearerPrefix) {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Bearer access token required")
			return
		}

		claims, err := s.tokens.VerifyAccessToken(strings.TrimPrefix(header, common.BearerPrefix))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
		ctx = context.WithValue(ctx, emailKey, claims.Email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// callerID returns the user id placed in the context by requireAccessToken.
func callerID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}

// logRequests emits one access log line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		s.logger.Debug(r.Context(), "request handled", "method", r.Method, "path", r.URL.Path)
	})
}
