package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/esaveliev/walletgate/internal/common"
)

// APIError is the JSON body of every non-2xx response.
type APIError struct {
	Code              string `json:"error_code"`
	Message           string `json:"error_message"`
	RetryAfterSeconds int64  `json:"retry_after_seconds,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, APIError{Code: code, Message: message})
}

// writeServiceError maps service-layer sentinel errors onto HTTP statuses.
// Anything unrecognized is reported as an opaque 500; the service has already
// logged the cause.
func writeServiceError(w http.ResponseWriter, err error) {
	var locked *common.AccountLockedError
	switch {
	case errors.As(err, &locked):
		retry := int64(locked.Remaining.Round(time.Second) / time.Second)
		w.Header().Set("Retry-After", strconv.FormatInt(retry, 10))
		writeJSON(w, http.StatusUnauthorized, APIError{
			Code:              "ACCOUNT_LOCKED",
			Message:           "Too many failed attempts, account temporarily locked",
			RetryAfterSeconds: retry,
		})
	case errors.Is(err, common.ErrorValidation):
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Email and password are required")
	case errors.Is(err, common.ErrorAlreadyExists):
		writeError(w, http.StatusConflict, "USER_EXISTS", "User with this email already exists")
	case errors.Is(err, common.ErrorUnauthorized):
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
	case errors.Is(err, common.ErrTokenExpired), errors.Is(err, common.ErrRefreshTokenExpired):
		writeError(w, http.StatusUnauthorized, "TOKEN_EXPIRED", "Token has expired")
	case errors.Is(err, common.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token")
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusUnauthorized, "SESSION_NOT_FOUND", "Session is not active")
	default:
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
