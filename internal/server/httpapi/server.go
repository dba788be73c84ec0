// Package httpapi exposes the authentication service over HTTP/JSON.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/esaveliev/walletgate/internal/logging"
	"github.com/esaveliev/walletgate/internal/server/auth"
	"github.com/esaveliev/walletgate/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	address string
	auth    *services.AuthService
	tokens  *auth.JWTManager
	logger  logging.Logger
}

func NewServer(address string, authService *services.AuthService, tokens *auth.JWTManager, logger logging.Logger) *Server {
	return &Server{
		address: address,
		auth:    authService,
		tokens:  tokens,
		logger:  logger.With("module", "http_server"),
	}
}

// Handler builds the route table. Exposed separately from Run so tests can
// drive it through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", s.handleRefresh).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", s.handleLogout).Methods(http.MethodPost)

	protected := api.NewRoute().Subrouter()
	protected.Use(s.requireAccessToken)
	protected.HandleFunc("/auth/logout-all", s.handleLogoutAll).Methods(http.MethodPost)
	protected.HandleFunc("/auth/me", s.handleMe).Methods(http.MethodGet)
	protected.HandleFunc("/auth/sessions", s.handleSessions).Methods(http.MethodGet)

	return r
}

// Run serves until the context is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.address,
		Handler:      s.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
