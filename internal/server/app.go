// Package server initializes and runs the authentication server. It builds
// the service graph, applies schema migrations, handles graceful shutdown,
// and starts the HTTP endpoint together with the background janitor.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/esaveliev/walletgate/internal/logging"
	"github.com/esaveliev/walletgate/internal/server/auth"
	"github.com/esaveliev/walletgate/internal/server/config"
	"github.com/esaveliev/walletgate/internal/server/httpapi"
	"github.com/esaveliev/walletgate/internal/server/lockout"
	"github.com/esaveliev/walletgate/internal/server/password"
	"github.com/esaveliev/walletgate/internal/server/repositories/repomanager"
	"github.com/esaveliev/walletgate/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	authService *services.AuthService
	httpServer  *httpapi.Server
}

func NewApp(c *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	repos := repomanager.NewPostgresRepositoryManager()
	if err := repos.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	tokens := auth.NewJWTManager(
		[]byte(c.AccessTokenSecret),
		[]byte(c.RefreshTokenSecret),
		c.AccessTokenValidityDuration,
		c.RefreshTokenValidityDuration,
	)
	tracker := lockout.NewTracker(c.LockoutMaxFailures, c.LockoutWindow, c.LockoutCooldown)
	hasher := password.NewBcryptHasher(password.DefaultCost)

	authService := services.NewAuthService(db, repos, hasher, tokens, tracker, logger)
	httpServer := httpapi.NewServer(c.EndpointAddrHTTP, authService, tokens, logger)

	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		authService: authService,
		httpServer:  httpServer,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.httpServer.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// runJanitor periodically removes expired refresh-token rows and stale
// lockout entries until the context is cancelled.
func (app *App) runJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purged, err := app.authService.PurgeExpiredTokens(ctx)
			if err != nil {
				app.logger.Error(ctx, "expired token sweep failed", "error", err.Error())
				continue
			}
			dropped := app.authService.PurgeLockouts()
			app.logger.Info(ctx, "janitor sweep finished", "expired_sessions", purged, "stale_lockouts", dropped)
		}
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.runJanitor(ctx, app.config.JanitorInterval)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing database", "error", err.Error())
	}
}
