package config

import (
	"flag"
	"os"
	"time"

	"github.com/esaveliev/walletgate/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   access token HMAC secret
//	-k string   refresh token HMAC secret
//	-t int      access token validity, minutes
//	-r int      refresh token validity, minutes
//	-f int      failed logins before lockout
//	-w int      lockout counting window, minutes
//	-l int      lockout cooldown, minutes
//	-j int      janitor sweep interval, minutes
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes using
//     flagx.FilterArgs, avoiding collisions with other components.
//   - Duration flags are accepted as integers in minutes and then converted
//     to time.Duration values.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-k", "-t", "-r", "-f", "-w", "-l", "-j"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.AccessTokenSecret, "s", config.AccessTokenSecret, "access token secret")
	fs.StringVar(&config.RefreshTokenSecret, "k", config.RefreshTokenSecret, "refresh token secret")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	refreshTokenValidityDuration := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh_token_validity_duration (in minutes)")

	fs.IntVar(&config.LockoutMaxFailures, "f", config.LockoutMaxFailures, "failed logins before lockout")
	lockoutWindow := fs.Int("w", int(config.LockoutWindow.Minutes()), "lockout_window (in minutes)")
	lockoutCooldown := fs.Int("l", int(config.LockoutCooldown.Minutes()), "lockout_cooldown (in minutes)")
	janitorInterval := fs.Int("j", int(config.JanitorInterval.Minutes()), "janitor_interval (in minutes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// Minute-granularity flags only override when actually passed, so
	// sub-minute durations from the JSON overlay survive.
	visited := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { visited[f.Name] = true })

	if visited["t"] {
		config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
	}
	if visited["r"] {
		config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidityDuration) * time.Minute
	}
	if visited["w"] {
		config.LockoutWindow = time.Duration(*lockoutWindow) * time.Minute
	}
	if visited["l"] {
		config.LockoutCooldown = time.Duration(*lockoutCooldown) * time.Minute
	}
	if visited["j"] {
		config.JanitorInterval = time.Duration(*janitorInterval) * time.Minute
	}
}
