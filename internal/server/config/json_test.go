package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"endpoint_addr_http":              "www.example:9000",
		"database_dsn":                    "postgres://auth",
		"access_token_secret":             "my_access_secret",
		"refresh_token_secret":            "my_refresh_secret",
		"access_token_validity_duration":  "1m",
		"refresh_token_validity_duration": "3m",
		"lockout_max_failures":            7,
		"lockout_window":                  "10m",
		"lockout_cooldown":                "20m",
		"janitor_interval":                "30m",
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "www.example:9000", cfg.EndpointAddrHTTP)
		assert.Equal(t, "postgres://auth", cfg.DatabaseDSN)
		assert.Equal(t, "my_access_secret", cfg.AccessTokenSecret)
		assert.Equal(t, "my_refresh_secret", cfg.RefreshTokenSecret)
		assert.Equal(t, 1*time.Minute, cfg.AccessTokenValidityDuration)
		assert.Equal(t, 3*time.Minute, cfg.RefreshTokenValidityDuration)
		assert.Equal(t, 7, cfg.LockoutMaxFailures)
		assert.Equal(t, 10*time.Minute, cfg.LockoutWindow)
		assert.Equal(t, 20*time.Minute, cfg.LockoutCooldown)
		assert.Equal(t, 30*time.Minute, cfg.JanitorInterval)
	})

	t.Run("partial json keeps other values", func(t *testing.T) {
		partial := writeTempJSON(t, dir, "partial.json", map[string]any{
			"endpoint_addr_http": "partial:1234",
		})
		os.Args = []string{"testbin", "-config", partial}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "partial:1234", cfg.EndpointAddrHTTP)
		assert.Equal(t, "accessSecret", cfg.AccessTokenSecret)
		assert.Equal(t, 15*time.Minute, cfg.AccessTokenValidityDuration)
		assert.Equal(t, 5, cfg.LockoutMaxFailures)
	})

	t.Run("no CONFIG and no flags → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{
			EndpointAddrHTTP:             "defaults:1234",
			DatabaseDSN:                  "postgres://defaults",
			AccessTokenSecret:            "access",
			RefreshTokenSecret:           "refresh",
			AccessTokenValidityDuration:  2 * time.Minute,
			RefreshTokenValidityDuration: 3 * time.Minute,
			LockoutMaxFailures:           4,
			LockoutWindow:                5 * time.Minute,
			LockoutCooldown:              6 * time.Minute,
			JanitorInterval:              7 * time.Minute,
		}
		parseJson(cfg)

		assert.Equal(t, "defaults:1234", cfg.EndpointAddrHTTP)
		assert.Equal(t, "postgres://defaults", cfg.DatabaseDSN)
		assert.Equal(t, "access", cfg.AccessTokenSecret)
		assert.Equal(t, "refresh", cfg.RefreshTokenSecret)
		assert.Equal(t, 2*time.Minute, cfg.AccessTokenValidityDuration)
		assert.Equal(t, 3*time.Minute, cfg.RefreshTokenValidityDuration)
		assert.Equal(t, 4, cfg.LockoutMaxFailures)
		assert.Equal(t, 5*time.Minute, cfg.LockoutWindow)
		assert.Equal(t, 6*time.Minute, cfg.LockoutCooldown)
		assert.Equal(t, 7*time.Minute, cfg.JanitorInterval)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
