package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/esaveliev/walletgate/internal/flagx"
	"github.com/esaveliev/walletgate/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "15m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config
// struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddrHTTP             string         `json:"endpoint_addr_http"`
	DatabaseDSN                  string         `json:"database_dsn"`
	AccessTokenSecret            string         `json:"access_token_secret"`
	RefreshTokenSecret           string         `json:"refresh_token_secret"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	LockoutMaxFailures           int            `json:"lockout_max_failures"`
	LockoutWindow                timex.Duration `json:"lockout_window"`
	LockoutCooldown              timex.Duration `json:"lockout_cooldown"`
	JanitorInterval              timex.Duration `json:"janitor_interval"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path is taken from the -c or -config command-line flags; if
// neither is set, no JSON file is loaded. Only keys present in the file
// override the current values, so the file may be partial. If the file
// cannot be read or contains invalid JSON, the function panics.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.AccessTokenSecret != "" {
		config.AccessTokenSecret = c.AccessTokenSecret
	}
	if c.RefreshTokenSecret != "" {
		config.RefreshTokenSecret = c.RefreshTokenSecret
	}
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityDuration.Duration)
	}
	if c.RefreshTokenValidityDuration.Duration != 0 {
		config.RefreshTokenValidityDuration = time.Duration(c.RefreshTokenValidityDuration.Duration)
	}
	if c.LockoutMaxFailures != 0 {
		config.LockoutMaxFailures = c.LockoutMaxFailures
	}
	if c.LockoutWindow.Duration != 0 {
		config.LockoutWindow = time.Duration(c.LockoutWindow.Duration)
	}
	if c.LockoutCooldown.Duration != 0 {
		config.LockoutCooldown = time.Duration(c.LockoutCooldown.Duration)
	}
	if c.JanitorInterval.Duration != 0 {
		config.JanitorInterval = time.Duration(c.JanitorInterval.Duration)
	}
}
