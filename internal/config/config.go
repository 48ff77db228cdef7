// Package config loads application configuration from environment variables.
package config

import (
	"os"
)

// Config holds the application configuration loaded from environment
// variables.
type Config struct {
	GitHubToken string
	ListenAddr  string
	DBPath      string
}

// Load reads configuration from environment variables and returns a Config.
// LIBRESHIFT_GITHUB_TOKEN is optional: when absent, every liberate request
// must carry its own bearer token. Optional variables with defaults:
// LIBRESHIFT_LISTEN_ADDR (127.0.0.1:8080), LIBRESHIFT_DB_PATH
// (libreshift.db).
func Load() (*Config, error) {
	token := os.Getenv("LIBRESHIFT_GITHUB_TOKEN")

	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("LIBRESHIFT_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbPath := "libreshift.db"
	if v, ok := os.LookupEnv("LIBRESHIFT_DB_PATH"); ok {
		dbPath = v
	}

	return &Config{
		GitHubToken: token,
		ListenAddr:  listenAddr,
		DBPath:      dbPath,
	}, nil
}
