package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allConfigKeys lists every LIBRESHIFT_ env var that Load() reads.
var allConfigKeys = []string{
	"LIBRESHIFT_GITHUB_TOKEN",
	"LIBRESHIFT_LISTEN_ADDR",
	"LIBRESHIFT_DB_PATH",
}

// isolateConfigEnv saves and unsets all LIBRESHIFT_ env vars so tests don't
// inherit values from the host environment. t.Cleanup restores original
// values after the test.
func isolateConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range allConfigKeys {
		if orig, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, orig) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func TestLoad_Success(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("LIBRESHIFT_GITHUB_TOKEN", "ghp_test123")
	t.Setenv("LIBRESHIFT_LISTEN_ADDR", "0.0.0.0:9090")
	t.Setenv("LIBRESHIFT_DB_PATH", "/tmp/test.db")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "ghp_test123", cfg.GitHubToken)
	assert.Equal(t, "0.0.0.0:9090", cfg.ListenAddr)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
}

func TestLoad_Defaults(t *testing.T) {
	isolateConfigEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Empty(t, cfg.GitHubToken)
	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddr)
	assert.Equal(t, "libreshift.db", cfg.DBPath)
}
