// Package testutils holds helpers for integration tests against real backends.
package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"

	"github.com/Pranav2188/water-pollution-quirklab/internal/config"
)

// ConfigForTests applies the module's .env.test file, when there is one, to the
// test environment and returns the resulting config.
func ConfigForTests(t *testing.T) *config.Config {
	t.Helper()

	if root, ok := moduleRoot(); ok {
		if env, err := godotenv.Read(filepath.Join(root, ".env.test")); err == nil {
			// t.Setenv restores the previous values when the test ends.
			for key, value := range env {
				t.Setenv(key, value)
			}
		}
	}
	return config.FromEnv()
}

// RequireEnv skips the test in -short mode or when any of keys is unset.
func RequireEnv(t *testing.T, keys ...string) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	for _, key := range keys {
		if os.Getenv(key) == "" {
			t.Skipf("skipping integration test: %s not set", key)
		}
	}
}

// moduleRoot walks up from the working directory to the directory holding go.mod.
func moduleRoot() (string, bool) {
	path, err := os.Getwd()
	if err != nil {
		return "", false
	}
	for {
		if _, err := os.Stat(filepath.Join(path, "go.mod")); err == nil {
			return path, true
		}
		if path == filepath.Dir(path) {
			return "", false
		}
		path = filepath.Dir(path)
	}
}
