package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"PORT", "STORAGE_BACKEND", "DATA_DIR", "SNAPSHOT_KEY", "SQLITE_PATH", "SNAPSHOT_TABLE",
		"DB_USER", "DB_PASSWORD", "DB_HOST", "DB_PORT", "DB_NAME",
		"REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "REDIS_DB",
		"RATE_LIMIT", "RATE_WINDOW", "TIMEZONE", "STREAK_REFRESH_INTERVAL", "LOG_DEBUG", "LOG_DIR",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		clearEnv(t)
		dir := t.TempDir()
		t.Setenv("DATA_DIR", dir)

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, BackendFile, cfg.StorageBackend)
		assert.Equal(t, "ignitofy-habits", cfg.SnapshotKey)
		assert.Equal(t, filepath.Join(dir, "ignitofy-habits.json"), cfg.SnapshotFile())
		assert.Equal(t, filepath.Join(dir, "ignitofy.db"), cfg.SQLitePath)
		assert.Equal(t, 100, cfg.RateLimit)
		assert.Equal(t, time.Minute, cfg.RateWindow)
		assert.Equal(t, time.Local, cfg.Location)
	})

	t.Run("Reads .env file", func(t *testing.T) {
		clearEnv(t)
		envFile := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(envFile, []byte("PORT=9999\nSTORAGE_BACKEND=memory\nTIMEZONE=Europe/Rome\n"), 0600))
		// godotenv never overrides variables already set, so unset the cleared ones.
		os.Unsetenv("PORT")
		os.Unsetenv("STORAGE_BACKEND")
		os.Unsetenv("TIMEZONE")

		cfg, err := Load(envFile)

		require.NoError(t, err)
		assert.Equal(t, "9999", cfg.Port)
		assert.Equal(t, BackendMemory, cfg.StorageBackend)
		assert.Equal(t, "Europe/Rome", cfg.Location.String())
	})

	t.Run("Error: Unknown backend", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("STORAGE_BACKEND", "mongo")

		_, err := Load()

		assert.ErrorIs(t, err, ErrUnknownBackend)
	})

	t.Run("Error: Postgres without user", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("STORAGE_BACKEND", "postgres")

		_, err := Load()

		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("Error: Bad duration", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("RATE_WINDOW", "soon")

		_, err := Load()

		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("Error: Bad timezone", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("TIMEZONE", "Mars/Olympus")

		_, err := Load()

		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "db", DBPort: "5432", DBName: "ignitofy"}
	assert.Equal(t, "postgres://u:p@db:5432/ignitofy?sslmode=disable", cfg.PostgresDSN())
}
