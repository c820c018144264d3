package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/comitanigiacomo/ignitofy-engine/internal/core/domain"
)

const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

var (
	ErrUnknownBackend = errors.New("unknown storage backend")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

type Config struct {
	Port           string
	StorageBackend string
	DataDir        string
	SnapshotKey    string

	SQLitePath    string
	SnapshotTable string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	RateLimit  int
	RateWindow time.Duration

	Location              *time.Location
	StreakRefreshInterval time.Duration

	LogDebug bool
	LogDir   string
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, key, raw)
	}
	return v, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not a duration", ErrInvalidConfig, key, raw)
	}
	return v, nil
}

func defaultDataDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".ignitofy")
	}
	return ".ignitofy"
}

// Load reads an optional .env file from envFiles (missing files are fine) and
// then the process environment.
func Load(envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}

	dataDir := getEnv("DATA_DIR", defaultDataDir())

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		StorageBackend: strings.ToLower(getEnv("STORAGE_BACKEND", BackendFile)),
		DataDir:        dataDir,
		SnapshotKey:    getEnv("SNAPSHOT_KEY", domain.SnapshotKey),
		SQLitePath:     getEnv("SQLITE_PATH", filepath.Join(dataDir, "ignitofy.db")),
		SnapshotTable:  getEnv("SNAPSHOT_TABLE", "snapshots"),
		DBUser:         getEnv("DB_USER", ""),
		DBPassword:     getEnv("DB_PASSWORD", ""),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBName:         getEnv("DB_NAME", "ignitofy"),
		RedisHost:      getEnv("REDIS_HOST", "localhost"),
		RedisPort:      getEnv("REDIS_PORT", "6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		LogDir:         getEnv("LOG_DIR", filepath.Join(dataDir, "logs")),
	}

	var err error
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.RateLimit, err = getInt("RATE_LIMIT", 100); err != nil {
		return nil, err
	}
	if cfg.RateWindow, err = getDuration("RATE_WINDOW", time.Minute); err != nil {
		return nil, err
	}
	if cfg.StreakRefreshInterval, err = getDuration("STREAK_REFRESH_INTERVAL", time.Minute); err != nil {
		return nil, err
	}

	cfg.LogDebug, _ = strconv.ParseBool(getEnv("LOG_DEBUG", "false"))

	cfg.Location = time.Local
	if tz := getEnv("TIMEZONE", ""); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("%w: TIMEZONE=%q: %v", ErrInvalidConfig, tz, err)
		}
		cfg.Location = loc
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.StorageBackend {
	case BackendMemory, BackendFile, BackendSQLite, BackendPostgres, BackendRedis:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.StorageBackend)
	}

	if strings.TrimSpace(c.SnapshotKey) == "" {
		return fmt.Errorf("%w: snapshot key cannot be empty", ErrInvalidConfig)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("%w: rate limit cannot be negative", ErrInvalidConfig)
	}
	if c.StreakRefreshInterval <= 0 {
		return fmt.Errorf("%w: streak refresh interval must be positive", ErrInvalidConfig)
	}
	if c.StorageBackend == BackendPostgres && c.DBUser == "" {
		return fmt.Errorf("%w: DB_USER is required for the postgres backend", ErrInvalidConfig)
	}
	return nil
}

// PostgresDSN builds the connection string for the pgx driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// SnapshotFile is the file backing the file backend.
func (c *Config) SnapshotFile() string {
	return filepath.Join(c.DataDir, c.SnapshotKey+".json")
}
