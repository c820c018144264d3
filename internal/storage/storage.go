package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/ignitofy-engine/internal/adapters/cache"
	"github.com/comitanigiacomo/ignitofy-engine/internal/adapters/repository"
	"github.com/comitanigiacomo/ignitofy-engine/internal/config"
	"github.com/comitanigiacomo/ignitofy-engine/internal/core/domain"
)

// Backend is an opened snapshot slot together with the connections backing it.
type Backend struct {
	Name  string
	Repo  domain.SnapshotRepository
	DB    *sqlx.DB
	Redis *redis.Client
}

// Open builds the snapshot repository selected by cfg.StorageBackend.
func Open(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Backend, error) {
	b := &Backend{Name: cfg.StorageBackend}

	switch cfg.StorageBackend {
	case config.BackendMemory:
		b.Repo = repository.NewInMemorySnapshotRepository()

	case config.BackendFile:
		repo, err := repository.NewFileSnapshotRepository(cfg.SnapshotFile())
		if err != nil {
			return nil, err
		}
		b.Repo = repo
		logger.Info("using file storage", "path", repo.Path())

	case config.BackendSQLite, config.BackendPostgres:
		var (
			db  *sqlx.DB
			err error
		)
		if cfg.StorageBackend == config.BackendSQLite {
			db, err = repository.OpenSQLite(cfg.SQLitePath)
		} else {
			db, err = repository.OpenPostgres(cfg.PostgresDSN())
			if err == nil {
				db.SetMaxOpenConns(5)
				db.SetMaxIdleConns(5)
				db.SetConnMaxLifetime(5 * time.Minute)
			}
		}
		if err != nil {
			return nil, err
		}

		repo := repository.NewSQLSnapshotRepository(db, cfg.SnapshotTable, cfg.SnapshotKey)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		b.DB = db
		b.Repo = repo
		logger.Info("using sql storage", "driver", db.DriverName(), "table", cfg.SnapshotTable)

	case config.BackendRedis:
		rdb, err := cache.NewRedisClient(cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		b.Redis = rdb
		b.Repo = repository.NewRedisSnapshotRepository(rdb, cfg.SnapshotKey)
		logger.Info("using redis storage", "host", cfg.RedisHost, "key", cfg.SnapshotKey)

	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, cfg.StorageBackend)
	}

	return b, nil
}

// Ping checks the connection behind the backend, if there is one.
func (b *Backend) Ping(ctx context.Context) error {
	switch {
	case b.DB != nil:
		return b.DB.PingContext(ctx)
	case b.Redis != nil:
		return cache.Ping(ctx, b.Redis)
	default:
		return nil
	}
}

func (b *Backend) Close() error {
	if b.DB != nil {
		return b.DB.Close()
	}
	if b.Redis != nil {
		return b.Redis.Close()
	}
	return nil
}
