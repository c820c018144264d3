package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/ignitofy-engine/internal/core/domain"
)

func setupSQLite(t *testing.T) *sqlx.DB {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "ignitofy.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func setupTestDB(t *testing.T) *sqlx.DB {
	dbUser := os.Getenv("DB_USER")
	if dbUser == "" {
		dbUser = "ignitofy_user"
	}
	dbPass := os.Getenv("DB_PASSWORD")
	if dbPass == "" {
		dbPass = "secret"
	}
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		dbHost = "localhost"
	}
	dbPort := os.Getenv("DB_PORT")
	if dbPort == "" {
		dbPort = "5432"
	}
	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "ignitofy"
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPass, dbHost, dbPort, dbName)

	db, err := OpenPostgres(dsn)
	if err != nil {
		t.Skipf("Skipping integration tests: database connection failed: %v", err)
	}
	return db
}

func TestSQLSnapshotRepository_SQLite(t *testing.T) {
	db := setupSQLite(t)
	repo := NewSQLSnapshotRepository(db, "snapshots", domain.SnapshotKey)
	require.NoError(t, repo.EnsureSchema(context.Background()))

	runSnapshotContract(t, repo)
}

func TestSQLSnapshotRepository_KeysAreIsolated(t *testing.T) {
	db := setupSQLite(t)
	ctx := context.Background()

	a := NewSQLSnapshotRepository(db, "snapshots", "a")
	b := NewSQLSnapshotRepository(db, "snapshots", "b")
	require.NoError(t, a.EnsureSchema(ctx))

	require.NoError(t, a.Save(ctx, []byte(`["a"]`)))
	require.NoError(t, b.Save(ctx, []byte(`["b"]`)))
	require.NoError(t, a.Clear(ctx))

	_, err := a.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)

	got, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte(`["b"]`), got)
}

func TestSQLSnapshotRepository_QuotesTableName(t *testing.T) {
	db := setupSQLite(t)
	repo := NewSQLSnapshotRepository(db, "habit snapshots", domain.SnapshotKey)

	require.NoError(t, repo.EnsureSchema(context.Background()))
	runSnapshotContract(t, repo)
}

func TestSQLSnapshotRepository_MissingTable(t *testing.T) {
	db := setupSQLite(t)
	repo := NewSQLSnapshotRepository(db, "never_created", domain.SnapshotKey)

	_, err := repo.Load(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSnapshotNotFound)
}

func TestSQLSnapshotRepository_Postgres_Integration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	repo := NewSQLSnapshotRepository(db, "snapshots_test", domain.SnapshotKey)
	require.NoError(t, repo.EnsureSchema(ctx))

	defer func() {
		_, err := db.Exec(`DROP TABLE IF EXISTS snapshots_test`)
		require.NoError(t, err, "Failed to clean up snapshot table")
	}()

	runSnapshotContract(t, repo)
}
