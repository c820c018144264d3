package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/comitanigiacomo/ignitofy-engine/internal/core/domain"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

var _ domain.SnapshotRepository = (*SQLSnapshotRepository)(nil)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// SQLSnapshotRepository keeps each snapshot as one row keyed by name. The same
// statements run on Postgres (pgx) and SQLite (modernc).
type SQLSnapshotRepository struct {
	db    *sqlx.DB
	table string
	key   string
}

func NewSQLSnapshotRepository(db *sqlx.DB, table, key string) *SQLSnapshotRepository {
	return &SQLSnapshotRepository{
		db:    db,
		table: pq.QuoteIdentifier(table),
		key:   key,
	}
}

// OpenSQLite opens (creating if needed) the SQLite database at path.
func OpenSQLite(path string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite at %s: %w", path, err)
	}
	// Single writer; avoids SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)
	return db, nil
}

func OpenPostgres(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the snapshot table if it does not exist yet.
func (r *SQLSnapshotRepository) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s (
            key TEXT PRIMARY KEY,
            payload TEXT NOT NULL,
            updated_at TIMESTAMP NOT NULL
        )`, r.table)

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create snapshot table: %w", err)
	}
	return nil
}

func (r *SQLSnapshotRepository) Load(ctx context.Context) ([]byte, error) {
	query := r.db.Rebind(fmt.Sprintf(`SELECT payload FROM %s WHERE key = ?`, r.table))

	var payload string
	err := r.db.GetContext(ctx, &payload, query, r.key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return []byte(payload), nil
}

func (r *SQLSnapshotRepository) Save(ctx context.Context, payload []byte) error {
	query := r.db.Rebind(fmt.Sprintf(`
        INSERT INTO %s (key, payload, updated_at)
        VALUES (?, ?, ?)
        ON CONFLICT (key) DO UPDATE
        SET payload = excluded.payload, updated_at = excluded.updated_at`, r.table))

	if _, err := r.db.ExecContext(ctx, query, r.key, string(payload), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

func (r *SQLSnapshotRepository) Clear(ctx context.Context) error {
	query := r.db.Rebind(fmt.Sprintf(`DELETE FROM %s WHERE key = ?`, r.table))

	if _, err := r.db.ExecContext(ctx, query, r.key); err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}
	return nil
}
