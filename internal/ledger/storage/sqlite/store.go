// Package sqlite implements the campaign snapshot store on SQLite.
//
// Each tenant occupies one row in the campaigns table; every save replaces
// the row's snapshot wholesale. The snapshot payload is versioned JSON and
// forward migrations run on load (see snapshot.go).
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/louisbranch/partyledger/internal/ledger/domain"
	"github.com/louisbranch/partyledger/internal/ledger/storage"
	"github.com/louisbranch/partyledger/internal/ledger/storage/sqlite/migrations"
)

// Store is a SQLite-backed storage.CampaignStore.
type Store struct {
	sqlDB *sql.DB
}

// Open opens (or creates) a SQLite campaign store at the provided path and
// applies pending schema migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.sqlDB.Close()
}

// Load reads the tenant's snapshot and decodes it through the migration
// chain for its stored version.
func (s *Store) Load(ctx context.Context, id int64) (*domain.Campaign, error) {
	var version int
	var payload []byte
	err := s.sqlDB.QueryRowContext(ctx,
		"SELECT version, snapshot FROM campaigns WHERE id = ?", id,
	).Scan(&version, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query campaign %d: %w", id, err)
	}
	campaign, err := decodeSnapshot(id, version, payload)
	if err != nil {
		return nil, fmt.Errorf("decode campaign %d: %w", id, err)
	}
	return campaign, nil
}

// Save overwrites the tenant's row with the current snapshot version.
func (s *Store) Save(ctx context.Context, campaign *domain.Campaign) error {
	payload, err := encodeSnapshot(campaign)
	if err != nil {
		return fmt.Errorf("encode campaign %d: %w", campaign.ID, err)
	}
	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO campaigns (id, version, snapshot, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    version = excluded.version,
    snapshot = excluded.snapshot,
    updated_at = excluded.updated_at`,
		campaign.ID, snapshotVersion, payload, time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save campaign %d: %w", campaign.ID, err)
	}
	return nil
}

// Exists reports whether the tenant has a snapshot row.
func (s *Store) Exists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := s.sqlDB.QueryRowContext(ctx,
		"SELECT 1 FROM campaigns WHERE id = ?", id,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check campaign %d: %w", id, err)
	}
	return true, nil
}

// Delete removes the tenant's snapshot row.
func (s *Store) Delete(ctx context.Context, id int64) error {
	result, err := s.sqlDB.ExecContext(ctx, "DELETE FROM campaigns WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete campaign %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete campaign %d: %w", id, err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}
