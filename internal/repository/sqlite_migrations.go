package repository

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Migration represents a single schema change.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var sqliteMigrations = []Migration{
	{
		Version:     1,
		Description: "create stock_items and withdrawals",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS stock_items (
					id          TEXT PRIMARY KEY,
					tenant_id   TEXT NOT NULL DEFAULT '',
					name        TEXT NOT NULL,
					description TEXT NOT NULL DEFAULT '',
					category    TEXT NOT NULL DEFAULT '',
					length      REAL,
					width       REAL,
					height      REAL,
					weight      REAL,
					quantity    INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
					created_at  INTEGER NOT NULL,
					updated_at  INTEGER NOT NULL
				);
				CREATE INDEX IF NOT EXISTS idx_stock_items_tenant_name ON stock_items (tenant_id, name);

				CREATE TABLE IF NOT EXISTS withdrawals (
					id              TEXT PRIMARY KEY,
					stock_item_id   TEXT NOT NULL,
					stock_item_name TEXT NOT NULL DEFAULT '',
					tenant_id       TEXT NOT NULL DEFAULT '',
					user_id         TEXT NOT NULL DEFAULT '',
					quantity        INTEGER NOT NULL,
					total_weight    REAL NOT NULL DEFAULT 0,
					reason          TEXT NOT NULL DEFAULT '',
					created_at      INTEGER NOT NULL
				);
				CREATE INDEX IF NOT EXISTS idx_withdrawals_tenant_created ON withdrawals (tenant_id, created_at DESC);
			`)
			return err
		},
	},
	{
		Version:     2,
		Description: "index stock_items by category",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_stock_items_category ON stock_items (tenant_id, category)`)
			return err
		},
	},
}

// migrate applies every migration newer than PRAGMA user_version, each in
// its own transaction.
func migrate(db *sql.DB, migrations []Migration) error {
	var current int
	if err := db.QueryRow("PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		if err := applyMigration(db, m); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}
		log.Info().
			Int("version", m.Version).
			Str("description", m.Description).
			Msg("Applied migration")
	}
	return nil
}

func applyMigration(db *sql.DB, m Migration) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := m.Up(tx); err != nil {
		return err
	}
	// PRAGMA does not accept bound parameters
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
		return err
	}
	return tx.Commit()
}
