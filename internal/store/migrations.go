package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Migration is a versioned schema change with a forward and an
// inverse form. Versions are contiguous and applied in order; the
// inverse must restore the schema to the previous version exactly.
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

// migrations is the ordered registry of all schema changes.
// Append only - never edit a released migration.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_events",
		Up: `
			CREATE TABLE events (
				id          INTEGER PRIMARY KEY AUTOINCREMENT,
				kind        TEXT    NOT NULL CHECK (kind IN
					('feeding', 'diaper_change', 'sleep', 'pumping', 'skin_to_skin')),
				occurred_at TEXT    NOT NULL,
				source      TEXT    NOT NULL DEFAULT '',
				quantity_ml INTEGER NOT NULL DEFAULT 0,
				minutes     INTEGER NOT NULL DEFAULT 0,
				urine       INTEGER NOT NULL DEFAULT 0,
				stool       INTEGER NOT NULL DEFAULT 0
			)
		`,
		Down: `DROP TABLE events`,
	},
	{
		Version: 2,
		Name:    "add_events_notes",
		Up:      `ALTER TABLE events ADD COLUMN notes TEXT NOT NULL DEFAULT ''`,
		Down:    `ALTER TABLE events DROP COLUMN notes`,
	},
	{
		Version: 3,
		Name:    "index_events_occurred_at",
		Up:      `CREATE INDEX idx_events_occurred_at ON events(occurred_at DESC, id DESC)`,
		Down:    `DROP INDEX idx_events_occurred_at`,
	},
}

// AppliedMigration is one row of the schema_migrations ledger.
type AppliedMigration struct {
	Version   int
	Name      string
	AppliedAt time.Time
}

// Migrations returns a copy of the registry, for status listings and
// reversibility checks.
func Migrations() []Migration {
	out := make([]Migration, len(migrations))
	copy(out, migrations)
	return out
}

// applyMigrations brings the schema up to the latest version.
// Each migration runs in its own transaction together with its
// ledger insert, so a failure leaves the schema at a known version.
func applyMigrations(db *sql.DB) error {
	if err := ensureLedger(db); err != nil {
		return err
	}

	current, err := ledgerVersion(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		if err := applyOne(db, m); err != nil {
			return err
		}
	}

	return nil
}

// applyOne runs a single forward migration transactionally.
func applyOne(db *sql.DB, m Migration) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("migration %d: begin tx: %w", m.Version, err)
	}
	defer tx.Rollback() // No-op if committed

	if _, err := tx.Exec(m.Up); err != nil {
		return fmt.Errorf("migration %d (%s): %w", m.Version, m.Name, err)
	}

	if _, err := tx.Exec(
		`INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)`,
		m.Version, m.Name, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("migration %d: record in ledger: %w", m.Version, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("migration %d: commit: %w", m.Version, err)
	}

	return nil
}

// RollbackLast reverts the most recently applied migration using its
// inverse form. Returns the reverted migration, or an error if the
// ledger is empty or the inverse fails.
//
// Intended for schema verification and manual stepping, not for the
// normal startup path.
func (s *Store) RollbackLast() (Migration, error) {
	current, err := ledgerVersion(s.db)
	if err != nil {
		return Migration{}, err
	}
	if current == 0 {
		return Migration{}, fmt.Errorf("no applied migrations to roll back")
	}

	var target Migration
	found := false
	for _, m := range migrations {
		if m.Version == current {
			target = m
			found = true
			break
		}
	}
	if !found {
		return Migration{}, fmt.Errorf("ledger version %d has no registered migration", current)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return Migration{}, fmt.Errorf("rollback %d: begin tx: %w", target.Version, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(target.Down); err != nil {
		return Migration{}, fmt.Errorf("rollback %d (%s): %w", target.Version, target.Name, err)
	}

	if _, err := tx.Exec(`DELETE FROM schema_migrations WHERE version = ?`, target.Version); err != nil {
		return Migration{}, fmt.Errorf("rollback %d: remove from ledger: %w", target.Version, err)
	}

	if err := tx.Commit(); err != nil {
		return Migration{}, fmt.Errorf("rollback %d: commit: %w", target.Version, err)
	}

	return target, nil
}

// MigrateUp re-applies any pending migrations. Used by the migrate
// command after a manual rollback; Open already calls this path.
func (s *Store) MigrateUp() error {
	return applyMigrations(s.db)
}

// AppliedMigrations returns the ledger contents in version order.
func (s *Store) AppliedMigrations() ([]AppliedMigration, error) {
	rows, err := s.db.Query(`
		SELECT version, name, applied_at
		FROM schema_migrations
		ORDER BY version ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query ledger: %w", err)
	}
	defer rows.Close()

	var applied []AppliedMigration
	for rows.Next() {
		var am AppliedMigration
		var appliedAt string
		if err := rows.Scan(&am.Version, &am.Name, &appliedAt); err != nil {
			return nil, fmt.Errorf("scan ledger row: %w", err)
		}
		am.AppliedAt, err = time.Parse(time.RFC3339, appliedAt)
		if err != nil {
			return nil, fmt.Errorf("parse applied_at %q: %w", appliedAt, err)
		}
		applied = append(applied, am)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger: %w", err)
	}

	if applied == nil {
		applied = []AppliedMigration{}
	}

	return applied, nil
}

// ensureLedger creates the schema_migrations table if missing.
func ensureLedger(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	return nil
}

// ledgerVersion returns the highest applied version, 0 if none.
func ledgerVersion(db *sql.DB) (int, error) {
	var version int
	err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("read ledger version: %w", err)
	}
	return version, nil
}
