// Package migrate applies numbered SQL schema migrations to a SQLite database.
package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

const defaultTable = "schema_migrations"

// Migration is one numbered schema step
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

// Migrator tracks applied versions in a table and runs pending migrations
type Migrator struct {
	db     *sql.DB
	source Source
	table  string
	logger *zap.SugaredLogger
}

// NewMigrator creates a migrator for db. A nil logger disables logging.
func NewMigrator(db *sql.DB, source Source, logger *zap.SugaredLogger) *Migrator {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Migrator{
		db:     db,
		source: source,
		table:  defaultTable,
		logger: logger,
	}
}

// WithTable overrides the version tracking table name
func (m *Migrator) WithTable(table string) *Migrator {
	m.table = table
	return m
}

// MigrateUp applies every pending migration
func (m *Migrator) MigrateUp(ctx context.Context) error {
	return m.MigrateTo(ctx, -1)
}

// MigrateTo moves the schema up or down to targetVersion. -1 means latest.
func (m *Migrator) MigrateTo(ctx context.Context, targetVersion int) error {
	current, err := m.CurrentVersion(ctx)
	if err != nil {
		return err
	}

	migrations, err := m.source.Migrations()
	if err != nil {
		return fmt.Errorf("failed to get migrations: %w", err)
	}
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	if targetVersion == -1 {
		targetVersion = 0
		if len(migrations) > 0 {
			targetVersion = migrations[len(migrations)-1].Version
		}
	}

	if targetVersion < current {
		for i := len(migrations) - 1; i >= 0; i-- {
			mg := migrations[i]
			if mg.Version > targetVersion && mg.Version <= current {
				if err := m.execute(ctx, mg, false); err != nil {
					return fmt.Errorf("failed to roll back migration %d: %w", mg.Version, err)
				}
			}
		}
		return nil
	}

	for _, mg := range migrations {
		if mg.Version > current && mg.Version <= targetVersion {
			if err := m.execute(ctx, mg, true); err != nil {
				return fmt.Errorf("failed to apply migration %d: %w", mg.Version, err)
			}
		}
	}
	return nil
}

// CurrentVersion returns the highest applied version, creating the tracking
// table if needed.
func (m *Migrator) CurrentVersion(ctx context.Context) (int, error) {
	_, err := m.db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			version    INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`, m.table))
	if err != nil {
		return 0, fmt.Errorf("failed to create migration table: %w", err)
	}

	var version int
	err = m.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COALESCE(MAX(version), 0) FROM %s`, m.table)).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to get current version: %w", err)
	}
	return version, nil
}

func (m *Migrator) execute(ctx context.Context, mg Migration, up bool) error {
	stmt, direction := mg.Up, "up"
	if !up {
		stmt, direction = mg.Down, "down"
	}
	if stmt == "" {
		return fmt.Errorf("migration %d has no %s SQL", mg.Version, direction)
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to execute migration SQL: %w", err)
	}

	if up {
		_, err = tx.ExecContext(ctx, fmt.Sprintf(`INSERT OR REPLACE INTO %s (version, applied_at) VALUES (?, CURRENT_TIMESTAMP)`, m.table), mg.Version)
	} else {
		_, err = tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE version >= ?`, m.table), mg.Version)
	}
	if err != nil {
		return fmt.Errorf("failed to update migration version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration transaction: %w", err)
	}

	m.logger.Infof("applied migration %d (%s) %s", mg.Version, mg.Name, direction)
	return nil
}
