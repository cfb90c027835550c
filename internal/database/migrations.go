package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// MigrationManager manages database migrations
type MigrationManager struct {
	db        *sql.DB
	source    fs.FS
	sourceErr error
}

// NewMigrationManager creates a migration manager over the embedded migrations
func NewMigrationManager(db *sql.DB) *MigrationManager {
	return newSubdirManager(db, embeddedMigrations, "migrations")
}

// newSubdirManager roots the manager at dir inside fsys. A bad dir is
// reported by LoadMigrations and RunMigrations.
func newSubdirManager(db *sql.DB, fsys fs.FS, dir string) *MigrationManager {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return &MigrationManager{db: db, sourceErr: fmt.Errorf("failed to open migrations directory %q: %w", dir, err)}
	}
	return NewMigrationManagerFS(db, sub)
}

// NewMigrationManagerFS creates a migration manager reading *.sql files from source
func NewMigrationManagerFS(db *sql.DB, source fs.FS) *MigrationManager {
	return &MigrationManager{
		db:     db,
		source: source,
	}
}

// InitMigrationsTable creates the migrations tracking table
func (m *MigrationManager) InitMigrationsTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := m.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

// GetAppliedMigrations returns the set of applied migration versions
func (m *MigrationManager) GetAppliedMigrations(ctx context.Context) (map[int]bool, error) {
	rows, err := m.db.QueryContext(ctx, "SELECT version FROM migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}

	return applied, rows.Err()
}

// LoadMigrations loads migration files sorted by version
func (m *MigrationManager) LoadMigrations() ([]Migration, error) {
	if m.sourceErr != nil {
		return nil, m.sourceErr
	}

	entries, err := fs.ReadDir(m.source, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var migrations []Migration
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		// Parse version from filename (e.g., "001_create_cluster_runs.sql")
		var version int
		var name string
		if _, err := fmt.Sscanf(entry.Name(), "%d_%s", &version, &name); err != nil {
			log.Warn().Str("file", entry.Name()).Msg("skipping migration file with invalid name")
			continue
		}

		content, err := fs.ReadFile(m.source, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		migrations = append(migrations, Migration{
			Version: version,
			Name:    strings.TrimSuffix(entry.Name(), ".sql"),
			SQL:     string(content),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	return migrations, nil
}

// ApplyMigration applies a single migration
func (m *MigrationManager) ApplyMigration(ctx context.Context, migration Migration) error {
	err := Transaction(ctx, m.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, migration.SQL); err != nil {
			return fmt.Errorf("failed to execute migration %d: %w", migration.Version, err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO migrations (version, name) VALUES (?, ?)", migration.Version, migration.Name); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().Int("version", migration.Version).Str("name", migration.Name).Msg("applied migration")
	return nil
}

// RunMigrations runs all pending migrations and returns how many were applied
func (m *MigrationManager) RunMigrations(ctx context.Context) (int, error) {
	if err := m.InitMigrationsTable(ctx); err != nil {
		return 0, err
	}

	applied, err := m.GetAppliedMigrations(ctx)
	if err != nil {
		return 0, err
	}

	migrations, err := m.LoadMigrations()
	if err != nil {
		return 0, err
	}

	count := 0
	for _, migration := range migrations {
		if applied[migration.Version] {
			log.Debug().Int("version", migration.Version).Msg("skipping already applied migration")
			continue
		}

		if err := m.ApplyMigration(ctx, migration); err != nil {
			return count, err
		}
		count++
	}

	log.Info().Int("applied", count).Msg("all migrations applied")
	return count, nil
}
