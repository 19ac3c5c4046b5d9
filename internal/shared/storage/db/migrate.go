package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const migrationsDir = "migrations"

// Migration commands accepted by Migrate.
const (
	MigrateUp      = "up"
	MigrateDown    = "down"
	MigrateStatus  = "status"
	MigrateRedo    = "redo"
	MigrateVersion = "version"
)

// MigrateCommands lists the commands Migrate accepts.
func MigrateCommands() []string {
	return []string{MigrateUp, MigrateDown, MigrateStatus, MigrateRedo, MigrateVersion}
}

// RunMigrations applies every embedded migration. A nil database is a no-op.
func RunMigrations(ctx context.Context, database *sql.DB) error {
	return Migrate(ctx, database, MigrateUp)
}

// Migrate runs a goose command against the embedded migrations.
func Migrate(ctx context.Context, database *sql.DB, command string) error {
	if database == nil {
		return nil
	}
	goose.SetBaseFS(migrationFiles)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	switch command {
	case MigrateUp:
		return goose.UpContext(ctx, database, migrationsDir)
	case MigrateDown:
		return goose.DownContext(ctx, database, migrationsDir)
	case MigrateStatus:
		return goose.StatusContext(ctx, database, migrationsDir)
	case MigrateRedo:
		return goose.RedoContext(ctx, database, migrationsDir)
	case MigrateVersion:
		return goose.VersionContext(ctx, database, migrationsDir)
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}
}

// MigrationNames lists the embedded migration files in apply order.
func MigrationNames() ([]string, error) {
	return fs.Glob(migrationFiles, migrationsDir+"/*.sql")
}
