package main

// Apply or inspect the embedded schema:
//   go run ./cmd/migrate [up|down|status|redo|version]

import (
	"context"
	"log"
	"os"
	"slices"
	"strings"

	"sim-backend/internal/shared/config"
	"sim-backend/internal/shared/storage/db"
)

func main() {
	command := db.MigrateUp
	if len(os.Args) > 1 {
		command = strings.ToLower(strings.TrimSpace(os.Args[1]))
	}
	if !slices.Contains(db.MigrateCommands(), command) {
		log.Printf("unknown command %q, expected one of %s", command, strings.Join(db.MigrateCommands(), ", "))
		os.Exit(2)
	}

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Printf("DATABASE_URL is required; the in-memory store has no schema")
		os.Exit(1)
	}

	ctx := context.Background()
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		log.Printf("failed to connect database: %v", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	names, err := db.MigrationNames()
	if err != nil {
		log.Printf("list migrations: %v", err)
		os.Exit(1)
	}
	log.Printf("migrate %s: %d embedded migrations", command, len(names))

	if err := db.Migrate(ctx, sqlDB, command); err != nil {
		log.Printf("migrate %s failed: %v", command, err)
		os.Exit(1)
	}
	log.Printf("migrate %s complete", command)
}
