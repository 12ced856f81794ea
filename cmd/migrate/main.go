package main

// Run database migrations:
//   go run ./cmd/migrate
// Revert the latest migration:
//   go run ./cmd/migrate down
// Print migration status:
//   go run ./cmd/migrate status

import (
	"context"
	"log"
	"os"

	"verifyzen/internal/shared/config"
	"verifyzen/internal/shared/storage/db"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		log.Printf("failed to connect database: %v", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "status":
			if err := db.MigrationStatus(ctx, sqlDB); err != nil {
				log.Printf("failed to read migration status: %v", err)
				os.Exit(1)
			}
			return
		case "down":
			if err := db.RollbackMigration(ctx, sqlDB); err != nil {
				log.Printf("failed to revert migration: %v", err)
				os.Exit(1)
			}
			return
		}
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		log.Printf("failed to run migrations: %v", err)
		os.Exit(1)
	}
}
