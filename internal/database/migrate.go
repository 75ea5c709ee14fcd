package database

import (
	"embed"
	logg "inventory/internal/logger"
	"inventory/internal/models"

	migrate "github.com/rubenv/sql-migrate"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

func migrationSource() migrate.MigrationSource {
	return &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationFiles,
		Root:       "migrations",
	}
}

// AllModels lists every persisted model in dependency order.
func AllModels() []any {
	return []any{
		&models.User{},
		&models.SKU{},
		&models.SpecTemplate{},
		&models.Batch{},
		&models.Barcode{},
		&models.TestTemplate{},
		&models.TestQuestion{},
		&models.TechnicalOutputChoice{},
		&models.Test{},
		&models.TestAnswer{},
	}
}

// Migrate brings the schema up to date: versioned SQL migrations on
// postgres, gorm AutoMigrate on sqlite.
func Migrate(db DB) error {
	log := logg.New("database").Function("Migrate")

	if db.Driver != "postgres" {
		log.Info("Auto-migrating sqlite schema")
		if err := db.SQL.AutoMigrate(AllModels()...); err != nil {
			return log.Err("failed to auto-migrate", err)
		}
		return nil
	}

	n, err := runMigrations(db, migrate.Up, 0)
	if err != nil {
		return err
	}
	log.Info("Applied migrations", "count", n)
	return nil
}

// Rollback undoes up to steps migrations on postgres.
func Rollback(db DB, steps int) (int, error) {
	log := logg.New("database").Function("Rollback")
	if db.Driver != "postgres" {
		return 0, log.Error("rollback is only supported for postgres", "driver", db.Driver)
	}
	return runMigrations(db, migrate.Down, steps)
}

func runMigrations(db DB, direction migrate.MigrationDirection, max int) (int, error) {
	log := logg.New("database").Function("runMigrations")

	sqlDB, err := db.SQL.DB()
	if err != nil {
		return 0, log.Err("failed to get database from GORM", err)
	}

	n, err := migrate.ExecMax(sqlDB, "postgres", migrationSource(), direction, max)
	if err != nil {
		return n, log.Err("failed to run migrations", err, "direction", direction)
	}
	return n, nil
}
