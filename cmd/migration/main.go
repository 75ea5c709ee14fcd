package main

import (
	"inventory/cmd/migration/initialize"
	"inventory/cmd/migration/seed"
	"inventory/config"
	"inventory/internal/database"
	"inventory/internal/logger"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	logger.Init(os.Getenv("ENVIRONMENT"))
	log := logger.New("migration")

	var steps int
	root := &cobra.Command{
		Use:           "migration",
		Short:         "Manage the inventory database schema and data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations and essential data",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(db database.DB, cfg config.Config) error {
				if err := database.Migrate(db); err != nil {
					return err
				}
				return initialize.InitializeTables(db.SQL, cfg, log)
			})
		},
	}

	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back applied migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(db database.DB, cfg config.Config) error {
				applied, err := database.Rollback(db, steps)
				if err != nil {
					return err
				}
				log.Info("Rolled back migrations", "count", applied)
				return nil
			})
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert development data",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(db database.DB, cfg config.Config) error {
				if err := initialize.InitializeTables(db.SQL, cfg, log); err != nil {
					return err
				}
				return seed.Seed(db.SQL, cfg, log)
			})
		},
	}

	root.AddCommand(up, down, seedCmd)

	if err := root.Execute(); err != nil {
		log.Function("main").Er("migration failed", err)
		os.Exit(1)
	}
}

// withDB opens the configured database with auto-migration off so the
// subcommand controls the schema.
func withDB(run func(database.DB, config.Config) error) error {
	cfg, err := config.InitConfig()
	if err != nil {
		return err
	}
	cfg.DatabaseAutoMigrate = false

	db, err := database.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	return run(db, cfg)
}
