package main

import (
	"fmt"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/spf13/cobra"

	"github.com/johnquangdev/voice-agent/internal/infrastructure/database"
)

var migrateMax int

func init() {
	migrateDownCmd.Flags().IntVar(&migrateMax, "max", 1, "number of migrations to roll back (0 means all)")
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := openDB()
		if err != nil {
			return err
		}
		defer database.CloseDB(db)

		n, err := database.Migrate(db, cfg)
		if err != nil {
			return err
		}
		if cfg.Database.Driver != "postgres" {
			fmt.Fprintf(cmd.OutOrStdout(), "Schema synced with AutoMigrate (%s)\n", cfg.Database.Driver)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s)\n", n)
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := openDB()
		if err != nil {
			return err
		}
		defer database.CloseDB(db)

		if cfg.Database.Driver != "postgres" {
			return fmt.Errorf("migrate down is only supported for postgres (got %s)", cfg.Database.Driver)
		}
		n, err := database.ExecMigrations(db, cfg.Database.MigrationsDir, migrate.Down, migrateMax)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Rolled back %d migration(s)\n", n)
		return nil
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List applied migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := openDB()
		if err != nil {
			return err
		}
		defer database.CloseDB(db)

		if cfg.Database.Driver != "postgres" {
			return fmt.Errorf("migrate status is only supported for postgres (got %s)", cfg.Database.Driver)
		}
		records, err := database.MigrationStatus(db)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No migrations applied yet")
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%-30s %s\n", "ID", "APPLIED")
		for _, r := range records {
			fmt.Fprintf(cmd.OutOrStdout(), "%-30s %s\n", r.Id, r.AppliedAt.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}
