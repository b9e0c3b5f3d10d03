package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sablefin/sable/internal/cli"
	"github.com/sablefin/sable/internal/storage"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the database schema to the latest version.

This command ensures your local database has all the required
tables and indexes for the application to function properly.`,
		RunE: runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	store, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	slog.Info("Running database migrations", "target_version", storage.ExpectedSchemaVersion)

	if err := store.Migrate(cmd.Context()); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	printf("%s", cli.FormatSuccess("Database migrations completed"))

	return nil
}
