package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pageza/mealtracker/backend/config"
	"github.com/pageza/mealtracker/backend/internal/database"
)

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the diary database schema",
	Long: `Apply or roll back the embedded schema migrations.

Connection settings are read the same way the API server reads them.

Available subcommands:
  up     - Apply all pending migrations
  down   - Roll back the most recent migration
  status - Print the state of every migration`,
	SilenceUsage: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), database.MigrateUp)
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), database.MigrateDown)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the state of every migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), database.MigrationStatus)
	},
}

func init() {
	rootCmd.AddCommand(upCmd, downCmd, statusCmd)
}

func withDB(ctx context.Context, fn func(context.Context, *sql.DB) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := database.OpenSQL(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(ctx, db)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
