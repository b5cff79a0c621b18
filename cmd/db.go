// cmd/db.go: database maintenance subcommands
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mvirtanen/timesheet-go/internal/conf"
	"github.com/mvirtanen/timesheet-go/internal/datastore"
	"github.com/mvirtanen/timesheet-go/internal/logging"
)

// DBCommand creates the db subcommand with its maintenance actions
func DBCommand(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database maintenance",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create or migrate the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initDatabase(settings)
		},
	})

	return cmd
}

// initDatabase opens the store once, which migrates the tables, rebuilds
// the reporting view and seeds the sentinel category.
func initDatabase(settings *conf.Settings) error {
	log := logging.ForService("db")

	ds := datastore.New(settings)
	if ds == nil {
		return fmt.Errorf("no database output enabled in configuration")
	}
	if err := ds.Open(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := ds.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	log.Info("database initialized", "path", settings.Output.SQLite.Path)
	return nil
}
