// cmd/root.go: cobra command tree for the timesheet service
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mvirtanen/timesheet-go/internal/conf"
)

// RootCommand creates and returns the root command with all subcommands
// attached.
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "timesheet",
		Short: "Timesheet reporting and ingest service",
		Long:  "A timesheet web API with reporting and aggregation over an embedded SQLite store.",
	}

	rootCmd.AddCommand(ServeCommand(settings))
	rootCmd.AddCommand(DBCommand(settings))

	setupFlags(rootCmd, settings)

	return rootCmd
}

// setupFlags defines global flags shared by all subcommands
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().StringVar(&settings.Output.SQLite.Path, "db", viper.GetString("output.sqlite.path"), "Path to the SQLite database")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		cobra.CheckErr(err)
	}
}
