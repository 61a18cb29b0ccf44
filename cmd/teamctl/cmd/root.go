package cmd

import (
	"os"

	"teammatch/config"
	"teammatch/database"

	"github.com/apex/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var cfg *config.Config

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "teamctl",
	Short: "Maintenance commands for the teammatch database",
	Long: `teamctl runs one-off maintenance against the database configured
through the usual environment (.env, DB_DRIVER, DATABASE_URL, SQLITE_PATH):
schema migrations, olympiad catalogue imports and membership audits.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		cfg.SetupLogging()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// mustConnect opens and migrates the configured database.
func mustConnect() *gorm.DB {
	if err := database.InitDB(cfg); err != nil {
		log.Fatalf("Unable to open database: %s", err)
	}
	return database.GetDB()
}
