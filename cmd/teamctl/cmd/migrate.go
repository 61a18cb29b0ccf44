package cmd

import (
	"teammatch/database"

	"github.com/apex/log"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the schema, constraints and indexes",
	Run: func(cmd *cobra.Command, args []string) {
		// InitDB migrates on open.
		mustConnect()
		defer database.CloseDB()

		log.Info("✅ Schema is up to date")
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
