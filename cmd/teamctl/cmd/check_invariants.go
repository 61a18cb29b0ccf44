package cmd

import (
	"fmt"
	"os"

	"teammatch/database"
	"teammatch/services"

	"github.com/apex/log"
	"github.com/spf13/cobra"
)

var checkInvariantsCmd = &cobra.Command{
	Use:   "check-invariants",
	Short: "Report capacity, creator and pending-request violations",
	Long: `Scans every team for members over capacity, a missing or duplicated
creator membership, and users holding more than one PENDING request for the
same team. Exits with status 2 when anything is found.`,
	Run: func(cmd *cobra.Command, args []string) {
		db := mustConnect()

		violations, err := services.AuditInvariants(db)
		database.CloseDB()
		if err != nil {
			log.Fatalf("Audit failed: %s", err)
		}

		if len(violations) == 0 {
			log.Info("✓ No violations")
			return
		}

		for _, v := range violations {
			fmt.Fprintf(os.Stdout, "%-18s team=%d user=%d %s\n", v.Kind, v.TeamID, v.UserID, v.Detail)
		}
		log.WithField("count", len(violations)).Error("violations found")
		os.Exit(2)
	},
}

func init() {
	rootCmd.AddCommand(checkInvariantsCmd)
}
