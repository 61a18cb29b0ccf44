package cmd

import (
	"encoding/json"
	"os"

	"teammatch/database"
	"teammatch/services"

	"github.com/apex/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var importDryRun bool

var importOlympiadsCmd = &cobra.Command{
	Use:   "import-olympiads <file.json>",
	Short: "Upsert olympiads from a JSON array, keyed on slug",
	Long: `Reads a JSON array of olympiads:

  [{"short_name": "IOI", "name": "International Olympiad in Informatics",
    "year": 2025, "level": "international", "subject": "informatics"}]

Rows whose slug already exists are updated in place. With --dry-run the
file is imported into a throwaway in-memory database instead.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		items, err := readOlympiads(args[0])
		if err != nil {
			log.Fatalf("%s", err)
		}

		var db *gorm.DB
		if importDryRun {
			if db, err = database.OpenMemory(); err != nil {
				log.Fatalf("Unable to open scratch database: %s", err)
			}
		} else {
			db = mustConnect()
			defer database.CloseDB()
		}

		n, err := services.NewOlympiadService(db).ImportOlympiads(items)
		if err != nil {
			log.Fatalf("Import failed: %s", err)
		}

		log.WithFields(log.Fields{"file": args[0], "count": n, "dry_run": importDryRun}).Info("✓ Import completed")
	},
}

func readOlympiads(path string) ([]services.OlympiadInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	var items []services.OlympiadInput
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return items, nil
}

func init() {
	importOlympiadsCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Validate against an in-memory database")
	rootCmd.AddCommand(importOlympiadsCmd)
}
