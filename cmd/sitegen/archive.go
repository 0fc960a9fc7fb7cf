package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/angerslab/sitegen/internal/archive"
	"github.com/angerslab/sitegen/internal/publication"
)

var archiveDBPath string

func init() {
	archiveCmd.PersistentFlags().StringVar(&archiveDBPath, "db", "publications_archive.db", "Path to the archive database")
	archiveCmd.AddCommand(archiveRunsCmd)
	archiveCmd.AddCommand(archiveLatestCmd)
	archiveCmd.AddCommand(archiveStatsCmd)
	rootCmd.AddCommand(archiveCmd)
}

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Inspect the publications run archive",
	Long: `Inspect the optional SQLite archive written by
"sitegen publications --archive". Output is JSON.`,
}

var archiveRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded runs, newest first",
	RunE:  runArchiveRuns,
}

var archiveLatestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Print the most recent run's records",
	RunE:  runArchiveLatest,
}

var archiveStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the archive contents",
	RunE:  runArchiveStats,
}

func openArchive() *archive.DB {
	if _, err := os.Stat(archiveDBPath); err != nil {
		exitWithError(ExitError, "archive database: %v", err)
	}
	db, err := archive.Open(archiveDBPath)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	return db
}

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runArchiveRuns(cmd *cobra.Command, args []string) error {
	db := openArchive()
	defer db.Close()

	runs, err := db.Runs()
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if runs == nil {
		runs = []archive.Run{}
	}
	return outputJSON(runs)
}

func runArchiveLatest(cmd *cobra.Command, args []string) error {
	db := openArchive()
	defer db.Close()

	records, err := db.LatestRecords()
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if records == nil {
		records = []publication.Record{}
	}
	return outputJSON(records)
}

func runArchiveStats(cmd *cobra.Command, args []string) error {
	db := openArchive()
	defer db.Close()

	stats, err := db.ReadStats()
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	return outputJSON(stats)
}
