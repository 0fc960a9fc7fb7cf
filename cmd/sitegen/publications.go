package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/angerslab/sitegen/internal/archive"
	"github.com/angerslab/sitegen/internal/config"
	"github.com/angerslab/sitegen/internal/eutils"
	"github.com/angerslab/sitegen/internal/publication"
	"github.com/angerslab/sitegen/internal/sitehtml"
)

var (
	pubConfigPath  string
	pubMode        string
	pubTarget      string
	pubOut         string
	pubSource      string
	pubAPIKey      string
	pubEmail       string
	pubArchivePath string
)

func init() {
	publicationsCmd.Flags().StringVar(&pubConfigPath, "config", "", "Path to pubmed_config.json (required)")
	publicationsCmd.Flags().StringVar(&pubMode, "mode", "print", "Output mode: print, write, or inject")
	publicationsCmd.Flags().StringVar(&pubTarget, "target", "publications.html", "Target HTML file when mode=inject")
	publicationsCmd.Flags().StringVar(&pubOut, "out", "publications_fragment.html", "Output file when mode=write")
	publicationsCmd.Flags().StringVar(&pubSource, "source", publication.SourceFetch, "Record source: efetch or esummary")
	publicationsCmd.Flags().StringVar(&pubAPIKey, "api-key", "", "NCBI API key (default $NCBI_API_KEY)")
	publicationsCmd.Flags().StringVar(&pubEmail, "email", "", "Contact email for NCBI (default $NCBI_EMAIL)")
	publicationsCmd.Flags().StringVar(&pubArchivePath, "archive", "", "Optional SQLite archive to record this run in")
	publicationsCmd.MarkFlagRequired("config")
	rootCmd.AddCommand(publicationsCmd)
}

var publicationsCmd = &cobra.Command{
	Use:   "publications",
	Short: "Build the publications list from PubMed",
	Long: `Build the publications list from PubMed E-utilities.

Runs one esearch per configured query term, deduplicates the PMIDs,
retrieves the records in batches, groups them by year, and renders an
HTML fragment delimited by PUBLIST markers.

Examples:
  sitegen publications --config scripts/pubmed_config.json --mode print
  sitegen publications --config scripts/pubmed_config.json --mode inject --target publications.html`,
	RunE: runPublications,
}

func runPublications(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.LoadPubMed(pubConfigPath)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	terms := cfg.Terms()
	if len(terms) == 0 {
		exitWithError(ExitNoQueries, "no queries found in %s", pubConfigPath)
	}

	var target []byte
	switch pubMode {
	case "print", "write":
	case "inject":
		// Read and validate the target before any network activity so a
		// failed run never leaves a partial write behind.
		target, err = os.ReadFile(pubTarget)
		if err != nil {
			exitWithError(ExitTargetMissing, "reading target: %v", err)
		}
	default:
		exitWithError(ExitError, "invalid mode %q (valid: print, write, inject)", pubMode)
	}

	var clientOpts []eutils.ClientOption
	if pubAPIKey != "" {
		clientOpts = append(clientOpts, eutils.WithAPIKey(pubAPIKey))
	}
	if pubEmail != "" {
		clientOpts = append(clientOpts, eutils.WithEmail(pubEmail))
	}
	client := eutils.NewClient(clientOpts...)

	source, err := publication.NewSource(client, pubSource)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	startedAt := time.Now()
	pipe := publication.NewPipeline(client, source)
	records, err := pipe.Run(cmd.Context(), terms, cfg.RetMax)
	if err != nil {
		if errors.Is(err, publication.ErrNoQueries) {
			exitWithError(ExitNoQueries, "%v", err)
		}
		exitWithError(ExitError, "running pipeline: %v", err)
	}
	if len(records) == 0 {
		exitWithError(ExitNoResults, "no results found for %d queries", len(terms))
	}

	fragment, err := sitehtml.Render(publication.GroupByYear(records))
	if err != nil {
		exitWithError(ExitError, "rendering: %v", err)
	}

	if pubArchivePath != "" {
		if err := archiveRun(pubArchivePath, startedAt, len(terms), records); err != nil {
			exitWithError(ExitError, "archiving run: %v", err)
		}
	}

	switch pubMode {
	case "print":
		fmt.Println(fragment)
	case "write":
		if err := os.WriteFile(pubOut, []byte(fragment+"\n"), 0644); err != nil {
			exitWithError(ExitError, "writing fragment: %v", err)
		}
		outputHuman("Wrote %d records to %s", len(records), pubOut)
	case "inject":
		updated, err := sitehtml.Inject(string(target), fragment, startedAt)
		if err != nil {
			exitWithError(ExitError, "injecting into %s: %v", pubTarget, err)
		}
		if err := os.WriteFile(pubTarget, []byte(updated), 0644); err != nil {
			exitWithError(ExitError, "writing target: %v", err)
		}
		outputHuman("Injected %d records into %s", len(records), pubTarget)
	}

	return nil
}

// archiveRun appends this run to the optional SQLite history.
func archiveRun(path string, startedAt time.Time, queryCount int, records []publication.Record) error {
	db, err := archive.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.SaveRun(startedAt, queryCount, records)
	return err
}
