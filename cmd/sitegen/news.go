package main

import (
	"github.com/spf13/cobra"

	"github.com/angerslab/sitegen/internal/news"
)

var (
	newsConfigPath string
	newsOut        string
)

func init() {
	newsCmd.Flags().StringVar(&newsConfigPath, "config", "scripts/news.yaml", "Path to the news feed configuration")
	newsCmd.Flags().StringVar(&newsOut, "out", "", "Output path (overrides the configured one)")
	rootCmd.AddCommand(newsCmd)
}

var newsCmd = &cobra.Command{
	Use:   "news",
	Short: "Aggregate press coverage from RSS feeds into news.json",
	Long: `Aggregate press coverage from the configured RSS feeds.

Items must mention the configured subject and at least one keyword.
Duplicates are dropped by canonical link, and the newest items are
written as JSON for the site's news panel.`,
	RunE: runNews,
}

func runNews(cmd *cobra.Command, args []string) error {
	cfg, err := news.LoadConfig(newsConfigPath)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	out := newsOut
	if out == "" {
		out = cfg.Output
	}
	if out == "" {
		out = "assets/data/news.json"
	}

	items, err := news.NewAggregator(cfg).Run(cmd.Context())
	if err != nil {
		exitWithError(ExitError, "aggregating news: %v", err)
	}

	if err := news.WriteJSON(out, items); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	outputHuman("Wrote %s with %d items", out, len(items))
	return nil
}
