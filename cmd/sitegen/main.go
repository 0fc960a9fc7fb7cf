// Package main provides the sitegen CLI entry point.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sitegen",
	Short: "Build tooling for the lab website",
	Long: `sitegen builds the generated parts of the lab website.

It pulls the publications list from PubMed and renders or injects it into
publications.html, aggregates press coverage from RSS feeds into news.json,
and scans the carousel directory into an image manifest. Each command runs
once, writes its output, and exits; CI invokes them on a schedule.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Version = Version
}
