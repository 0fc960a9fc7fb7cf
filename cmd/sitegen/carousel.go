package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/angerslab/sitegen/internal/carousel"
)

var (
	carouselDir  string
	carouselRoot string
	carouselOut  string
)

func init() {
	carouselCmd.Flags().StringVar(&carouselDir, "dir", "assets/carousel", "Directory to scan for images")
	carouselCmd.Flags().StringVar(&carouselRoot, "root", ".", "Site root the manifest paths are relative to")
	carouselCmd.Flags().StringVar(&carouselOut, "out", "", "Manifest path (default <dir>/manifest.json)")
	rootCmd.AddCommand(carouselCmd)
}

var carouselCmd = &cobra.Command{
	Use:   "carousel",
	Short: "Write the carousel image manifest",
	RunE:  runCarousel,
}

func runCarousel(cmd *cobra.Command, args []string) error {
	manifest, err := carousel.Scan(carouselDir, carouselRoot)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	out := carouselOut
	if out == "" {
		out = filepath.Join(carouselDir, "manifest.json")
	}
	if err := manifest.Write(out); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	outputHuman("Wrote %d images to %s", len(manifest.Images), out)
	return nil
}
