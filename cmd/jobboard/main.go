// Package main provides the jobboard command line: a terminal view of the
// job board and the web server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/fr4nk3nst1ner/jobboard/internal/config"
	"github.com/fr4nk3nst1ner/jobboard/internal/logging"
	"github.com/fr4nk3nst1ner/jobboard/internal/ui"
)

var (
	configPath string
	debug      bool
	noBanner   bool

	cfg    *config.Config
	logger *pterm.Logger
)

var rootCmd = &cobra.Command{
	Use:           "jobboard",
	Short:         "Job listings board with tag filters",
	Long:          "jobboard fetches job postings, caches them briefly per session and shows them as cards you can filter by tag, in the terminal or in a browser.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if debug {
			cfg.Log.Level = "debug"
		}
		logger, err = logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
		if err != nil {
			return err
		}
		ui.PrintBanner(os.Stderr, noBanner)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.yaml (default: search the usual locations)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noBanner, "nobanner", false, "Silence the banner")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
