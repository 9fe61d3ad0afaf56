package main

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/fr4nk3nst1ner/jobboard/internal/surface"
)

var (
	showTags     []string
	showNarrow   bool
	showProgress bool
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the job board",
	Long:  "Loads the job list (from the session cache when still fresh) and prints it. Each --tag is applied as if its tag had been clicked, in order.",
	Example: `  jobboard show
  jobboard show --tag Remote --tag Full-Time
  jobboard show --tag Remote --narrow`,
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringArrayVar(&showTags, "tag", nil, "Apply a tag filter (repeatable, applied in order)")
	showCmd.Flags().BoolVar(&showNarrow, "narrow", false, "Only show jobs carrying every applied tag")
	showCmd.Flags().BoolVar(&showProgress, "progress", false, "Show a download progress bar while fetching")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), loadTimeout(cfg))
	defer cancel()

	var progress io.Writer
	if showProgress {
		progress = os.Stderr
	}
	f, err := newFetcher(cfg, progress)
	if err != nil {
		return err
	}

	newStorage, cleanup, err := storageFactory(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	b := boardFactory(cfg, f, showNarrow || cfg.Display.NarrowCards, nil)(newStorage(cliSessionID()))
	view, err := b.Init(ctx)
	if err != nil {
		return err
	}
	for _, tag := range showTags {
		view = b.AddFilter(tag)
	}

	return surface.NewTerminal(cmd.OutOrStdout()).Apply(view)
}
