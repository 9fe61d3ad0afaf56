package main

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/fr4nk3nst1ner/jobboard/internal/board"
	"github.com/fr4nk3nst1ner/jobboard/internal/render"
	"github.com/fr4nk3nst1ner/jobboard/internal/surface"
)

const quitOption = "quit"

var browseNarrow bool

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the job board interactively",
	Long:  "Shows the board and lets you click tags, remove filter chips and clear filters from a menu.",
	RunE:  runBrowse,
}

func init() {
	browseCmd.Flags().BoolVar(&browseNarrow, "narrow", false, "Only show jobs carrying every applied tag")
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	term := surface.NewTerminal(cmd.OutOrStdout())
	hook := func(v render.View) {
		if err := term.Apply(v); err != nil {
			logger.Warn("render failed", logger.Args("error", err))
		}
	}

	f, err := newFetcher(cfg, nil)
	if err != nil {
		return err
	}

	loadCtx, cancel := context.WithTimeout(cmd.Context(), loadTimeout(cfg))
	defer cancel()

	newStorage, cleanup, err := storageFactory(loadCtx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	b := boardFactory(cfg, f, browseNarrow || cfg.Display.NarrowCards, hook)(newStorage(cliSessionID()))
	if _, err := b.Init(loadCtx); err != nil {
		return err
	}

	for {
		labels, actions := menu(b)
		choice, err := pterm.DefaultInteractiveSelect.
			WithOptions(labels).
			WithDefaultText("Pick an action").
			Show()
		if err != nil {
			return fmt.Errorf("menu: %w", err)
		}
		if choice == quitOption {
			return nil
		}

		action, ok := actions[choice]
		if !ok {
			return errors.New("unknown menu choice")
		}
		if _, err := b.Dispatch(action); err != nil {
			return err
		}
	}
}

// menu lists every action the current view offers: one per tag shown on a
// card, one per filter chip, clear, and quit
func menu(b *board.Board) ([]string, map[string]render.Action) {
	view := b.View()
	actions := make(map[string]render.Action)

	seen := make(map[string]bool)
	var tags []string
	for _, card := range view.Content.Cards {
		for _, tag := range card.Tags {
			if !seen[tag.Text] {
				seen[tag.Text] = true
				tags = append(tags, tag.Text)
				actions["filter by "+tag.Text] = tag.OnActivate
			}
		}
	}
	sort.Strings(tags)

	var labels []string
	for _, tag := range tags {
		labels = append(labels, "filter by "+tag)
	}
	for _, chip := range view.Chips {
		label := "remove filter " + chip.Text
		actions[label] = chip.Remove
		labels = append(labels, label)
	}
	if view.FilterPanelVisible {
		actions["clear filters"] = render.ClearAction
		labels = append(labels, "clear filters")
	}
	return append(labels, quitOption), actions
}
