package surface

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"

	"github.com/fr4nk3nst1ner/jobboard/internal/render"
)

var (
	tagStyle  = pterm.NewStyle(pterm.BgLightCyan, pterm.FgBlack)
	chipStyle = pterm.NewStyle(pterm.BgCyan, pterm.FgBlack, pterm.Bold)
)

// Terminal prints the board to a writer with pterm
type Terminal struct {
	w io.Writer
}

// NewTerminal writes to w
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w}
}

// Apply prints the whole view. Terminals cannot repaint in place, so every
// call prints a full board.
func (t *Terminal) Apply(v render.View) error {
	var sb strings.Builder

	if v.FilterPanelVisible {
		chips := make([]string, 0, len(v.Chips))
		for _, chip := range v.Chips {
			chips = append(chips, chipStyle.Sprint(" "+chip.Text+" ✕ "))
		}
		sb.WriteString(pterm.Bold.Sprint("Filters: "))
		sb.WriteString(strings.Join(chips, " "))
		sb.WriteString(pterm.Gray("  [clear]"))
		sb.WriteString("\n\n")
	}

	switch {
	case v.Content.IsMessage() && v.Content.Message == render.ErrorMessage:
		sb.WriteString(pterm.Error.Sprintln(v.Content.Message))
	case v.Content.IsMessage():
		sb.WriteString(pterm.Info.Sprintln(v.Content.Message))
	default:
		for _, card := range v.Content.Cards {
			sb.WriteString(cardBox(card))
			sb.WriteString("\n")
		}
		sb.WriteString(pterm.Gray(fmt.Sprintf("Showing %s jobs", humanize.Comma(int64(len(v.Content.Cards))))))
		sb.WriteString("\n")
	}

	_, err := io.WriteString(t.w, sb.String())
	return err
}

func cardBox(c render.Card) string {
	tags := make([]string, 0, len(c.Tags))
	for _, tag := range c.Tags {
		tags = append(tags, tagStyle.Sprint(" "+tag.Text+" "))
	}

	lines := []string{
		pterm.Bold.Sprint(c.Title),
		pterm.Gray(strings.Join(c.Meta, " · ")),
	}
	if len(tags) > 0 {
		lines = append(lines, strings.Join(tags, " "))
	}
	if c.ImageSrc != "" {
		lines = append(lines, pterm.Gray(c.ImageSrc))
	}

	return pterm.DefaultBox.WithTitle(pterm.LightCyan(c.Company)).Sprint(strings.Join(lines, "\n"))
}
