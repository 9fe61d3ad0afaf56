package ui

import (
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/pterm/pterm"
)

const bannerText = `
     ╦╔═╗╔╗ ╔╗ ╔═╗╔═╗╦═╗╔╦╗
     ║║ ║╠╩╗╠╩╗║ ║╠═╣╠╦╝ ║║
    ╚╝╚═╝╚═╝╚═╝╚═╝╩ ╩╩╚══╩╝
 @fr4nk3nst1ner
`

// ColorizeText fades the text between two random colours
func ColorizeText(text string) string {
	random := rand.New(rand.NewSource(time.Now().UnixNano()))

	startColor := pterm.NewRGB(uint8(random.Intn(256)), uint8(random.Intn(256)), uint8(random.Intn(256)))
	endColor := pterm.NewRGB(uint8(random.Intn(256)), uint8(random.Intn(256)), uint8(random.Intn(256)))

	chars := strings.Split(text, "")
	steps := float32(len(chars))

	var sb strings.Builder
	for i, ch := range chars {
		sb.WriteString(startColor.Fade(0, steps, float32(i), endColor).Sprint(ch))
	}
	return sb.String()
}

// PrintBanner writes the application banner unless silenced
func PrintBanner(w io.Writer, silence bool) {
	if silence {
		return
	}
	fmt.Fprintln(w, ColorizeText(bannerText))
}
