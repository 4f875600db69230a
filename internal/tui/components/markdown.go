package components

import (
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/hay-kot/todos/internal/core/styles"
)

// RenderMarkdown renders md for the terminal with the active theme, wrapped
// to width. Callers fall back to the raw text on error.
func RenderMarkdown(md string, width int) (string, error) {
	style := styles.GlamourStyle()
	noMargin := uint(0)
	style.Document.Margin = &noMargin

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(max(width, 20)),
	)
	if err != nil {
		return "", err
	}

	out, err := renderer.Render(md)
	if err != nil {
		return "", err
	}
	return strings.Trim(out, "\n"), nil
}
