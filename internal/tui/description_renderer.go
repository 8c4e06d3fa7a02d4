package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// detailMinWrap is the narrowest wrap the detail popup renders markdown at.
const detailMinWrap = 24

// descriptionRenderer turns a task description into styled terminal text.
// The glamour renderer is rebuilt lazily whenever the popup width changes.
type descriptionRenderer struct {
	wrap int
	tr   *glamour.TermRenderer
}

// render returns the description as ANSI-styled text wrapped to the popup
// width, or the raw text when styling fails.
func (r *descriptionRenderer) render(description string, width int) string {
	description = strings.TrimSpace(description)
	if description == "" {
		return ""
	}
	if width < detailMinWrap {
		width = detailMinWrap
	}
	if err := r.ensure(width); err != nil {
		return description
	}
	out, err := r.tr.Render(description)
	if err != nil {
		return description
	}
	return strings.TrimRight(out, "\n")
}

func (r *descriptionRenderer) ensure(width int) error {
	if r.tr != nil && r.wrap == width {
		return nil
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return err
	}
	r.tr = tr
	r.wrap = width
	return nil
}
