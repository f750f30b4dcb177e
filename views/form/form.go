package form

import (
	"github.com/charmbracelet/huh"
)

// Label and placeholder for the message field
const (
	Label       = "Send me something to read below!"
	Placeholder = "copy a link to something I should read"
)

// New creates the message form bound to draft. Enter submits, Alt+Enter
// inserts a newline. Empty drafts are rejected by the caller, not here.
func New(draft *string, width int) *huh.Form {
	f := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Key("message").
				Title(Label).
				Placeholder(Placeholder).
				CharLimit(280).
				Lines(3).
				Value(draft),
		),
	).
		WithTheme(huh.ThemeCatppuccin()).
		WithShowHelp(false)

	if width > 0 {
		f = f.WithWidth(width)
	}
	f.Init()
	return f
}

// Render renders the form, or a placeholder while it is not built yet
func Render(f *huh.Form) string {
	if f != nil {
		return f.View()
	}
	return "Loading form..."
}
