package tui

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// CommandHelp is the command console keymap.
const CommandHelp = `# Command console

| key | action |
|-----|--------|
| d   | Vx++   |
| a   | Vx--   |
| s   | Vx stop |
| w   | Vz++   |
| x   | Vz--   |
| e   | Vz stop |

Ctrl-C closes the console.
`

// InspectionHelp is the inspection console keymap.
const InspectionHelp = `# Inspection console

| key | action |
|-----|--------|
| s   | STOP both axes |
| r   | RESET both axes |
| q   | quit |
`

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(72),
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}
	return r.Render
}

// PrintHelp renders a help page to stdout, falling back to the raw markdown.
func PrintHelp(markdown string) {
	out, err := NewRenderer()(markdown)
	if err != nil {
		out = markdown
	}
	fmt.Print(out)
}
