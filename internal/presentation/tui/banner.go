package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner prints the supervisor banner with the build version.
func PrintBanner(version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{` _     _     _`, "#818cf8"},
		{`| |__ (_)___| |_`, "#a78bfa"},
		{`| '_ \| / _ \ __|`, "#c084fc"},
		{`| | | | | (_) | |_`, "#e879f9"},
		{`|_| |_|_|\___/\__|`, "#f472b6"},
	}

	fmt.Println()
	for _, l := range lines {
		fmt.Println(termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Println(termenv.String("  " + strings.TrimSpace(version)).Faint())
	fmt.Println()
}
