package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// SetColorForcing overrides lipgloss' detected color profile. disable wins
// over force; NO_COLOR in the environment counts as disable.
func SetColorForcing(force, disable bool) {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		disable = true
	}
	switch {
	case disable:
		lipgloss.SetColorProfile(termenv.Ascii)
	case force:
		lipgloss.SetColorProfile(termenv.ANSI256)
	}
}
