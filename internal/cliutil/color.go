package cliutil

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ColorEnabled reports whether output written to w should be colorized:
// w must be a terminal, noColor must be false, and NO_COLOR must be unset.
func ColorEnabled(w io.Writer, noColor bool) bool {
	if noColor {
		return false
	}
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Palette formats diagnostic lines. With colors disabled every function
// returns its input unchanged.
type Palette struct {
	Removed func(format string, a ...any) string
	Kept    func(format string, a ...any) string
	Label   func(format string, a ...any) string
	Error   func(format string, a ...any) string
}

// NewPalette returns a palette, colored when enabled is true.
func NewPalette(enabled bool) *Palette {
	mk := func(attrs ...color.Attribute) func(string, ...any) string {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintfFunc()
	}
	return &Palette{
		Removed: mk(color.FgYellow),
		Kept:    mk(color.FgGreen),
		Label:   mk(color.Bold),
		Error:   mk(color.FgRed, color.Bold),
	}
}
