// Package commands provides CLI command handlers for oaspublish.
package commands

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/erraggy/oaspublish/loader"
	"github.com/erraggy/oaspublish/publisher"
)

// Environment variables that supply flag defaults.
const (
	EnvServerURL = "OASPUBLISH_SERVER_URL"
	EnvAdminTag  = "OASPUBLISH_ADMIN_TAG"
	EnvCatalog   = "OASPUBLISH_CATALOG"
)

// envDefault returns the trimmed value of key, or fallback when unset or blank.
func envDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// FormatSourcePath returns a display-friendly name for a source locator.
func FormatSourcePath(locator string) string {
	if locator == loader.StdinLocator {
		return "<stdin>"
	}
	return locator
}

// newLogger returns a debug-level text logger on w when verbose is set,
// otherwise a logger that drops everything.
func newLogger(w io.Writer, verbose bool) publisher.Logger {
	if !verbose {
		return publisher.NopLogger{}
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	return publisher.NewSlogAdapter(slog.New(handler))
}
