package loader

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/erraggy/oaspublish/document"
)

// formatFromPath guesses the format from a file extension.
func formatFromPath(path string) document.Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return document.FormatJSON
	case ".yaml", ".yml":
		return document.FormatYAML
	default:
		return document.FormatUnknown
	}
}

// formatFromURL tries the URL path extension, then the Content-Type header.
func formatFromURL(rawURL, contentType string) document.Format {
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		if f := formatFromPath(u.Path); f != document.FormatUnknown {
			return f
		}
	}

	contentType = strings.ToLower(contentType)
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	switch strings.TrimSpace(contentType) {
	case "application/json", "application/openapi+json":
		return document.FormatJSON
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml", "application/openapi+yaml":
		return document.FormatYAML
	}
	return document.FormatUnknown
}

// IsURL reports whether locator is an http(s) URL.
func IsURL(locator string) bool {
	return strings.HasPrefix(locator, "http://") || strings.HasPrefix(locator, "https://")
}
