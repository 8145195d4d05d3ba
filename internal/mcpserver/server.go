// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes the oaspublish pipeline as an MCP tool over stdio.
package mcpserver

import (
	"context"
	"regexp"

	oaspublish "github.com/erraggy/oaspublish"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `oaspublish MCP server: turns an internal OpenAPI document into its public form. It removes administrative routes and operations, normalizes tags, rebuilds tag metadata, applies curated descriptions, and prunes unreachable schemas and security schemes.

Configuration: All defaults are configurable via OASPUBLISH_* environment variables set in your MCP client config.

Key settings:
- OASPUBLISH_SERVER_URL: server URL declared when a document has none
- OASPUBLISH_ADMIN_TAG (default: admin): tag marking administrative operations
- OASPUBLISH_ADMIN_SEGMENT (default: /admin): path substring marking administrative routes
- OASPUBLISH_CATALOG: YAML or JSON file with curated tag, operation, and schema descriptions
- OASPUBLISH_CACHE_ENABLED (default: true): cache loaded documents per session
- OASPUBLISH_ALLOW_PRIVATE_IPS (default: false): allow URL inputs on private networks

Caching: Loaded documents are cached per session. File entries use path+mtime as key. Every call publishes a fresh copy, so the cache never observes pipeline edits.`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	if cfg.CacheEnabled {
		specCache.startSweeper(ctx, cfg.CacheSweepInterval)
	}

	server := mcp.NewServer(
		&mcp.Implementation{Name: "oaspublish", Version: oaspublish.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "publish",
		Description: "Publish an OpenAPI document for external consumers. Defaults servers when missing, removes routes under the admin path segment and routes with any admin-tagged operation, normalizes tags to trimmed lowercase, rebuilds the top-level tags list, applies curated descriptions, and prunes schemas and security schemes no longer referenced. Returns counts, removals (paginated with offset/limit), and pruned component names. Use output to write the document to a file, or include_document=true to return it inline.",
	}, handlePublish)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.RemovalLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.RemovalLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
