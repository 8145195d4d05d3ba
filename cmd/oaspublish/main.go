package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	oaspublish "github.com/erraggy/oaspublish"
	"github.com/erraggy/oaspublish/cmd/oaspublish/commands"
	"github.com/erraggy/oaspublish/internal/cliutil"
	"github.com/erraggy/oaspublish/loader"
)

// knownCommands lists the subcommands, in usage order.
var knownCommands = []string{"publish", "mcp", "version", "help"}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	command := os.Args[1]

	var err error
	switch command {
	case "version", "--version":
		fmt.Printf("oaspublish v%s\n\n%s\n", oaspublish.Version(), oaspublish.BuildInfo())
		return
	case "help", "-h", "--help":
		printUsage()
		return
	case "publish":
		err = commands.HandlePublish(ctx, os.Args[2:])
	case "mcp":
		err = commands.HandleMCP(ctx, os.Args[2:])
	default:
		if looksLikeSource(command) {
			err = commands.HandlePublish(ctx, os.Args[1:])
			break
		}
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		if s := suggestCommand(command); s != "" {
			fmt.Fprintf(os.Stderr, "Did you mean: %s?\n", s)
		}
		fmt.Fprintln(os.Stderr)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		palette := cliutil.NewPalette(cliutil.ColorEnabled(os.Stderr, false))
		fmt.Fprintln(os.Stderr, errorLine(palette, err))
		os.Exit(1)
	}
}

// errorLine formats a fatal command error for stderr.
func errorLine(palette *cliutil.Palette, err error) string {
	return palette.Error("Error:") + " " + err.Error()
}

// looksLikeSource reports whether arg should be handed to the default
// publish command: a flag, stdin, a URL, something path shaped, or a word
// that is not a near miss of a subcommand.
func looksLikeSource(arg string) bool {
	switch {
	case strings.HasPrefix(arg, "-"), loader.IsURL(arg):
		return true
	case strings.ContainsAny(arg, `./\`):
		return true
	}
	if _, err := os.Stat(arg); err == nil {
		return true
	}
	return suggestCommand(arg) == ""
}

// suggestCommand returns the known command closest to input, or "" when
// none is within an edit distance of 2.
func suggestCommand(input string) string {
	best, bestDist := "", 3
	for _, cmd := range knownCommands {
		if d := levenshtein(input, cmd); d < bestDist {
			best, bestDist = cmd, d
		}
	}
	return best
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `oaspublish - prepare an internal OpenAPI document for public documentation

Usage:
  oaspublish [publish] [flags] <source> [destination]
  oaspublish <command>

Commands:
  publish    Filter, normalize, and prune a document (default)
  mcp        Serve the publish pipeline as an MCP tool over stdio
  version    Show version information
  help       Show this help message

Examples:
  oaspublish https://app.aseed.ai/custdev/openapi.json api-reference/openapi.json
  oaspublish publish --format yaml openapi.json > public.yaml
  cat openapi.json | oaspublish -q - > public.json

Run 'oaspublish publish --help' for all publish flags.
`)
}
