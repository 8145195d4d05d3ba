package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/erraggy/oaspublish/internal/cliutil"
	"github.com/erraggy/oaspublish/internal/mcpserver"
)

// SetupMCPFlags creates the FlagSet for the mcp command. It takes no flags;
// the server is configured through OASPUBLISH_* environment variables.
func SetupMCPFlags() *flag.FlagSet {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: oaspublish mcp\n\n")
		cliutil.Writef(fs.Output(), "Serve the publish pipeline as an MCP tool over stdio.\n\n")
		cliutil.Writef(fs.Output(), "Environment:\n")
		cliutil.Writef(fs.Output(), "  OASPUBLISH_SERVER_URL         server URL declared when a document has none\n")
		cliutil.Writef(fs.Output(), "  OASPUBLISH_ADMIN_TAG          tag marking administrative operations\n")
		cliutil.Writef(fs.Output(), "  OASPUBLISH_ADMIN_SEGMENT      path substring marking administrative routes\n")
		cliutil.Writef(fs.Output(), "  OASPUBLISH_CATALOG            curated descriptions file\n")
		cliutil.Writef(fs.Output(), "  OASPUBLISH_CACHE_ENABLED      cache loaded documents (default true)\n")
		cliutil.Writef(fs.Output(), "  OASPUBLISH_MAX_INLINE_SIZE    largest inline document in bytes\n")
		cliutil.Writef(fs.Output(), "  OASPUBLISH_ALLOW_PRIVATE_IPS  allow URL inputs on private networks\n")
	}
	return fs
}

// HandleMCP executes the mcp command
func HandleMCP(ctx context.Context, args []string) error {
	fs := SetupMCPFlags()
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return fmt.Errorf("mcp command takes no arguments")
	}
	return mcpserver.Run(ctx)
}
