package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/erraggy/oaspublish/document"
	"github.com/erraggy/oaspublish/internal/cliutil"
	"github.com/erraggy/oaspublish/loader"
	"github.com/erraggy/oaspublish/publisher"
	"github.com/erraggy/oaspublish/sink"
)

// PublishFlags contains flags for the publish command
type PublishFlags struct {
	Output       string
	Format       string
	ServerURL    string
	AdminTag     string
	AdminSegment string
	Catalog      string
	Quiet        bool
	Verbose      bool
	NoColor      bool
}

// SetupPublishFlags creates and configures a FlagSet for the publish command.
// Returns the FlagSet and a PublishFlags struct with bound flag variables.
// Defaults for --server-url, --admin-tag and --catalog come from the
// OASPUBLISH_SERVER_URL, OASPUBLISH_ADMIN_TAG and OASPUBLISH_CATALOG
// environment variables when set.
func SetupPublishFlags() (*flag.FlagSet, *PublishFlags) {
	fs := flag.NewFlagSet("publish", flag.ContinueOnError)
	flags := &PublishFlags{}

	fs.StringVar(&flags.Output, "o", "", "output file path (default: stdout)")
	fs.StringVar(&flags.Output, "output", "", "output file path (default: stdout)")
	fs.StringVar(&flags.Format, "format", string(document.FormatJSON), "output format: json or yaml")
	fs.StringVar(&flags.ServerURL, "server-url", envDefault(EnvServerURL, publisher.DefaultServerURL), "server URL to declare when the document has none")
	fs.StringVar(&flags.AdminTag, "admin-tag", envDefault(EnvAdminTag, publisher.DefaultAdminTag), "tag marking administrative operations")
	fs.StringVar(&flags.AdminSegment, "admin-segment", publisher.DefaultAdminPathSegment, "path substring marking administrative routes")
	fs.StringVar(&flags.Catalog, "catalog", envDefault(EnvCatalog, ""), "YAML or JSON file with curated tag, operation and schema descriptions")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: only output the document, no diagnostic messages")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: only output the document, no diagnostic messages")
	fs.BoolVar(&flags.Verbose, "v", false, "verbose mode: log every pipeline step to stderr")
	fs.BoolVar(&flags.Verbose, "verbose", false, "verbose mode: log every pipeline step to stderr")
	fs.BoolVar(&flags.NoColor, "no-color", false, "disable colored diagnostics")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: oaspublish publish [flags] <file|url|-> [destination]\n\n")
		cliutil.Writef(fs.Output(), "Prepare an internal OpenAPI document for public documentation.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nSteps:\n")
		cliutil.Writef(fs.Output(), "  1. Declare --server-url when the document has no servers\n")
		cliutil.Writef(fs.Output(), "  2. Drop routes whose path contains --admin-segment, and routes with\n")
		cliutil.Writef(fs.Output(), "     any operation tagged --admin-tag\n")
		cliutil.Writef(fs.Output(), "  3. Normalize operation tags and rebuild the top-level tags list\n")
		cliutil.Writef(fs.Output(), "  4. Apply curated operation and schema descriptions\n")
		cliutil.Writef(fs.Output(), "  5. Prune schemas and security schemes nothing references any more\n")
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  oaspublish publish https://app.aseed.ai/custdev/openapi.json api-reference/openapi.json\n")
		cliutil.Writef(fs.Output(), "  oaspublish publish -o public.yaml --format yaml openapi.json\n")
		cliutil.Writef(fs.Output(), "  cat openapi.json | oaspublish publish -q - > public.json\n")
		cliutil.Writef(fs.Output(), "  oaspublish publish --catalog catalog.yaml --admin-tag internal openapi.yaml\n")
		cliutil.Writef(fs.Output(), "\nEnvironment:\n")
		cliutil.Writef(fs.Output(), "  %s, %s, %s supply flag defaults.\n", EnvServerURL, EnvAdminTag, EnvCatalog)
		cliutil.Writef(fs.Output(), "  NO_COLOR disables colored diagnostics.\n")
		cliutil.Writef(fs.Output(), "\nExit Codes:\n")
		cliutil.Writef(fs.Output(), "  0    Document published successfully\n")
		cliutil.Writef(fs.Output(), "  1    Usage error, or the document could not be loaded or written\n")
	}

	return fs, flags
}

// HandlePublish executes the publish command
func HandlePublish(ctx context.Context, args []string) error {
	return runPublish(ctx, args, os.Stdin, os.Stdout, os.Stderr)
}

func runPublish(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs, flags := SetupPublishFlags()
	fs.SetOutput(stderr)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() < 1 || fs.NArg() > 2 {
		fs.Usage()
		return fmt.Errorf("publish command requires a file path, URL, or '-' for stdin, and at most one destination")
	}

	source := fs.Arg(0)
	dest := flags.Output
	if fs.NArg() == 2 {
		if dest != "" && dest != fs.Arg(1) {
			return fmt.Errorf("destination given twice: %q and %q", dest, fs.Arg(1))
		}
		dest = fs.Arg(1)
	}

	format, err := document.ParseFormat(flags.Format)
	if err != nil {
		return err
	}

	logger := newLogger(stderr, flags.Verbose)
	opts := []publisher.Option{
		publisher.WithDefaultServerURL(flags.ServerURL),
		publisher.WithAdminTag(flags.AdminTag),
		publisher.WithAdminPathSegment(flags.AdminSegment),
		publisher.WithLogger(logger),
	}
	if flags.Catalog != "" {
		catalog, err := publisher.LoadCatalog(flags.Catalog)
		if err != nil {
			return err
		}
		opts = append(opts, publisher.WithCatalog(catalog))
	}
	p, err := publisher.New(opts...)
	if err != nil {
		return err
	}

	loaded, err := loader.Load(ctx, source, loader.WithStdin(stdin), loader.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("loading %s: %w", FormatSourcePath(source), err)
	}

	result := p.Publish(loaded.Document)

	palette := cliutil.NewPalette(cliutil.ColorEnabled(stderr, flags.NoColor))
	if !flags.Quiet {
		writeReport(stderr, palette, result)
	}

	if err := sink.Write(result.Document, dest, sink.WithFormat(format), sink.WithStdout(stdout)); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if !flags.Quiet && dest != "" {
		cliutil.Writef(stderr, "\nOutput written to: %s\n", dest)
	}
	return nil
}

// writeReport prints one line per removal followed by the operation summary.
func writeReport(w io.Writer, palette *cliutil.Palette, result *publisher.Result) {
	for _, r := range result.Removals {
		cliutil.Writef(w, "  %s\n", palette.Removed("%s", r.String()))
	}
	for _, r := range result.WebhookRemovals {
		cliutil.Writef(w, "  %s\n", palette.Removed("%s", r.String()))
	}
	if len(result.Removals)+len(result.WebhookRemovals) > 0 {
		cliutil.Writef(w, "\n")
	}
	cliutil.Writef(w, "%s %d\n", palette.Label("Operations considered:"), result.Considered)
	cliutil.Writef(w, "%s %s\n", palette.Label("Operations retained:"), palette.Kept("%d", result.Retained))
	cliutil.Writef(w, "%s %s\n", palette.Label("Operations removed:"), palette.Removed("%d", result.Removed))
}
