// Package loader retrieves an OpenAPI document from a file, an http(s) URL,
// or standard input and parses it into a [document.Document].
//
// Retrieval failures are reported as *oaserrors.SourceError and parse failures
// as *oaserrors.ParseError, so callers can tell them apart with errors.Is:
//
//	res, err := loader.Load(ctx, "https://example.com/openapi.json")
//	switch {
//	case errors.Is(err, oaserrors.ErrSourceUnavailable):
//		// network or file system problem
//	case errors.Is(err, oaserrors.ErrMalformedSource):
//		// not JSON or YAML, or the root is not a mapping
//	}
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	oaspublish "github.com/erraggy/oaspublish"
	"github.com/erraggy/oaspublish/document"
	"github.com/erraggy/oaspublish/oaserrors"
	"github.com/erraggy/oaspublish/publisher"
)

// StdinLocator is the locator that reads from standard input.
const StdinLocator = "-"

// DefaultTimeout bounds URL fetches made with the default client.
const DefaultTimeout = 30 * time.Second

// Result contains a loaded document and facts about its source.
type Result struct {
	// Document is the parsed document
	Document *document.Document
	// SourcePath is the locator the document was loaded from
	SourcePath string
	// SourceFormat is the detected serialization format
	SourceFormat document.Format
	// SourceSize is the size of the raw document in bytes
	SourceSize int64
	// LoadTime is how long retrieval and parsing took
	LoadTime time.Duration
}

// Loader loads documents. The zero value is ready to use.
type Loader struct {
	// UserAgent is sent with URL fetches. Defaults to oaspublish.UserAgent().
	UserAgent string
	// HTTPClient fetches URLs. Defaults to a client with DefaultTimeout.
	HTTPClient *http.Client
	// Stdin is read for the "-" locator. Defaults to os.Stdin.
	Stdin io.Reader
	// Logger receives debug records about each load.
	Logger publisher.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithUserAgent sets the User-Agent header for URL fetches.
func WithUserAgent(ua string) Option {
	return func(l *Loader) { l.UserAgent = ua }
}

// WithHTTPClient sets the client used for URL fetches.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) { l.HTTPClient = c }
}

// WithStdin sets the reader used for the "-" locator.
func WithStdin(r io.Reader) Option {
	return func(l *Loader) { l.Stdin = r }
}

// WithLogger sets the logger.
func WithLogger(logger publisher.Logger) Option {
	return func(l *Loader) { l.Logger = logger }
}

// New creates a Loader with opts applied.
func New(opts ...Option) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load is a convenience wrapper around New(opts...).Load(ctx, locator).
func Load(ctx context.Context, locator string, opts ...Option) (*Result, error) {
	return New(opts...).Load(ctx, locator)
}

// Load retrieves and parses the document named by locator: "-" for standard
// input, an http:// or https:// URL, or a file path.
func (l *Loader) Load(ctx context.Context, locator string) (*Result, error) {
	start := time.Now()
	if locator == "" {
		return nil, &oaserrors.SourceError{Message: "no source given"}
	}

	var (
		data   []byte
		err    error
		format = document.FormatUnknown
	)
	switch {
	case locator == StdinLocator:
		data, err = l.readStdin()
	case IsURL(locator):
		var contentType string
		data, contentType, err = l.fetchURL(ctx, locator)
		format = formatFromURL(locator, contentType)
	default:
		data, err = readFile(locator)
		format = formatFromPath(locator)
	}
	if err != nil {
		return nil, err
	}

	return l.parse(data, locator, format, start)
}

// LoadBytes parses an in-memory document. name identifies it in errors and in
// the result's SourcePath.
func (l *Loader) LoadBytes(data []byte, name string) (*Result, error) {
	return l.parse(data, name, formatFromPath(name), time.Now())
}

func (l *Loader) parse(data []byte, name string, format document.Format, start time.Time) (*Result, error) {
	doc, err := document.Parse(data)
	if err != nil {
		var parseErr *oaserrors.ParseError
		if errors.As(err, &parseErr) {
			parseErr.Path = name
		}
		return nil, err
	}

	if format == "" || format == document.FormatUnknown {
		format = document.DetectFormat(data)
	}

	res := &Result{
		Document:     doc,
		SourcePath:   name,
		SourceFormat: format,
		SourceSize:   int64(len(data)),
		LoadTime:     time.Since(start),
	}
	l.log().Debug("loaded document",
		"source", name,
		"format", string(res.SourceFormat),
		"bytes", res.SourceSize,
		"elapsed", res.LoadTime,
	)
	return res, nil
}

func (l *Loader) log() publisher.Logger {
	if l.Logger == nil {
		return publisher.NopLogger{}
	}
	return l.Logger
}

func (l *Loader) readStdin() ([]byte, error) {
	r := l.Stdin
	if r == nil {
		r = os.Stdin
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &oaserrors.SourceError{Locator: StdinLocator, Message: "cannot read standard input", Cause: err}
	}
	return data, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is user-provided input
	if err != nil {
		return nil, &oaserrors.SourceError{Locator: path, Message: "cannot read file", Cause: err}
	}
	return data, nil
}

// fetchURL fetches content from a URL and returns the bytes and Content-Type
// header. Any status other than 200 is a failure.
func (l *Loader) fetchURL(ctx context.Context, rawURL string) ([]byte, string, error) {
	client := l.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", &oaserrors.SourceError{Locator: rawURL, Message: "invalid request", Cause: err}
	}
	ua := l.UserAgent
	if ua == "" {
		ua = oaspublish.UserAgent()
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.5")

	resp, err := client.Do(req) //nolint:gosec // URL is user-provided input
	if err != nil {
		return nil, "", &oaserrors.SourceError{Locator: rawURL, Message: "request failed", Cause: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, "", &oaserrors.SourceError{
			Locator:    rawURL,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unexpected status %s", resp.Status),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &oaserrors.SourceError{Locator: rawURL, Message: "cannot read response body", Cause: err}
	}
	return data, resp.Header.Get("Content-Type"), nil
}
