// Package sink renders a published document and delivers it to a file or to
// standard output.
//
// The document is rendered fully in memory before anything is written. File
// destinations are written to a temporary file in the same directory and then
// renamed into place, so a failed run never leaves a truncated document
// behind.
package sink

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/erraggy/oaspublish/document"
	"github.com/erraggy/oaspublish/oaserrors"
)

// DefaultIndent is the JSON indentation unit.
const DefaultIndent = "  "

// FileMode is the permission of newly written destination files.
const FileMode os.FileMode = 0o644

// Sink writes documents.
type Sink struct {
	// Format selects the encoding. Defaults to JSON.
	Format document.Format
	// Stdout receives the document when no destination is given.
	// Defaults to os.Stdout.
	Stdout io.Writer
}

// Option configures a Sink.
type Option func(*Sink)

// WithFormat sets the output encoding.
func WithFormat(f document.Format) Option {
	return func(s *Sink) { s.Format = f }
}

// WithStdout sets the writer used when no destination is given.
func WithStdout(w io.Writer) Option {
	return func(s *Sink) { s.Stdout = w }
}

// New creates a Sink with opts applied.
func New(opts ...Option) *Sink {
	s := &Sink{Format: document.FormatJSON}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Write is a convenience wrapper around New(opts...).Write(doc, dest).
func Write(doc *document.Document, dest string, opts ...Option) error {
	return New(opts...).Write(doc, dest)
}

// Render encodes doc in the sink's format.
func (s *Sink) Render(doc *document.Document) ([]byte, error) {
	switch s.Format {
	case document.FormatYAML:
		return doc.MarshalYAML()
	case document.FormatJSON, document.FormatUnknown, "":
		return doc.MarshalIndentJSON(DefaultIndent)
	default:
		return nil, &oaserrors.ConfigError{Option: "format", Value: string(s.Format), Message: "must be json or yaml"}
	}
}

// Write renders doc and writes it to dest, or to Stdout when dest is empty.
func (s *Sink) Write(doc *document.Document, dest string) error {
	data, err := s.Render(doc)
	if err != nil {
		var cfgErr *oaserrors.ConfigError
		if errors.As(err, &cfgErr) {
			return err
		}
		return &oaserrors.SinkError{Destination: dest, Message: "cannot encode document", Cause: err}
	}

	if dest == "" {
		w := s.Stdout
		if w == nil {
			w = os.Stdout
		}
		if _, err := w.Write(data); err != nil {
			return &oaserrors.SinkError{Message: "cannot write output", Cause: err}
		}
		return nil
	}
	return writeAtomic(dest, data)
}

// WriteFile atomically replaces dest with already rendered data.
func WriteFile(dest string, data []byte) error {
	if dest == "" {
		return &oaserrors.SinkError{Message: "no destination given"}
	}
	return writeAtomic(dest, data)
}

// checkDestination rejects destinations that a rename would silently
// replace with something else: symlinks and directories.
func checkDestination(dest string) error {
	info, err := os.Lstat(dest)
	switch {
	case err == nil:
		if info.Mode()&os.ModeSymlink != 0 {
			return &oaserrors.SinkError{Destination: dest, Message: "refusing to replace a symlink"}
		}
		if info.IsDir() {
			return &oaserrors.SinkError{Destination: dest, Message: "destination is a directory"}
		}
	case errors.Is(err, fs.ErrNotExist):
		// New file.
	default:
		return &oaserrors.SinkError{Destination: dest, Message: "cannot stat destination", Cause: err}
	}
	return nil
}

// writeAtomic writes data next to dest and renames it into place.
func writeAtomic(dest string, data []byte) (err error) {
	if err := checkDestination(dest); err != nil {
		return err
	}
	dir := filepath.Dir(dest)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return &oaserrors.SinkError{Destination: dest, Message: "cannot create temporary file", Cause: err}
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return &oaserrors.SinkError{Destination: dest, Message: "cannot write temporary file", Cause: err}
	}
	if err = tmp.Chmod(FileMode); err != nil {
		return &oaserrors.SinkError{Destination: dest, Message: "cannot set file mode", Cause: err}
	}
	if err = tmp.Close(); err != nil {
		return &oaserrors.SinkError{Destination: dest, Message: "cannot close temporary file", Cause: err}
	}
	if err = os.Rename(tmp.Name(), dest); err != nil {
		return &oaserrors.SinkError{Destination: dest, Message: "cannot replace destination", Cause: err}
	}
	return nil
}
