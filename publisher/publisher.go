package publisher

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/erraggy/oaspublish/document"
	"github.com/erraggy/oaspublish/oaserrors"
)

// Defaults used when no option overrides them.
const (
	DefaultServerURL        = "https://app.aseed.ai/custdev"
	DefaultAdminTag         = "admin"
	DefaultAdminPathSegment = "/admin"
)

// Result contains the outcome of a publish run.
type Result struct {
	// Document is the transformed document (the same value passed to Publish)
	Document *document.Document
	// ServersDefaulted is true when the default server entry was injected
	ServersDefaulted bool
	// Considered is the number of operations found in the source paths
	Considered int
	// Retained is the number of operations that survived filtering
	Retained int
	// Removed is the number of operations dropped, including siblings of an
	// admin-tagged operation, so it can exceed the admin-tagged count
	Removed int
	// Removals lists every dropped route and operation in source order
	Removals []Removal
	// WebhookRemovals lists dropped webhook operations. They are not part of
	// the Considered, Retained and Removed counts.
	WebhookRemovals []Removal
	// TagUsage counts surviving operations per normalized tag
	TagUsage map[string]int
	// Tags is the tag metadata written to the document
	Tags []TagMetadata
	// Overrides lists the curated descriptions that were applied
	Overrides Overrides
	// PrunedSchemas are the schema names removed from components.schemas
	PrunedSchemas []string
	// PrunedSecuritySchemes are the names removed from components.securitySchemes
	PrunedSecuritySchemes []string
}

// Publisher turns a generated OpenAPI document into its published form.
// A Publisher holds no per-run state and may be reused.
type Publisher struct {
	// DefaultServerURL is injected when the document has no servers
	DefaultServerURL string
	// AdminTag marks operations to remove (compared after normalization)
	AdminTag string
	// AdminPathSegment marks routes to remove (case-insensitive substring)
	AdminPathSegment string
	// Catalog supplies curated tag and description text
	Catalog *Catalog
	// Logger receives removal records, pruned names and the run summary
	Logger Logger
}

// Option configures a Publisher.
type Option func(*Publisher) error

// New creates a Publisher with the built-in defaults, then applies opts.
func New(opts ...Option) (*Publisher, error) {
	p := &Publisher{
		DefaultServerURL: DefaultServerURL,
		AdminTag:         DefaultAdminTag,
		AdminPathSegment: DefaultAdminPathSegment,
		Catalog:          DefaultCatalog(),
		Logger:           NopLogger{},
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// WithDefaultServerURL sets the server injected into documents without one.
// The URL must be absolute.
func WithDefaultServerURL(rawURL string) Option {
	return func(p *Publisher) error {
		u, err := url.Parse(rawURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return &oaserrors.ConfigError{
				Option:  "server-url",
				Value:   rawURL,
				Message: "must be an absolute URL",
				Cause:   err,
			}
		}
		p.DefaultServerURL = rawURL
		return nil
	}
}

// WithAdminTag sets the tag that marks administrative operations.
func WithAdminTag(tag string) Option {
	return func(p *Publisher) error {
		normalized := NormalizeTagStrings([]string{tag})
		if len(normalized) == 0 {
			return &oaserrors.ConfigError{Option: "admin-tag", Value: tag, Message: "cannot be empty"}
		}
		p.AdminTag = normalized[0]
		return nil
	}
}

// WithAdminPathSegment sets the route template fragment that marks
// administrative routes, e.g. "/admin".
func WithAdminPathSegment(segment string) Option {
	return func(p *Publisher) error {
		if strings.TrimSpace(segment) == "" {
			return &oaserrors.ConfigError{Option: "admin-segment", Value: segment, Message: "cannot be empty"}
		}
		p.AdminPathSegment = segment
		return nil
	}
}

// WithCatalog replaces the built-in catalog.
func WithCatalog(c *Catalog) Option {
	return func(p *Publisher) error {
		if c == nil {
			return &oaserrors.ConfigError{Option: "catalog", Message: "catalog is nil"}
		}
		p.Catalog = c
		return nil
	}
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(l Logger) Option {
	return func(p *Publisher) error {
		if l == nil {
			l = NopLogger{}
		}
		p.Logger = l
		return nil
	}
}

// Publish runs every stage on doc, in place, and reports what changed.
// The stages never fail; any document with a mapping root is accepted.
func (p *Publisher) Publish(doc *document.Document) *Result {
	log := p.logger()
	res := &Result{Document: doc}

	res.ServersDefaulted = DefaultServers(doc, p.DefaultServerURL)
	if res.ServersDefaulted {
		log.Debug("injected default server", "url", p.DefaultServerURL)
	}

	filtered := FilterOperations(doc, p.AdminTag, p.AdminPathSegment)
	res.Considered = filtered.Considered
	res.Retained = filtered.Retained
	res.Removed = filtered.Removed
	res.Removals = filtered.Removals
	res.TagUsage = filtered.TagUsage
	for _, r := range res.Removals {
		logRemoval(log, r)
	}
	res.WebhookRemovals = FilterWebhooks(doc, p.AdminTag)
	for _, r := range res.WebhookRemovals {
		logRemoval(log, r)
	}

	res.Tags = BuildTagMetadata(res.TagUsage, p.catalog())
	doc.Set(document.KeyTags, TagsNode(res.Tags))

	res.Overrides = ApplyOverrides(doc, p.catalog())
	for _, id := range res.Overrides.Operations {
		log.Debug("overrode operation description", "operationId", id)
	}
	for _, name := range res.Overrides.Schemas {
		log.Debug("overrode schema description", "schema", name)
	}

	res.PrunedSchemas = PruneSchemas(doc)
	for _, name := range res.PrunedSchemas {
		log.Debug("pruned schema", "schema", name)
	}
	res.PrunedSecuritySchemes = PruneSecuritySchemes(doc)
	for _, name := range res.PrunedSecuritySchemes {
		log.Debug("pruned security scheme", "scheme", name)
	}

	log.Info("published document",
		"considered", res.Considered,
		"retained", res.Retained,
		"removed", res.Removed,
		"tags", len(res.Tags),
		"prunedSchemas", len(res.PrunedSchemas),
		"prunedSecuritySchemes", len(res.PrunedSecuritySchemes),
	)
	return res
}

// Publish is a convenience wrapper that builds a Publisher from opts and runs
// it on doc.
func Publish(doc *document.Document, opts ...Option) (*Result, error) {
	p, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return p.Publish(doc), nil
}

func (p *Publisher) logger() Logger {
	if p.Logger == nil {
		return NopLogger{}
	}
	return p.Logger
}

func (p *Publisher) catalog() *Catalog {
	if p.Catalog == nil {
		return &Catalog{}
	}
	return p.Catalog
}

func logRemoval(log Logger, r Removal) {
	switch r.Reason {
	case ReasonAdminPath:
		log.Info("removed route", "path", r.Path, "operations", r.Operations, "reason", string(r.Reason))
	default:
		if r.Webhook {
			log.Info("removed webhook operation", "method", r.Method, "webhook", r.Path, "tags", r.Tags, "reason", string(r.Reason))
			return
		}
		log.Info("removed operation", "method", r.Method, "path", r.Path, "tags", r.Tags, "reason", string(r.Reason))
	}
}

// String formats the removal as a single diagnostic line.
func (r Removal) String() string {
	target := r.Path
	if r.Webhook {
		target = "webhook " + r.Path
	}
	switch r.Reason {
	case ReasonAdminPath:
		return fmt.Sprintf("removed %s (%d operations): path contains the admin segment", target, r.Operations)
	case ReasonAdminTag:
		return fmt.Sprintf("removed %s %s (tags: %s)", r.Method, target, strings.Join(r.Tags, ", "))
	default:
		return fmt.Sprintf("removed %s %s: route has an administrative operation", r.Method, target)
	}
}
