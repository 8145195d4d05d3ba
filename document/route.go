package document

import (
	"strings"

	"go.yaml.in/yaml/v4"
)

// httpMethods lists the path item keys that hold operations.
var httpMethods = map[string]bool{
	"get":     true,
	"put":     true,
	"post":    true,
	"delete":  true,
	"options": true,
	"head":    true,
	"patch":   true,
	"trace":   true,
	"query":   true, // OAS 3.2
}

// IsHTTPMethod reports whether key names an operation slot of a path item.
func IsHTTPMethod(key string) bool {
	return httpMethods[strings.ToLower(key)]
}

// Route is one entry of the paths object.
type Route struct {
	// Path is the route template, e.g. "/v1/users/{id}"
	Path string
	// Entries are the path item's keys in source order, each classified once.
	Entries []Entry
	// raw is the original value when the path item is not a mapping.
	raw *yaml.Node
}

// Entry is a single key of a path item.
type Entry struct {
	Key   string
	Kind  Kind
	Value *yaml.Node
	// Operation is set when Kind == KindOperation.
	Operation *Operation
}

// Operations returns the operation entries of the route in source order.
func (r *Route) Operations() []*Operation {
	var ops []*Operation
	for _, e := range r.Entries {
		if e.Kind == KindOperation {
			ops = append(ops, e.Operation)
		}
	}
	return ops
}

// Node rebuilds the path item mapping from the route's entries.
func (r *Route) Node() *yaml.Node {
	if r.raw != nil {
		return r.raw
	}
	m := NewMapping()
	for _, e := range r.Entries {
		m.Content = append(m.Content, NewString(e.Key), e.Value)
	}
	return m
}

// WithEntries returns a copy of the route holding only the given entries.
func (r *Route) WithEntries(entries []Entry) *Route {
	return &Route{Path: r.Path, Entries: entries, raw: r.raw}
}

// NewRoute classifies the entries of a path item.
// A non-mapping path item is kept verbatim with no entries.
func NewRoute(path string, item *yaml.Node) *Route {
	route := &Route{Path: path}
	m := Resolve(item)
	if m == nil || m.Kind != yaml.MappingNode {
		route.raw = item
		return route
	}
	route.Entries = make([]Entry, 0, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		key := m.Content[i].Value
		val := m.Content[i+1]
		e := Entry{Key: key, Kind: KindPassthrough, Value: val}
		if IsHTTPMethod(key) && IsMapping(val) {
			e.Kind = KindOperation
			e.Operation = &Operation{Method: strings.ToLower(key), Path: path, node: Resolve(val)}
		}
		route.Entries = append(route.Entries, e)
	}
	return route
}

// Routes classifies the document's paths in source order.
// A missing or non-mapping paths value yields no routes.
func (d *Document) Routes() []*Route {
	paths := d.Get(KeyPaths)
	if !IsMapping(paths) {
		return nil
	}
	paths = Resolve(paths)
	routes := make([]*Route, 0, len(paths.Content)/2)
	for i := 0; i+1 < len(paths.Content); i += 2 {
		routes = append(routes, NewRoute(paths.Content[i].Value, paths.Content[i+1]))
	}
	return routes
}

// SetRoutes replaces the paths object with the given routes, in order.
func (d *Document) SetRoutes(routes []*Route) {
	m := NewMapping()
	for _, r := range routes {
		m.Content = append(m.Content, NewString(r.Path), r.Node())
	}
	d.Set(KeyPaths, m)
}

// Operation is a view over an operation mapping.
type Operation struct {
	// Method is the lower-cased HTTP method
	Method string
	// Path is the owning route template
	Path string
	node *yaml.Node
}

// Node returns the underlying operation mapping.
func (o *Operation) Node() *yaml.Node {
	return o.node
}

// Tags returns the raw tag nodes. A missing or non-sequence tags field yields
// no tags.
func (o *Operation) Tags() []*yaml.Node {
	return Items(Lookup(o.node, KeyTags))
}

// RawTags returns the tag values as written in the source, for display.
func (o *Operation) RawTags() []string {
	items := o.Tags()
	out := make([]string, 0, len(items))
	for _, t := range items {
		if r := Resolve(t); r != nil && r.Kind == yaml.ScalarNode {
			out = append(out, r.Value)
		}
	}
	return out
}

// SetTags overwrites the tags field, keeping its position.
func (o *Operation) SetTags(tags []string) {
	Set(o.node, KeyTags, NewStringSequence(tags))
}

// OperationID returns the operationId, or "" if absent or not a string.
func (o *Operation) OperationID() string {
	id, _ := StringValue(Lookup(o.node, "operationId"))
	return id
}

// Description returns the description, or "".
func (o *Operation) Description() string {
	desc, _ := StringValue(Lookup(o.node, "description"))
	return desc
}

// SetDescription overwrites the description field.
func (o *Operation) SetDescription(desc string) {
	Set(o.node, "description", NewString(desc))
}

// SecuritySchemeNames returns the scheme names named by the operation's
// security requirements.
func (o *Operation) SecuritySchemeNames() []string {
	return requirementNames(Lookup(o.node, KeySecurity))
}
