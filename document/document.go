package document

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/erraggy/oaspublish/oaserrors"
	"go.yaml.in/yaml/v4"
)

// Format represents the serialization format of a document.
type Format string

const (
	// FormatJSON indicates JSON
	FormatJSON Format = "json"
	// FormatYAML indicates YAML
	FormatYAML Format = "yaml"
	// FormatUnknown indicates the format could not be determined
	FormatUnknown Format = "unknown"
)

// ParseFormat maps a user supplied format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return FormatUnknown, fmt.Errorf("document: invalid format %q: must be json or yaml", s)
	}
}

// DetectFormat guesses the format from content.
// JSON documents start with '{' or '['; anything else is treated as YAML.
func DetectFormat(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\n\r")
	if len(trimmed) == 0 {
		return FormatUnknown
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return FormatJSON
	}
	return FormatYAML
}

// Well-known top-level and components keys.
const (
	KeyPaths           = "paths"
	KeyComponents      = "components"
	KeyTags            = "tags"
	KeyServers         = "servers"
	KeySecurity        = "security"
	KeyWebhooks        = "webhooks"
	KeySchemas         = "schemas"
	KeySecuritySchemes = "securitySchemes"
)

// Document is an OpenAPI description held as an order-preserving node tree.
//
// The pipeline owns a Document exclusively while it runs: every stage mutates
// it in place and hands it to the next.
type Document struct {
	root *yaml.Node
}

// Parse decodes JSON or YAML bytes into a Document.
// The root must be a mapping.
func Parse(data []byte) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &oaserrors.ParseError{Message: "document is empty"}
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, &oaserrors.ParseError{Message: "not valid JSON or YAML", Cause: err}
	}
	return New(&node)
}

// New wraps an already decoded node. Document nodes are unwrapped.
func New(root *yaml.Node) (*Document, error) {
	r := Resolve(root)
	if r == nil {
		return nil, &oaserrors.ParseError{Message: "document is empty"}
	}
	if r.Kind != yaml.MappingNode {
		return nil, &oaserrors.ParseError{
			Line:    r.Line,
			Column:  r.Column,
			Message: fmt.Sprintf("root must be a mapping, got %s", kindName(r.Kind)),
		}
	}
	return &Document{root: r}, nil
}

// Root returns the root mapping node.
func (d *Document) Root() *yaml.Node {
	return d.root
}

// Get returns the top-level value stored under key, or nil.
func (d *Document) Get(key string) *yaml.Node {
	return Lookup(d.root, key)
}

// Set replaces (in place) or appends a top-level key.
func (d *Document) Set(key string, val *yaml.Node) {
	Set(d.root, key, val)
}

// Components returns the components.<section> mapping, or nil if absent or
// not a mapping.
func (d *Document) Components(section string) *yaml.Node {
	sec := Lookup(d.Get(KeyComponents), section)
	if !IsMapping(sec) {
		return nil
	}
	return Resolve(sec)
}

// Component returns the named entry of components.<section>, or nil.
func (d *Document) Component(section, name string) *yaml.Node {
	return Lookup(d.Components(section), name)
}

// SecurityRequirements returns the scheme names listed in the top-level
// security block, in order of first appearance.
func (d *Document) SecurityRequirements() []string {
	return requirementNames(d.Get(KeySecurity))
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	return &Document{root: cloneNode(d.root, nil)}
}

// requirementNames collects the keys of every mapping in a security
// requirement sequence.
func requirementNames(security *yaml.Node) []string {
	var names []string
	seen := make(map[string]bool)
	for _, req := range Items(security) {
		for _, name := range Keys(req) {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

// errCyclicAlias is returned when an alias refers to one of its own ancestors.
var errCyclicAlias = errors.New("document: cyclic alias")

// cloneNode deep-copies n, expanding aliases. Cyclic aliases collapse to null.
func cloneNode(n *yaml.Node, active map[*yaml.Node]bool) *yaml.Node {
	if n == nil {
		return nil
	}
	if n.Kind == yaml.AliasNode {
		if active == nil {
			active = make(map[*yaml.Node]bool)
		}
		if n.Alias == nil || active[n.Alias] {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
		}
		active[n.Alias] = true
		c := cloneNode(n.Alias, active)
		delete(active, n.Alias)
		c.Anchor = ""
		return c
	}
	c := *n
	c.Anchor = ""
	if len(n.Content) > 0 {
		c.Content = make([]*yaml.Node, len(n.Content))
		for i, child := range n.Content {
			c.Content[i] = cloneNode(child, active)
		}
	}
	return &c
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.MappingNode:
		return "mapping"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
