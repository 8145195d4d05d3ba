package publisher

import (
	"net/url"
	"strings"

	"github.com/erraggy/oaspublish/document"
	"go.yaml.in/yaml/v4"
)

// Local reference prefixes.
const (
	SchemaRefPrefix         = "#/components/schemas/"
	SecuritySchemeRefPrefix = "#/components/securitySchemes/"
	componentsRefPrefix     = "#/components/"
)

// CollectRefs returns the names targeted by every string "$ref" under root
// that starts with prefix, in discovery order without duplicates. Only the
// first pointer segment after prefix is kept, so
// "#/components/schemas/Pet/properties/id" yields "Pet".
func CollectRefs(root *yaml.Node, prefix string) []string {
	var names []string
	seen := make(map[string]bool)
	walkRefs(root, func(ref string) {
		segs := refSegments(ref, prefix)
		if len(segs) == 0 || seen[segs[0]] {
			return
		}
		seen[segs[0]] = true
		names = append(names, segs[0])
	})
	return names
}

// walkRefs calls fn with every string "$ref" value under root. Aliases are
// followed and each node is visited once, so cyclic trees terminate.
func walkRefs(root *yaml.Node, fn func(ref string)) {
	visited := make(map[*yaml.Node]bool)
	stack := []*yaml.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n = document.Resolve(n)
		if n == nil || visited[n] {
			continue
		}
		visited[n] = true

		switch n.Kind {
		case yaml.MappingNode:
			for i := 0; i+1 < len(n.Content); i += 2 {
				if n.Content[i].Value == "$ref" {
					if ref, ok := document.StringValue(n.Content[i+1]); ok {
						fn(ref)
					}
				}
			}
			// Push in reverse so children are visited in source order.
			for i := len(n.Content) - 1; i >= 1; i -= 2 {
				stack = append(stack, n.Content[i])
			}
		case yaml.SequenceNode:
			for i := len(n.Content) - 1; i >= 0; i-- {
				stack = append(stack, n.Content[i])
			}
		}
	}
}

var pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")

// refSegments splits the part of ref after prefix into decoded JSON pointer
// segments. URL-encoded refs are matched by trying the unescaped form.
func refSegments(ref, prefix string) []string {
	rest, ok := strings.CutPrefix(ref, prefix)
	if !ok {
		decoded, err := url.PathUnescape(ref)
		if err != nil {
			return nil
		}
		if rest, ok = strings.CutPrefix(decoded, prefix); !ok {
			return nil
		}
	}
	if rest == "" {
		return nil
	}

	segs := strings.Split(rest, "/")
	for i, s := range segs {
		if decoded, err := url.PathUnescape(s); err == nil {
			s = decoded
		}
		segs[i] = pointerUnescaper.Replace(s)
	}
	if segs[0] == "" {
		return nil
	}
	return segs
}

// componentKey names one entry of a components section.
type componentKey struct {
	section string
	name    string
}

// reachableComponents computes every component transitively referenced from
// the given roots, following refs through all components sections (schemas,
// responses, requestBodies, parameters, ...). Names that are referenced but
// not defined are reported as reached but not followed.
func reachableComponents(doc *document.Document, roots ...*yaml.Node) map[componentKey]bool {
	reached := make(map[componentKey]bool)
	var queue []componentKey

	scan := func(n *yaml.Node) {
		walkRefs(n, func(ref string) {
			segs := refSegments(ref, componentsRefPrefix)
			if len(segs) < 2 {
				return
			}
			k := componentKey{section: segs[0], name: segs[1]}
			if !reached[k] {
				reached[k] = true
				queue = append(queue, k)
			}
		})
	}

	for _, root := range roots {
		if root != nil {
			scan(root)
		}
	}
	for len(queue) > 0 {
		k := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		if body := doc.Component(k.section, k.name); body != nil {
			scan(body)
		}
	}
	return reached
}

// ReachableSchemas returns the names of every schema transitively reachable
// from the document's paths and webhooks.
func ReachableSchemas(doc *document.Document) map[string]bool {
	return sectionNames(reachableComponents(doc, doc.Get(document.KeyPaths), doc.Get(document.KeyWebhooks)), document.KeySchemas)
}

// ReferencedSecuritySchemes returns the names of every security scheme named
// by an operation's security requirements, by the top-level security block,
// or by a "$ref" reachable from paths and webhooks.
func ReferencedSecuritySchemes(doc *document.Document) map[string]bool {
	reached := reachableComponents(doc, doc.Get(document.KeyPaths), doc.Get(document.KeyWebhooks))
	names := sectionNames(reached, document.KeySecuritySchemes)

	for _, route := range doc.Routes() {
		for _, op := range route.Operations() {
			for _, name := range op.SecuritySchemeNames() {
				names[name] = true
			}
		}
	}
	for _, hook := range webhookRoutes(doc) {
		for _, op := range hook.Operations() {
			for _, name := range op.SecuritySchemeNames() {
				names[name] = true
			}
		}
	}
	for _, name := range doc.SecurityRequirements() {
		names[name] = true
	}
	return names
}

func sectionNames(reached map[componentKey]bool, section string) map[string]bool {
	names := make(map[string]bool)
	for k := range reached {
		if k.section == section {
			names[k.name] = true
		}
	}
	return names
}

func webhookRoutes(doc *document.Document) []*document.Route {
	hooks := doc.Get(document.KeyWebhooks)
	var routes []*document.Route
	for _, name := range document.Keys(hooks) {
		routes = append(routes, document.NewRoute(name, document.Lookup(hooks, name)))
	}
	return routes
}
