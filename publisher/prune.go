package publisher

import (
	"github.com/erraggy/oaspublish/document"
)

// PruneSchemas drops every entry of components.schemas that is not reachable
// from the document's paths or webhooks and returns the dropped names in
// source order. An absent or empty schemas section is left untouched.
//
// Pruning is a fixed point: a second call removes nothing.
func PruneSchemas(doc *document.Document) []string {
	schemas := doc.Components(document.KeySchemas)
	if schemas == nil || len(schemas.Content) == 0 {
		return nil
	}
	reachable := ReachableSchemas(doc)
	return document.Filter(schemas, func(name string) bool { return reachable[name] })
}

// PruneSecuritySchemes drops every entry of components.securitySchemes that
// is not referenced (see ReferencedSecuritySchemes) and returns the dropped
// names in source order. An absent or empty section is left untouched.
func PruneSecuritySchemes(doc *document.Document) []string {
	schemes := doc.Components(document.KeySecuritySchemes)
	if schemes == nil || len(schemes.Content) == 0 {
		return nil
	}
	referenced := ReferencedSecuritySchemes(doc)
	return document.Filter(schemes, func(name string) bool { return referenced[name] })
}
