package publisher

import (
	"github.com/erraggy/oaspublish/document"
)

// Overrides lists what ApplyOverrides changed.
type Overrides struct {
	// Operations are the operationIds whose description was replaced
	Operations []string
	// Schemas are the schema names whose description was replaced
	Schemas []string
}

// ApplyOverrides replaces curated descriptions: operations are matched by
// operationId across the document's current paths, schemas by name under
// components.schemas. Targets that are missing, or schemas that are not
// mappings, are skipped.
func ApplyOverrides(doc *document.Document, catalog *Catalog) Overrides {
	var out Overrides

	if len(catalog.OperationDescriptions) > 0 {
		for _, route := range doc.Routes() {
			for _, op := range route.Operations() {
				id := op.OperationID()
				desc, ok := catalog.OperationDescriptions[id]
				if id == "" || !ok {
					continue
				}
				op.SetDescription(desc)
				out.Operations = append(out.Operations, id)
			}
		}
	}

	schemas := doc.Components(document.KeySchemas)
	for _, name := range document.Keys(schemas) {
		desc, ok := catalog.SchemaDescriptions[name]
		if !ok {
			continue
		}
		schema := document.Lookup(schemas, name)
		if !document.IsMapping(schema) {
			continue
		}
		document.Set(schema, "description", document.NewString(desc))
		out.Schemas = append(out.Schemas, name)
	}
	return out
}
