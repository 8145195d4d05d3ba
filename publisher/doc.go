// Package publisher prepares a generated OpenAPI document for external
// documentation tooling.
//
// A run applies these stages to one document, in order:
//
//   - DefaultServers injects a server entry when servers is missing or empty.
//   - FilterOperations drops administrative routes and operations and
//     normalizes the tags of everything that survives.
//   - BuildTagMetadata replaces the top-level tags list with one entry per tag
//     still in use, curated tags first.
//   - ApplyOverrides replaces curated operation and schema descriptions.
//   - PruneSchemas and PruneSecuritySchemes drop components that nothing
//     surviving refers to.
//
// Every stage mutates the document in place and never fails. The curated text
// comes from a [Catalog]; [DefaultCatalog] holds the built-in tables and
// [LoadCatalog] reads replacements from a YAML or JSON file.
//
// # Example
//
//	p, err := publisher.New(publisher.WithAdminTag("internal"))
//	if err != nil {
//		return err
//	}
//	res := p.Publish(doc)
//	fmt.Printf("kept %d of %d operations\n", res.Retained, res.Considered)
package publisher
