// Package document holds an OpenAPI description as an order-preserving node
// tree built on go.yaml.in/yaml/v4.
//
// Both JSON and YAML sources decode into the same representation. Key order of
// every mapping survives a round trip, so a published document diffs cleanly
// against its source: replaced keys keep their position and new keys are
// appended at the end of their mapping.
//
// Path items are classified once, when routes are read, into operation and
// passthrough entries (see [Kind]); later stages work on [Route], [Entry] and
// [Operation] values instead of re-inspecting node shapes.
//
// # Example
//
//	doc, err := document.Parse(data)
//	if err != nil {
//		return err
//	}
//	for _, route := range doc.Routes() {
//		for _, op := range route.Operations() {
//			fmt.Println(strings.ToUpper(op.Method), route.Path, op.OperationID())
//		}
//	}
//	out, err := doc.MarshalIndentJSON("  ")
package document
