// Package oaspublish turns an internal OpenAPI document into the document
// published for external consumers.
//
// # Overview
//
// The module is organized as a small pipeline:
//
//   - loader: read a document from a file, an http(s) URL, or standard input
//   - document: an order-preserving view over the parsed document tree
//   - publisher: the transformation stages
//   - sink: render JSON or YAML and write it atomically
//
// The publisher runs these stages in order, editing the document in place:
//
//  1. Declare a default server when the document has none.
//  2. Remove every route whose path contains the admin segment, and every
//     route with at least one operation tagged admin.
//  3. Normalize the tags of surviving operations (trimmed, lower-cased,
//     deduplicated) and rebuild the top-level tags list from their usage.
//  4. Replace selected operation and schema descriptions with curated text.
//  5. Prune schemas no surviving operation can reach, and security schemes
//     no surviving operation or top-level requirement names.
//
// # Quick Start
//
//	res, err := loader.Load(ctx, "https://app.aseed.ai/custdev/openapi.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//	result, err := publisher.Publish(res.Document)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("kept %d of %d operations\n", result.Retained, result.Considered)
//	if err := sink.Write(result.Document, "openapi-public.json"); err != nil {
//		log.Fatal(err)
//	}
//
// # Error Handling
//
// Only the edges fail. The loader returns errors matching
// oaserrors.ErrSourceUnavailable or oaserrors.ErrMalformedSource, the sink
// returns errors matching oaserrors.ErrSinkFailure, and invalid options
// return errors matching oaserrors.ErrConfig. The publisher stages accept
// any document with a mapping root and never return an error.
//
// # Command-Line Interface
//
// The oaspublish command wraps the pipeline:
//
//	oaspublish [publish] [flags] <source> [destination]
//	oaspublish mcp
//
// Diagnostics go to standard error so the published document on standard
// output stays machine readable. The mcp command serves the same pipeline
// as a Model Context Protocol tool over stdio.
package oaspublish
