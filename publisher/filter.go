package publisher

import (
	"slices"
	"strings"

	"github.com/erraggy/oaspublish/document"
)

// RemovalReason identifies why an operation or route was dropped.
type RemovalReason string

const (
	// ReasonAdminPath indicates the route template contains the admin segment.
	ReasonAdminPath RemovalReason = "admin-path"
	// ReasonAdminTag indicates the operation carries the admin tag.
	ReasonAdminTag RemovalReason = "admin-tag"
	// ReasonRouteSuperseded indicates a non-admin operation dropped together
	// with its route because a sibling operation is administrative.
	ReasonRouteSuperseded RemovalReason = "route-superseded"
)

// Removal records a single drop made by the operation filter.
type Removal struct {
	// Path is the route template
	Path string
	// Method is the upper-cased HTTP method, empty for whole-route removals
	Method string
	// Reason is why it was removed
	Reason RemovalReason
	// Tags are the operation's tags as written in the source
	Tags []string
	// Operations is the number of operations removed by this record
	Operations int
	// Webhook is true when Path names a webhook rather than a route
	Webhook bool
}

// FilterResult is the outcome of FilterOperations.
type FilterResult struct {
	// Considered is the number of operations in the source paths
	Considered int
	// Retained is the number of operations in surviving routes
	Retained int
	// Removed is Considered minus Retained. Siblings dropped with an
	// administrative route count here too (ReasonRouteSuperseded), so this is
	// larger than the number of admin-tagged operations.
	Removed int
	// Removals lists every drop in source order
	Removals []Removal
	// TagUsage counts surviving operations per normalized tag
	TagUsage map[string]int
}

// FilterOperations removes administrative routes and operations from the
// document's paths and normalizes the tags of every surviving operation.
//
// A route is dropped entirely when its template contains adminSegment
// (case-insensitive), or when any of its operations carries adminTag after
// normalization. Non-operation entries of surviving routes are kept verbatim.
// The paths key is always written, even when nothing survives.
func FilterOperations(doc *document.Document, adminTag, adminSegment string) *FilterResult {
	adminTag = strings.ToLower(strings.TrimSpace(adminTag))
	adminSegment = strings.ToLower(adminSegment)

	res := &FilterResult{TagUsage: make(map[string]int)}
	var kept []*document.Route

	for _, route := range doc.Routes() {
		ops := route.Operations()
		res.Considered += len(ops)

		if strings.Contains(strings.ToLower(route.Path), adminSegment) {
			res.Removed += len(ops)
			res.Removals = append(res.Removals, Removal{
				Path:       route.Path,
				Reason:     ReasonAdminPath,
				Operations: len(ops),
			})
			continue
		}

		normalized, hasAdmin := screenOperations(ops, adminTag)
		if hasAdmin {
			res.Removed += len(ops)
			res.Removals = append(res.Removals, routeRemovals(route.Path, ops, normalized, adminTag, false)...)
			continue
		}

		for i, op := range ops {
			if len(normalized[i]) == 0 {
				continue
			}
			op.SetTags(normalized[i])
			for _, tag := range normalized[i] {
				res.TagUsage[tag]++
			}
		}
		res.Retained += len(ops)
		kept = append(kept, route)
	}

	doc.SetRoutes(kept)
	return res
}

// FilterWebhooks applies the administrative tag rule to the document's
// webhooks: a webhook with any admin-tagged operation is dropped entirely, and
// the surviving operations get normalized tags. Webhook names are not route
// templates, so the admin path segment does not apply. Tag usage is not
// tallied. A missing or non-mapping webhooks value is left alone.
func FilterWebhooks(doc *document.Document, adminTag string) []Removal {
	hooks := doc.Get(document.KeyWebhooks)
	if !document.IsMapping(hooks) {
		return nil
	}
	adminTag = strings.ToLower(strings.TrimSpace(adminTag))

	var removals []Removal
	kept := document.NewMapping()
	for _, hook := range webhookRoutes(doc) {
		ops := hook.Operations()
		normalized, hasAdmin := screenOperations(ops, adminTag)
		if hasAdmin {
			removals = append(removals, routeRemovals(hook.Path, ops, normalized, adminTag, true)...)
			continue
		}
		for i, op := range ops {
			if len(normalized[i]) > 0 {
				op.SetTags(normalized[i])
			}
		}
		kept.Content = append(kept.Content, document.NewString(hook.Path), hook.Node())
	}

	if len(removals) > 0 {
		doc.Set(document.KeyWebhooks, kept)
	}
	return removals
}

// screenOperations normalizes the tags of every operation and reports whether
// any of them carries adminTag.
func screenOperations(ops []*document.Operation, adminTag string) ([][]string, bool) {
	normalized := make([][]string, len(ops))
	hasAdmin := false
	for i, op := range ops {
		normalized[i] = NormalizeTags(op.Tags())
		if slices.Contains(normalized[i], adminTag) {
			hasAdmin = true
		}
	}
	return normalized, hasAdmin
}

// routeRemovals records every operation of a route dropped for its admin tag.
func routeRemovals(path string, ops []*document.Operation, normalized [][]string, adminTag string, webhook bool) []Removal {
	removals := make([]Removal, 0, len(ops))
	for i, op := range ops {
		reason := ReasonRouteSuperseded
		if slices.Contains(normalized[i], adminTag) {
			reason = ReasonAdminTag
		}
		removals = append(removals, Removal{
			Path:       path,
			Method:     strings.ToUpper(op.Method),
			Reason:     reason,
			Tags:       op.RawTags(),
			Operations: 1,
			Webhook:    webhook,
		})
	}
	return removals
}
