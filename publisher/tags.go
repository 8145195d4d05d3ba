package publisher

import (
	"slices"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/erraggy/oaspublish/document"
	"go.yaml.in/yaml/v4"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeTags canonicalizes raw operation tag nodes: non-string values are
// dropped, the rest are trimmed and lower-cased, empty results are dropped,
// and duplicates keep their first position.
func NormalizeTags(tags []*yaml.Node) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if s, ok := document.StringValue(t); ok {
			out = appendTag(out, s)
		}
	}
	return out
}

// NormalizeTagStrings is NormalizeTags for already decoded tag strings.
func NormalizeTagStrings(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, s := range tags {
		out = appendTag(out, s)
	}
	return out
}

func appendTag(out []string, raw string) []string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" || slices.Contains(out, key) {
		return out
	}
	return append(out, key)
}

// TagMetadata describes one entry of the document's top-level tags list.
type TagMetadata struct {
	Name        string
	Description string
	// DisplayName is emitted as x-displayName.
	DisplayName string
}

// BuildTagMetadata produces one entry per tag in usage. Curated tags come
// first in catalog order, then the remaining tags sorted by name.
func BuildTagMetadata(usage map[string]int, catalog *Catalog) []TagMetadata {
	tags := make([]TagMetadata, 0, len(usage))
	emitted := make(map[string]bool, len(usage))

	add := func(name string) {
		emitted[name] = true
		tags = append(tags, TagMetadata{
			Name:        name,
			Description: catalog.TagDescription(name),
			DisplayName: DisplayName(name),
		})
	}

	for _, name := range catalog.TagOrder {
		if _, used := usage[name]; used && !emitted[name] {
			add(name)
		}
	}

	rest := make([]string, 0, len(usage))
	for name := range usage {
		if !emitted[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		add(name)
	}
	return tags
}

// DisplayName turns a tag name into a human readable title:
// "project_reports" becomes "Project Reports". Underscores become spaces and
// every run of cased letters is title-cased on its own, so a letter following
// a digit or an apostrophe starts a new word ("v2api" becomes "V2Api").
func DisplayName(name string) string {
	s := strings.ReplaceAll(name, "_", " ")
	caser := cases.Title(language.Und)

	var b strings.Builder
	start := -1
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if isCased(r) {
			if start < 0 {
				start = i
			}
		} else {
			if start >= 0 {
				b.WriteString(caser.String(s[start:i]))
				start = -1
			}
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	if start >= 0 {
		b.WriteString(caser.String(s[start:]))
	}
	return b.String()
}

func isCased(r rune) bool {
	return unicode.IsUpper(r) || unicode.IsLower(r) || unicode.IsTitle(r)
}

// TagsNode renders tag metadata as the document's tags sequence.
func TagsNode(tags []TagMetadata) *yaml.Node {
	items := make([]*yaml.Node, 0, len(tags))
	for _, t := range tags {
		items = append(items, document.NewMapping(
			"name", t.Name,
			"description", t.Description,
			"x-displayName", t.DisplayName,
		))
	}
	return document.NewSequence(items...)
}
