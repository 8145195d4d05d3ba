package publisher

import (
	"github.com/erraggy/oaspublish/document"
)

// DefaultServers sets servers to a single entry pointing at url when the
// document has no usable servers list: the key is missing, not a sequence, or
// an empty sequence. It reports whether the document was changed.
//
// An existing non-empty list is never touched, so applying it twice is the
// same as applying it once.
func DefaultServers(doc *document.Document, url string) bool {
	if len(document.Items(doc.Get(document.KeyServers))) > 0 {
		return false
	}
	doc.Set(document.KeyServers, document.NewSequence(document.NewMapping("url", url)))
	return true
}
