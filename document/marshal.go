package document

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	json "github.com/goccy/go-json"
	"go.yaml.in/yaml/v4"
)

// MarshalJSON renders the document as compact JSON in source key order.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	w := &jsonWriter{buf: &buf}
	if err := w.write(d.root, 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalIndentJSON renders the document as indented JSON in source key order.
//
// Non-ASCII text is written as-is and HTML characters are not escaped, so the
// output diffs cleanly and stays human readable. The output ends with a newline.
func (d *Document) MarshalIndentJSON(indent string) ([]byte, error) {
	var buf bytes.Buffer
	w := &jsonWriter{buf: &buf, indent: indent}
	if err := w.write(d.root, 0); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// MarshalYAML renders the document as block-style YAML in source key order,
// indented by two spaces. Aliases are expanded and JSON-specific styling (flow
// collections, double quotes) is dropped.
func (d *Document) MarshalYAML() ([]byte, error) {
	n := cloneNode(d.root, nil)
	plainStyle(n)
	return yaml.Dump(n, yaml.V4)
}

// jsonWriter emits a yaml.Node tree as JSON, driven by node order.
type jsonWriter struct {
	buf    *bytes.Buffer
	indent string
	// active tracks aliases being expanded to reject cycles.
	active map[*yaml.Node]bool
}

func (w *jsonWriter) newline(depth int) {
	if w.indent == "" {
		return
	}
	w.buf.WriteByte('\n')
	w.buf.WriteString(strings.Repeat(w.indent, depth))
}

func (w *jsonWriter) write(n *yaml.Node, depth int) error {
	if n == nil {
		w.buf.WriteString("null")
		return nil
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			w.buf.WriteString("null")
			return nil
		}
		return w.write(n.Content[0], depth)

	case yaml.AliasNode:
		if w.active == nil {
			w.active = make(map[*yaml.Node]bool)
		}
		if n.Alias == nil || w.active[n.Alias] {
			return fmt.Errorf("%w: *%s", errCyclicAlias, n.Value)
		}
		w.active[n.Alias] = true
		err := w.write(n.Alias, depth)
		delete(w.active, n.Alias)
		return err

	case yaml.MappingNode:
		if len(n.Content) == 0 {
			w.buf.WriteString("{}")
			return nil
		}
		w.buf.WriteByte('{')
		for i := 0; i+1 < len(n.Content); i += 2 {
			if i > 0 {
				w.buf.WriteByte(',')
			}
			w.newline(depth + 1)
			if err := w.writeString(n.Content[i].Value); err != nil {
				return err
			}
			w.buf.WriteByte(':')
			if w.indent != "" {
				w.buf.WriteByte(' ')
			}
			if err := w.write(n.Content[i+1], depth+1); err != nil {
				return err
			}
		}
		w.newline(depth)
		w.buf.WriteByte('}')
		return nil

	case yaml.SequenceNode:
		if len(n.Content) == 0 {
			w.buf.WriteString("[]")
			return nil
		}
		w.buf.WriteByte('[')
		for i, item := range n.Content {
			if i > 0 {
				w.buf.WriteByte(',')
			}
			w.newline(depth + 1)
			if err := w.write(item, depth+1); err != nil {
				return err
			}
		}
		w.newline(depth)
		w.buf.WriteByte(']')
		return nil

	default:
		return w.writeScalar(n)
	}
}

// writeScalar keeps numeric literals exactly as written in the source and
// falls back to decoding for YAML-only spellings (0x1F, .inf, yes).
func (w *jsonWriter) writeScalar(n *yaml.Node) error {
	switch n.ShortTag() {
	case "!!null":
		w.buf.WriteString("null")
		return nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return w.writeString(n.Value)
		}
		if b {
			w.buf.WriteString("true")
		} else {
			w.buf.WriteString("false")
		}
		return nil
	case "!!int", "!!float":
		if json.Valid([]byte(n.Value)) {
			w.buf.WriteString(n.Value)
			return nil
		}
		var f float64
		if err := n.Decode(&f); err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return w.writeString(n.Value)
		}
		data, err := json.MarshalWithOption(f, json.DisableHTMLEscape())
		if err != nil {
			return err
		}
		w.buf.Write(data)
		return nil
	default:
		return w.writeString(n.Value)
	}
}

func (w *jsonWriter) writeString(s string) error {
	data, err := json.MarshalWithOption(s, json.DisableHTMLEscape())
	if err != nil {
		return err
	}
	w.buf.Write(data)
	return nil
}

// plainStyle clears presentation styles inherited from a JSON source so the
// YAML encoder picks block style. Literal and folded scalars are kept.
func plainStyle(root *yaml.Node) {
	stack := []*yaml.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == nil {
			continue
		}
		if n.Style&(yaml.LiteralStyle|yaml.FoldedStyle) == 0 {
			n.Style = 0
		}
		stack = append(stack, n.Content...)
	}
}
