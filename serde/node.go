package serde

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

// Node is a parsed XML element.
type Node struct {
	Name     string
	Attrs    []xml.Attr
	Children []*Node
	// Text is the element's own character data, excluding that of its children.
	Text string
}

// Child returns the first child element called name.
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Attr returns the value of attribute name.
func (n *Node) Attr(name string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// String renders the node back to XML.
func (n *Node) String() string {
	var sb strings.Builder
	n.write(&sb)
	return sb.String()
}

func (n *Node) write(sb *strings.Builder) {
	if n == nil {
		return
	}
	sb.WriteString("<")
	sb.WriteString(n.Name)
	for _, a := range n.Attrs {
		sb.WriteString(" ")
		sb.WriteString(a.Name.Local)
		sb.WriteString(`="`)
		_ = xml.EscapeText(sb, []byte(a.Value))
		sb.WriteString(`"`)
	}
	if len(n.Children) == 0 && n.Text == "" {
		sb.WriteString("/>")
		return
	}
	sb.WriteString(">")
	_ = xml.EscapeText(sb, []byte(n.Text))
	for _, c := range n.Children {
		c.write(sb)
	}
	sb.WriteString("</")
	sb.WriteString(n.Name)
	sb.WriteString(">")
}

const maxFragmentLength = 512

// fragment is the node as quoted in error messages.
func fragment(n *Node) string {
	s := n.String()
	if len(s) > maxFragmentLength {
		return s[:maxFragmentLength] + "..."
	}
	return s
}

// Parse reads a whole document and returns its root element.
func Parse(r io.Reader) (*Node, error) {
	dec := newDecoder(r)
	start, err := nextStart(dec)
	if err != nil {
		return nil, err
	}
	return decodeElement(dec, start)
}

// ParseString is Parse for an in-memory document.
func ParseString(s string) (*Node, error) {
	return Parse(strings.NewReader(s))
}

func newDecoder(r io.Reader) *xml.Decoder {
	dec := xml.NewDecoder(r)
	// Display values regularly carry HTML entities and the odd unbalanced tag.
	dec.Strict = false
	dec.Entity = xml.HTMLEntity
	dec.AutoClose = xml.HTMLAutoClose
	dec.CharsetReader = func(label string, input io.Reader) (io.Reader, error) {
		enc, err := htmlindex.Get(label)
		if err != nil {
			return nil, fmt.Errorf("unsupported charset %q: %w", label, err)
		}
		return enc.NewDecoder().Reader(input), nil
	}
	return dec
}

// decodeElement consumes tokens up to and including the end of start.
func decodeElement(dec *xml.Decoder, start xml.StartElement) (*Node, error) {
	n := &Node{Name: start.Name.Local, Attrs: start.Attr}
	var text strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse xml element <%s>: %w", n.Name, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := decodeElement(dec, t)
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, child)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			n.Text = text.String()
			return n, nil
		}
	}
}
