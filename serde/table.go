package serde

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"iter"
	"strconv"
)

const (
	itemElement    = "item"
	versionElement = "prtg-version"
	errorRoot      = "prtg"
	errorElement   = "error"
)

// TableReader decodes a table envelope item by item straight off r, so the
// envelope is never buffered as a whole.
type TableReader[T any] struct {
	dec      *xml.Decoder
	schema   *TypeSchema
	strategy Strategy
	content  string
	total    int
	version  string
	done     bool
}

// NewTableReader reads the envelope's root element. A <prtg><error> document
// is returned as an *ErrorResponse.
func NewTableReader[T any](r io.Reader, s Strategy) (*TableReader[T], error) {
	schema, err := SchemaFor[T]()
	if err != nil {
		return nil, err
	}
	dec := newDecoder(r)
	start, err := nextStart(dec)
	if err != nil {
		return nil, err
	}
	if start.Name.Local == errorRoot {
		root, err := decodeElement(dec, start)
		if err != nil {
			return nil, err
		}
		if msg := root.Child(errorElement); msg != nil {
			return nil, &ErrorResponse{Message: msg.Text}
		}
		return nil, fmt.Errorf("unexpected <%s> document without a table", errorRoot)
	}

	t := &TableReader[T]{
		dec:      dec,
		schema:   schema,
		strategy: orDefault(s),
		content:  start.Name.Local,
		total:    -1,
	}
	for _, a := range start.Attr {
		if a.Name.Local != "totalcount" {
			continue
		}
		n, err := strconv.Atoi(a.Value)
		if err != nil {
			return nil, fmt.Errorf("table <%s>: invalid totalcount %q: %w", t.content, a.Value, err)
		}
		t.total = n
	}
	return t, nil
}

// Content is the root element name, e.g. "sensors".
func (t *TableReader[T]) Content() string { return t.content }

// Total is the declared totalcount, or -1 when the envelope declares none.
func (t *TableReader[T]) Total() int { return t.total }

// Version is the server version carried in the envelope. It is known once
// reading has passed the <prtg-version> element, which precedes the items.
func (t *TableReader[T]) Version() string { return t.version }

// Next decodes the next item. It returns io.EOF after the last one.
func (t *TableReader[T]) Next() (T, error) {
	var zero T
	item, err := t.nextItem()
	if err != nil {
		return zero, err
	}
	obj, err := t.strategy.Deserialize(item, t.schema)
	if err != nil {
		return zero, err
	}
	return *obj.(*T), nil
}

func (t *TableReader[T]) nextItem() (*Node, error) {
	if t.done {
		return nil, io.EOF
	}
	for {
		tok, err := t.dec.Token()
		if err != nil {
			t.done = true
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("table <%s>: %w", t.content, io.ErrUnexpectedEOF)
			}
			return nil, fmt.Errorf("table <%s>: %w", t.content, err)
		}
		switch tok := tok.(type) {
		case xml.StartElement:
			switch tok.Name.Local {
			case itemElement:
				return decodeElement(t.dec, tok)
			case versionElement:
				n, err := decodeElement(t.dec, tok)
				if err != nil {
					return nil, err
				}
				t.version = n.Text
			default:
				if err := t.dec.Skip(); err != nil {
					return nil, err
				}
			}
		case xml.EndElement:
			t.done = true
			return nil, io.EOF
		}
	}
}

// All yields the remaining items. Iteration stops after the first error.
func (t *TableReader[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			obj, err := t.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(obj, err) || err != nil {
				return
			}
		}
	}
}

// ReadTable decodes a whole envelope. total is the declared totalcount, or the
// number of items when none is declared.
func ReadTable[T any](r io.Reader, s Strategy) (items []T, total int, err error) {
	t, err := NewTableReader[T](r, s)
	if err != nil {
		return nil, 0, err
	}
	for obj, err := range t.All() {
		if err != nil {
			return nil, 0, err
		}
		items = append(items, obj)
	}
	total = t.Total()
	if total < 0 {
		total = len(items)
	}
	return items, total, nil
}

// StreamTable lazily decodes the items of an envelope. A failure to open the
// envelope is yielded as the only element.
func StreamTable[T any](r io.Reader, s Strategy) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		t, err := NewTableReader[T](r, s)
		if err != nil {
			var zero T
			yield(zero, err)
			return
		}
		t.All()(yield)
	}
}

// UpdateTable overwrites targets in place from the envelope's items, pairing
// them by position. It returns the number of targets updated.
func UpdateTable[T any](r io.Reader, targets []*T, s Strategy) (int, error) {
	t, err := NewTableReader[T](r, s)
	if err != nil {
		return 0, err
	}
	updated := 0
	for {
		item, err := t.nextItem()
		if errors.Is(err, io.EOF) {
			return updated, nil
		}
		if err != nil {
			return updated, err
		}
		if updated == len(targets) {
			return updated, ErrTooManyItems
		}
		if err := t.strategy.DeserializeExisting(item, targets[updated], t.schema); err != nil {
			return updated, err
		}
		updated++
	}
}

// DecodeDocument decodes a document whose root element is itself the item,
// such as a status response.
func DecodeDocument[T any](r io.Reader, s Strategy) (T, error) {
	var zero T
	root, err := Parse(r)
	if err != nil {
		return zero, err
	}
	if root.Name == errorRoot {
		if msg := root.Child(errorElement); msg != nil {
			return zero, &ErrorResponse{Message: msg.Text}
		}
	}
	return Decode[T](root, s)
}

func nextStart(dec *xml.Decoder) (xml.StartElement, error) {
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return xml.StartElement{}, errors.New("parse xml: document has no root element")
			}
			return xml.StartElement{}, fmt.Errorf("parse xml: %w", err)
		}
		if start, ok := tok.(xml.StartElement); ok {
			return start, nil
		}
	}
}
