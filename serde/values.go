package serde

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/lordmilko/PrtgAPI-sub005/wire"
)

// lookup returns the text of the first candidate present in item. An element
// that exists but is empty counts as present. When none is present the first
// candidate is reported.
func lookup(item *Node, sources []Source) (Source, string, bool) {
	for _, src := range sources {
		switch src.Kind {
		case Element:
			if child := item.Child(src.Name); child != nil {
				return src, child.Text, true
			}
		case Attribute:
			if v, ok := item.Attr(src.Name); ok {
				return src, v, true
			}
		case Text:
			return src, item.Text, true
		}
	}
	if len(sources) == 0 {
		return Source{}, "", false
	}
	return sources[0], "", false
}

// isEmpty decides whether raw text stands for null. Strings keep surrounding
// whitespace, so only the exactly empty string is null for them.
func isEmpty(kind ValueKind, raw string) bool {
	if kind == KindString {
		return raw == ""
	}
	return strings.TrimSpace(raw) == ""
}

// parseBool accepts the usual spellings plus -1, which the server uses for true
// in a handful of legacy fields.
func parseBool(s string) (bool, error) {
	if s == "-1" {
		return true, nil
	}
	return strconv.ParseBool(s)
}

func parseEnum(e *wire.Enum, s string) (wire.Member, bool) {
	if m, ok := e.Parse(s); ok {
		return m, true
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return e.ByValue(n)
	}
	return wire.Member{}, false
}

// parseValue turns non-empty raw text into a value of p.ParseType. On failure
// the returned Kind says how to classify it.
func parseValue(p *PropertyMapping, raw string) (reflect.Value, Kind, error) {
	t := p.ParseType
	s := strings.TrimSpace(raw)
	switch p.Kind {
	case KindString:
		return reflect.ValueOf(raw).Convert(t), 0, nil
	case KindSplit:
		return reflect.ValueOf(strings.Fields(raw)), 0, nil
	case KindBool:
		b, err := parseBool(s)
		if err != nil {
			return reflect.Value{}, FormatError, err
		}
		return reflect.ValueOf(b).Convert(t), 0, nil
	case KindInt:
		n, err := strconv.ParseInt(s, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, FormatError, err
		}
		v := reflect.New(t).Elem()
		v.SetInt(n)
		return v, 0, nil
	case KindUint:
		n, err := strconv.ParseUint(s, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, FormatError, err
		}
		v := reflect.New(t).Elem()
		v.SetUint(n)
		return v, 0, nil
	case KindFloat:
		f, err := strconv.ParseFloat(s, t.Bits())
		if err != nil {
			return reflect.Value{}, FormatError, err
		}
		v := reflect.New(t).Elem()
		v.SetFloat(f)
		return v, 0, nil
	case KindTime:
		ts, err := wire.ParseOADate(s)
		if err != nil {
			return reflect.Value{}, FormatError, err
		}
		return reflect.ValueOf(ts), 0, nil
	case KindDuration:
		d, err := wire.ParseSeconds(s)
		if err != nil {
			return reflect.Value{}, FormatError, err
		}
		return reflect.ValueOf(d), 0, nil
	case KindEnum:
		m, ok := parseEnum(p.Enum, s)
		if !ok {
			return reflect.Value{}, EnumMembershipError, nil
		}
		v := reflect.New(t).Elem()
		if t.Kind() >= reflect.Uint && t.Kind() <= reflect.Uintptr {
			v.SetUint(uint64(m.Value))
		} else {
			v.SetInt(m.Value)
		}
		return v, 0, nil
	}
	return reflect.Value{}, FormatError, errors.New("unsupported value kind")
}

// convertValue applies the property's converter, if any, and adapts the result
// to the field's value type.
func convertValue(p *PropertyMapping, v reflect.Value) (reflect.Value, error) {
	if p.Converter != nil {
		out, err := p.Converter.Convert(v)
		if err != nil {
			return reflect.Value{}, err
		}
		v = out
	}
	if v.Type() != p.ValueType {
		v = v.Convert(p.ValueType)
	}
	return v, nil
}

// assign stores v into field, boxing it when the field is a pointer.
func assign(p *PropertyMapping, field, v reflect.Value) {
	if p.FieldType.Kind() == reflect.Pointer {
		ptr := reflect.New(p.ValueType)
		ptr.Elem().Set(v)
		field.Set(ptr)
		return
	}
	field.Set(v)
}

// typeName is how the target of p is named in errors.
func typeName(p *PropertyMapping) string {
	if p.Enum != nil {
		return p.Enum.Name()
	}
	return p.ParseType.String()
}

func missingError(p *PropertyMapping, src Source, item *Node) error {
	e := &ConversionError{
		Kind:     MissingValue,
		Field:    p.Field,
		Type:     typeName(p),
		Fragment: fragment(item),
	}
	if src.Name != "" || src.Kind == Text {
		e.Source = src.String()
	}
	return e
}

func conversionError(kind Kind, p *PropertyMapping, src Source, raw string, item *Node, err error) error {
	return &ConversionError{
		Kind:     kind,
		Field:    p.Field,
		Source:   src.String(),
		Raw:      raw,
		Type:     typeName(p),
		Fragment: fragment(item),
		Err:      err,
	}
}
