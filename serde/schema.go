package serde

import (
	"fmt"
	"reflect"
	"strings"
	"sync/atomic"
	"time"

	"github.com/lordmilko/PrtgAPI-sub005/wire"
)

// SourceKind tells where in an item a candidate value lives.
type SourceKind int

const (
	Element SourceKind = iota
	Attribute
	Text
)

// Source is one candidate location for a property's raw text.
type Source struct {
	Kind SourceKind
	Name string
}

func (s Source) String() string {
	switch s.Kind {
	case Attribute:
		return "@" + s.Name
	case Text:
		return "#text"
	default:
		return s.Name
	}
}

// ValueKind is the shape raw text is parsed into.
type ValueKind int

const (
	KindString ValueKind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindTime
	KindDuration
	KindEnum
	KindSplit
)

// PropertyMapping binds one struct field to its candidate sources.
type PropertyMapping struct {
	Field string
	Index []int
	// FieldType is the declared field type, ValueType the same with any pointer removed.
	FieldType reflect.Type
	ValueType reflect.Type
	// ParseType is what the raw text is parsed into: ValueType, or the
	// converter's input type.
	ParseType     reflect.Type
	Kind          ValueKind
	Sources       []Source
	Enum          *wire.Enum
	Converter     Converter
	ConverterName string
	Nullable      bool
	Required      bool
}

// TypeSchema is the immutable mapping description of one struct type.
type TypeSchema struct {
	Type       reflect.Type
	Properties []PropertyMapping
}

// Columns lists the server field names to request for the type: element
// sources with the _raw suffix removed, in declaration order, without repeats.
func (s *TypeSchema) Columns() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range s.Properties {
		for _, src := range p.Sources {
			if src.Kind != Element {
				continue
			}
			name := strings.TrimSuffix(src.Name, "_raw")
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}

var (
	schemas      memo[reflect.Type, *TypeSchema]
	schemaBuilds atomic.Int64

	tyTime     = reflect.TypeFor[time.Time]()
	tyDuration = reflect.TypeFor[time.Duration]()
	tyStrings  = reflect.TypeFor[[]string]()
)

// SchemaOf returns the cached schema of t (or of what t points to), building it
// on first use.
func SchemaOf(t reflect.Type) (*TypeSchema, error) {
	if t == nil {
		return nil, &ConfigurationError{Type: "<nil>", Reason: "no type"}
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return schemas.get(t, func() (*TypeSchema, error) {
		return buildSchema(t)
	})
}

// SchemaFor is SchemaOf for a type parameter.
func SchemaFor[T any]() (*TypeSchema, error) {
	return SchemaOf(reflect.TypeFor[T]())
}

func buildSchema(t reflect.Type) (*TypeSchema, error) {
	schemaBuilds.Add(1)
	if t.Kind() != reflect.Struct {
		return nil, &ConfigurationError{Type: t.String(), Reason: ErrNotAStruct.Error()}
	}
	schema := &TypeSchema{Type: t}
	if err := collectProperties(t, t, nil, schema); err != nil {
		return nil, err
	}
	if err := checkConflicts(schema); err != nil {
		return nil, err
	}
	return schema, nil
}

// collectProperties walks fields depth first, expanding untagged embedded
// structs in place.
func collectProperties(root, t reflect.Type, parent []int, schema *TypeSchema) error {
	for i := range t.NumField() {
		fi := t.Field(i)
		tag, tagged := fi.Tag.Lookup("prtg")
		index := append(parent[:len(parent):len(parent)], fi.Index...)

		if fi.Anonymous && !tagged {
			if fi.Type.Kind() == reflect.Struct {
				if err := collectProperties(root, fi.Type, index, schema); err != nil {
					return err
				}
			}
			continue
		}
		if !fi.IsExported() || !tagged || tag == "" || tag == "-" {
			continue
		}

		prop, err := buildProperty(root, fi, tag)
		if err != nil {
			return err
		}
		prop.Index = index
		schema.Properties = append(schema.Properties, prop)
	}
	return nil
}

func buildProperty(root reflect.Type, fi reflect.StructField, tag string) (PropertyMapping, error) {
	cfgErr := func(format string, args ...any) error {
		return &ConfigurationError{Type: root.String(), Field: fi.Name, Reason: fmt.Sprintf(format, args...)}
	}

	prop := PropertyMapping{
		Field:     fi.Name,
		FieldType: fi.Type,
		ValueType: fi.Type,
		Required:  fi.Tag.Get("required") == "true",
	}
	for _, name := range strings.Split(tag, ",") {
		name = strings.TrimSpace(name)
		switch {
		case name == "":
			return prop, cfgErr("empty source name in tag %q", tag)
		case name == "#text":
			prop.Sources = append(prop.Sources, Source{Kind: Text})
		case strings.HasPrefix(name, "@"):
			prop.Sources = append(prop.Sources, Source{Kind: Attribute, Name: name[1:]})
		default:
			prop.Sources = append(prop.Sources, Source{Kind: Element, Name: name})
		}
	}

	if fi.Type.Kind() == reflect.Pointer {
		prop.ValueType = fi.Type.Elem()
		prop.Nullable = true
	}

	if fi.Tag.Get("split") == "true" {
		if fi.Type != tyStrings {
			return prop, cfgErr("split requires a []string field, got %s", fi.Type)
		}
		prop.Kind = KindSplit
		prop.ParseType = tyStrings
		prop.Nullable = true
		if fi.Tag.Get("convert") != "" {
			return prop, cfgErr("split fields cannot declare a converter")
		}
		return prop, nil
	}

	prop.ParseType = prop.ValueType
	if name := fi.Tag.Get("convert"); name != "" {
		conv, ok := lookupConverter(name)
		if !ok {
			return prop, cfgErr("unknown converter %q", name)
		}
		if !conv.Output().AssignableTo(prop.ValueType) {
			return prop, cfgErr("converter %q produces %s, not assignable to %s", name, conv.Output(), prop.ValueType)
		}
		prop.Converter = conv
		prop.ConverterName = name
		prop.ParseType = conv.Input()
	}

	kind, ok := kindOf(prop.ParseType)
	if !ok {
		return prop, cfgErr("unsupported type %s", prop.ParseType)
	}
	prop.Kind = kind
	if kind == KindInt || kind == KindUint {
		if e, isEnum := wire.EnumOf(prop.ParseType); isEnum {
			prop.Kind = KindEnum
			prop.Enum = e
		}
	}
	return prop, nil
}

func kindOf(t reflect.Type) (ValueKind, bool) {
	switch t {
	case tyTime:
		return KindTime, true
	case tyDuration:
		return KindDuration, true
	}
	switch t.Kind() {
	case reflect.String:
		return KindString, true
	case reflect.Bool:
		return KindBool, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return KindInt, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindUint, true
	case reflect.Float32, reflect.Float64:
		return KindFloat, true
	}
	return 0, false
}

// checkConflicts rejects two properties reading the same source with different
// conversion semantics.
func checkConflicts(schema *TypeSchema) error {
	type claim struct {
		field     string
		semantics string
	}
	claims := make(map[Source]claim)
	for _, p := range schema.Properties {
		semantics := fmt.Sprintf("%d/%s/%s", p.Kind, p.ParseType, p.ConverterName)
		for _, src := range p.Sources {
			prev, ok := claims[src]
			if !ok {
				claims[src] = claim{field: p.Field, semantics: semantics}
				continue
			}
			if prev.semantics != semantics {
				return &ConfigurationError{
					Type:   schema.Type.String(),
					Field:  p.Field,
					Reason: fmt.Sprintf("source %s is also read by %s with different conversion semantics", src, prev.field),
				}
			}
		}
	}
	return nil
}
