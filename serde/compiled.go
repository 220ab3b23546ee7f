package serde

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/lordmilko/PrtgAPI-sub005/wire"
)

// compiled builds one plan per schema on first use and replays it for every
// fragment of that type.
type compiled struct{}

// A locator finds the raw text of one property in an item.
type locator func(item *Node) (Source, string, bool)

// A storer parses raw text into a field. A non-zero Kind classifies a failure.
type storer func(raw string, field reflect.Value) (Kind, error)

type emptyAction int

const (
	emptyIsMissing emptyAction = iota
	emptyIsNull
	emptyIsBlank
)

type fieldPlan struct {
	prop          *PropertyMapping
	locate        locator
	field         func(obj reflect.Value) reflect.Value
	store         storer
	emptyKind     ValueKind
	missingIsFail bool
	onEmpty       emptyAction
}

type plan []fieldPlan

var plans memo[*TypeSchema, plan]

func planOf(schema *TypeSchema) plan {
	p, _ := plans.get(schema, func() (plan, error) {
		return compilePlan(schema), nil
	})
	return p
}

func (compiled) Deserialize(item *Node, schema *TypeSchema) (any, error) {
	ptr := reflect.New(schema.Type)
	if err := planOf(schema).run(item, ptr.Elem()); err != nil {
		return nil, err
	}
	return ptr.Interface(), nil
}

func (compiled) DeserializeExisting(item *Node, target any, schema *TypeSchema) error {
	v, err := targetValue(target, schema)
	if err != nil {
		return err
	}
	return planOf(schema).run(item, v)
}

func (pl plan) run(item *Node, obj reflect.Value) error {
	for i := range pl {
		fp := &pl[i]
		src, raw, found := fp.locate(item)
		if !found {
			if fp.missingIsFail {
				return missingError(fp.prop, src, item)
			}
			continue
		}

		field := fp.field(obj)
		if isEmpty(fp.emptyKind, raw) {
			switch fp.onEmpty {
			case emptyIsNull:
				field.SetZero()
			case emptyIsBlank:
				field.SetString("")
			default:
				return missingError(fp.prop, src, item)
			}
			continue
		}

		if kind, err := fp.store(raw, field); kind != 0 {
			return conversionError(kind, fp.prop, src, raw, item, err)
		}
	}
	return nil
}

func compilePlan(schema *TypeSchema) plan {
	pl := make(plan, 0, len(schema.Properties))
	for i := range schema.Properties {
		p := &schema.Properties[i]
		fp := fieldPlan{
			prop:          p,
			locate:        makeLocator(p.Sources),
			field:         makeFieldAccessor(p.Index),
			store:         makeStorer(p),
			emptyKind:     p.Kind,
			missingIsFail: p.Required || !(p.Nullable || p.Kind == KindString),
		}
		switch {
		case p.Required:
			fp.onEmpty = emptyIsMissing
		case p.Nullable:
			fp.onEmpty = emptyIsNull
		case p.Kind == KindString:
			fp.onEmpty = emptyIsBlank
		}
		pl = append(pl, fp)
	}
	return pl
}

func makeLocator(sources []Source) locator {
	if len(sources) != 1 {
		return func(item *Node) (Source, string, bool) {
			return lookup(item, sources)
		}
	}

	src := sources[0]
	switch src.Kind {
	case Attribute:
		return func(item *Node) (Source, string, bool) {
			v, ok := item.Attr(src.Name)
			return src, v, ok
		}
	case Text:
		return func(item *Node) (Source, string, bool) {
			return src, item.Text, true
		}
	default:
		return func(item *Node) (Source, string, bool) {
			if child := item.Child(src.Name); child != nil {
				return src, child.Text, true
			}
			return src, "", false
		}
	}
}

func makeFieldAccessor(index []int) func(reflect.Value) reflect.Value {
	if len(index) == 1 {
		idx := index[0]
		return func(obj reflect.Value) reflect.Value { return obj.Field(idx) }
	}
	return func(obj reflect.Value) reflect.Value { return obj.FieldByIndex(index) }
}

// makeStorer specializes the common direct cases. Pointers, converters and
// the rarer kinds go through the shared parse path.
func makeStorer(p *PropertyMapping) storer {
	if p.Converter != nil || p.FieldType.Kind() == reflect.Pointer {
		return genericStorer(p)
	}

	bitSize := 0
	switch p.Kind {
	case KindInt, KindUint, KindFloat:
		bitSize = p.ParseType.Bits()
	}

	switch p.Kind {
	case KindString:
		return func(raw string, field reflect.Value) (Kind, error) {
			field.SetString(raw)
			return 0, nil
		}

	case KindSplit:
		return func(raw string, field reflect.Value) (Kind, error) {
			field.Set(reflect.ValueOf(strings.Fields(raw)))
			return 0, nil
		}

	case KindBool:
		return func(raw string, field reflect.Value) (Kind, error) {
			b, err := parseBool(strings.TrimSpace(raw))
			if err != nil {
				return FormatError, err
			}
			field.SetBool(b)
			return 0, nil
		}

	case KindInt:
		return func(raw string, field reflect.Value) (Kind, error) {
			n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, bitSize)
			if err != nil {
				return FormatError, err
			}
			field.SetInt(n)
			return 0, nil
		}

	case KindUint:
		return func(raw string, field reflect.Value) (Kind, error) {
			n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, bitSize)
			if err != nil {
				return FormatError, err
			}
			field.SetUint(n)
			return 0, nil
		}

	case KindFloat:
		return func(raw string, field reflect.Value) (Kind, error) {
			f, err := strconv.ParseFloat(strings.TrimSpace(raw), bitSize)
			if err != nil {
				return FormatError, err
			}
			field.SetFloat(f)
			return 0, nil
		}

	case KindDuration:
		return func(raw string, field reflect.Value) (Kind, error) {
			d, err := wire.ParseSeconds(strings.TrimSpace(raw))
			if err != nil {
				return FormatError, err
			}
			field.SetInt(int64(d))
			return 0, nil
		}

	case KindEnum:
		enum := p.Enum
		unsigned := p.ParseType.Kind() >= reflect.Uint && p.ParseType.Kind() <= reflect.Uintptr
		return func(raw string, field reflect.Value) (Kind, error) {
			m, ok := parseEnum(enum, strings.TrimSpace(raw))
			if !ok {
				return EnumMembershipError, nil
			}
			if unsigned {
				field.SetUint(uint64(m.Value))
			} else {
				field.SetInt(m.Value)
			}
			return 0, nil
		}
	}
	return genericStorer(p)
}

func genericStorer(p *PropertyMapping) storer {
	return func(raw string, field reflect.Value) (Kind, error) {
		v, kind, err := parseValue(p, raw)
		if kind != 0 {
			return kind, err
		}
		if v, err = convertValue(p, v); err != nil {
			return FormatError, err
		}
		assign(p, field, v)
		return 0, nil
	}
}
