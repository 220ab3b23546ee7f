package serde

import "reflect"

// interpreted walks the schema and the fragment together on every call.
type interpreted struct{}

func (interpreted) Deserialize(item *Node, schema *TypeSchema) (any, error) {
	ptr := reflect.New(schema.Type)
	if err := interpretInto(item, ptr.Elem(), schema); err != nil {
		return nil, err
	}
	return ptr.Interface(), nil
}

func (interpreted) DeserializeExisting(item *Node, target any, schema *TypeSchema) error {
	v, err := targetValue(target, schema)
	if err != nil {
		return err
	}
	return interpretInto(item, v, schema)
}

func interpretInto(item *Node, obj reflect.Value, schema *TypeSchema) error {
	for i := range schema.Properties {
		p := &schema.Properties[i]
		src, raw, found := lookup(item, p.Sources)
		if !found {
			// Absent optional values leave the field as it is.
			if p.Required || !(p.Nullable || p.Kind == KindString) {
				return missingError(p, src, item)
			}
			continue
		}

		field := obj.FieldByIndex(p.Index)
		if isEmpty(p.Kind, raw) {
			switch {
			case p.Required:
				return missingError(p, src, item)
			case p.Nullable:
				field.SetZero()
			case p.Kind == KindString:
				field.SetString("")
			default:
				return missingError(p, src, item)
			}
			continue
		}

		v, kind, err := parseValue(p, raw)
		if kind != 0 {
			return conversionError(kind, p, src, raw, item, err)
		}
		if v, err = convertValue(p, v); err != nil {
			return conversionError(FormatError, p, src, raw, item, err)
		}
		assign(p, field, v)
	}
	return nil
}
