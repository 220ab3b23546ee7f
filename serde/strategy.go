package serde

import (
	"fmt"
	"reflect"
)

// Strategy materializes typed objects from item fragments. Interpreted and
// Compiled produce identical objects and identical errors for any input.
type Strategy interface {
	// Deserialize builds a new *T for the schema's type T.
	Deserialize(item *Node, schema *TypeSchema) (any, error)
	// DeserializeExisting overwrites the mapped fields of target (a *T) that
	// are present in item.
	DeserializeExisting(item *Node, target any, schema *TypeSchema) error
}

var (
	Interpreted Strategy = interpreted{}
	Compiled    Strategy = compiled{}
)

// Default is the strategy used when callers pass nil.
var Default = Interpreted

func orDefault(s Strategy) Strategy {
	if s == nil {
		return Default
	}
	return s
}

// Decode deserializes item into a new T.
func Decode[T any](item *Node, s Strategy) (T, error) {
	var zero T
	schema, err := SchemaFor[T]()
	if err != nil {
		return zero, err
	}
	obj, err := orDefault(s).Deserialize(item, schema)
	if err != nil {
		return zero, err
	}
	return *obj.(*T), nil
}

// DecodeInto updates target, which must be a non-nil pointer to a struct.
func DecodeInto(item *Node, target any, s Strategy) error {
	t := reflect.TypeOf(target)
	if t == nil || t.Kind() != reflect.Pointer {
		return &ConfigurationError{
			Type:   fmt.Sprintf("%T", target),
			Reason: fmt.Sprintf("update target must be a non-nil pointer to a struct, got %T", target),
		}
	}
	schema, err := SchemaOf(t)
	if err != nil {
		return err
	}
	return orDefault(s).DeserializeExisting(item, target, schema)
}

// targetValue checks that target is a non-nil *T for the schema's T.
func targetValue(target any, schema *TypeSchema) (reflect.Value, error) {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Type() != schema.Type {
		return reflect.Value{}, &ConfigurationError{
			Type:   schema.Type.String(),
			Reason: fmt.Sprintf("update target must be a non-nil *%s, got %T", schema.Type, target),
		}
	}
	return v.Elem(), nil
}
