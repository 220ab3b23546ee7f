package serde

import (
	"fmt"
	"reflect"
	"sync"
	"time"

	"golang.org/x/exp/constraints"
)

// Converter transforms a parsed wire value before it is assigned to its field.
// The raw text is parsed as Input, converted, and the result must be
// assignable to the field's type.
type Converter interface {
	Input() reflect.Type
	Output() reflect.Type
	Convert(reflect.Value) (reflect.Value, error)
}

type funcConverter[In, Out any] struct {
	fn func(In) (Out, error)
}

// NewConverter wraps fn as a Converter.
func NewConverter[In, Out any](fn func(In) (Out, error)) Converter {
	return funcConverter[In, Out]{fn: fn}
}

func (c funcConverter[In, Out]) Input() reflect.Type  { return reflect.TypeFor[In]() }
func (c funcConverter[In, Out]) Output() reflect.Type { return reflect.TypeFor[Out]() }

func (c funcConverter[In, Out]) Convert(v reflect.Value) (reflect.Value, error) {
	out, err := c.fn(v.Interface().(In))
	if err != nil {
		return reflect.Value{}, err
	}
	return reflect.ValueOf(out), nil
}

// Scale divides a raw number by divisor, e.g. ten-thousandths into percent.
func Scale[T constraints.Integer | constraints.Float](divisor float64) Converter {
	return NewConverter(func(v T) (float64, error) {
		return float64(v) / divisor, nil
	})
}

var (
	convertersMu sync.RWMutex
	converters   = map[string]Converter{
		"percent":      Scale[int64](10000),
		"milliseconds": NewConverter(func(ms int64) (time.Duration, error) { return time.Duration(ms) * time.Millisecond, nil }),
	}
)

// RegisterConverter makes c available to convert:"name" tags. Schemas already
// built are not affected.
func RegisterConverter(name string, c Converter) error {
	convertersMu.Lock()
	defer convertersMu.Unlock()
	if _, exists := converters[name]; exists {
		return fmt.Errorf("converter %q already registered", name)
	}
	converters[name] = c
	return nil
}

func lookupConverter(name string) (Converter, bool) {
	convertersMu.RLock()
	defer convertersMu.RUnlock()
	c, ok := converters[name]
	return c, ok
}
