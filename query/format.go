package query

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"time"

	"github.com/lordmilko/PrtgAPI-sub005/wire"
)

var (
	tyTime     = reflect.TypeFor[time.Time]()
	tyDuration = reflect.TypeFor[time.Duration]()
)

// formatValues renders v as wire strings. Slices contribute one string per
// element and enum values one per concrete member.
func formatValues(v any) ([]string, error) {
	if v == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	}
	if (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && rv.Type().Elem().Kind() != reflect.Uint8 {
		var out []string
		for i := range rv.Len() {
			vals, err := formatScalar(rv.Index(i))
			if err != nil {
				return nil, err
			}
			out = append(out, vals...)
		}
		return out, nil
	}
	return formatScalar(rv)
}

func formatScalar(rv reflect.Value) ([]string, error) {
	switch rv.Type() {
	case tyTime:
		return []string{wire.FormatOADate(rv.Interface().(time.Time))}, nil
	case tyDuration:
		return []string{wire.FormatSeconds(time.Duration(rv.Int()))}, nil
	}

	if e, ok := wire.EnumOf(rv.Type()); ok {
		var n int64
		if rv.CanInt() {
			n = rv.Int()
		} else {
			n = int64(rv.Uint())
		}
		members, err := e.Expand(n)
		if err != nil {
			return nil, err
		}
		out := make([]string, len(members))
		for i, m := range members {
			out[i] = m.WireValue()
		}
		return out, nil
	}

	switch rv.Kind() {
	case reflect.String:
		return []string{rv.String()}, nil
	case reflect.Bool:
		if rv.Bool() {
			return []string{"1"}, nil
		}
		return []string{"0"}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return []string{strconv.FormatInt(rv.Int(), 10)}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return []string{strconv.FormatUint(rv.Uint(), 10)}, nil
	case reflect.Float32, reflect.Float64:
		return []string{strconv.FormatFloat(rv.Float(), 'f', -1, rv.Type().Bits())}, nil
	case reflect.Interface, reflect.Pointer:
		if rv.IsNil() {
			return nil, nil
		}
		return formatValues(rv.Elem().Interface())
	}
	return []string{fmt.Sprint(rv.Interface())}, nil
}

func escape(s string) string {
	return url.QueryEscape(s)
}
