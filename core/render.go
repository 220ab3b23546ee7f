package core

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/bndr/gotabulate"

	"github.com/lordmilko/PrtgAPI-sub005/serde"
)

const maxCellSize = 85

// RenderTable renders items as a grid with one column per schema property,
// or per named field when fields are given.
func RenderTable[T any](items []T, fields ...string) (string, error) {
	schema, err := serde.SchemaFor[T]()
	if err != nil {
		return "", err
	}
	props := selectProperties(schema, fields)
	if len(items) == 0 || len(props) == 0 {
		return "<>", nil
	}

	headers := make([]string, len(props))
	for i, p := range props {
		headers[i] = p.Field
	}
	rows := make([][]any, 0, len(items))
	for _, item := range items {
		v := reflect.Indirect(reflect.ValueOf(item))
		row := make([]any, len(props))
		for i, p := range props {
			row[i] = formatCell(v.FieldByIndex(p.Index))
		}
		rows = append(rows, row)
	}

	t := gotabulate.Create(rows)
	t.SetHeaders(headers)
	t.SetAlign("left")
	t.SetWrapStrings(true)
	t.SetMaxCellSize(maxCellSize)
	return t.Render("grid"), nil
}

// RenderObject renders one item as attribute/value rows. Unset properties are left out.
func RenderObject[T any](item T) (string, error) {
	schema, err := serde.SchemaFor[T]()
	if err != nil {
		return "", err
	}
	v := reflect.Indirect(reflect.ValueOf(item))
	var rows [][]any
	for _, p := range schema.Properties {
		cell := formatCell(v.FieldByIndex(p.Index))
		if cell == "" {
			continue
		}
		rows = append(rows, []any{p.Field, cell})
	}
	if len(rows) == 0 {
		return "<>", nil
	}
	t := gotabulate.Create(rows)
	t.SetHeaders([]string{"attr", "value"})
	t.SetAlign("left")
	t.SetWrapStrings(true)
	t.SetMaxCellSize(maxCellSize)
	return fmt.Sprintf("%s:\n%s", schema.Type.Name(), t.Render("grid")), nil
}

func selectProperties(schema *serde.TypeSchema, fields []string) []serde.PropertyMapping {
	if len(fields) == 0 {
		return schema.Properties
	}
	var out []serde.PropertyMapping
	for _, p := range schema.Properties {
		if slices.ContainsFunc(fields, func(f string) bool { return strings.EqualFold(f, p.Field) }) {
			out = append(out, p)
		}
	}
	return out
}

func formatCell(v reflect.Value) string {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return ""
		}
		return formatCell(v.Elem())
	case reflect.Slice:
		parts := make([]string, v.Len())
		for i := range parts {
			parts[i] = formatCell(v.Index(i))
		}
		return strings.Join(parts, " ")
	}
	switch val := v.Interface().(type) {
	case time.Time:
		if val.IsZero() {
			return ""
		}
		return val.Format(time.DateTime)
	case fmt.Stringer:
		return val.String()
	}
	return fmt.Sprint(v.Interface())
}
