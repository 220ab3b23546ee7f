package query

import (
	"fmt"
	"strings"
)

// FilterOperator selects how a SearchFilter compares.
type FilterOperator int

const (
	Equals FilterOperator = iota
	NotEquals
	GreaterThan
	LessThan
	Contains
)

var operatorAffixes = map[FilterOperator][2]string{
	Equals:      {"", ""},
	NotEquals:   {"@neq(", ")"},
	GreaterThan: {"@above(", ")"},
	LessThan:    {"@below(", ")"},
	Contains:    {"@sub(", ")"},
}

func (o FilterOperator) String() string {
	switch o {
	case Equals:
		return "Equals"
	case NotEquals:
		return "NotEquals"
	case GreaterThan:
		return "GreaterThan"
	case LessThan:
		return "LessThan"
	case Contains:
		return "Contains"
	default:
		return fmt.Sprintf("FilterOperator(%d)", int(o))
	}
}

// SearchFilter restricts a table request to objects whose property matches
// Value. A slice value, an umbrella enum member or a multi-bit flag value
// produces one clause per element.
type SearchFilter struct {
	Property string
	Operator FilterOperator
	Value    any
}

func Filter(property string, op FilterOperator, value any) SearchFilter {
	return SearchFilter{Property: property, Operator: op, Value: value}
}

func (f SearchFilter) key() string {
	return "filter_" + strings.ToLower(f.Property)
}

// clauses renders the filter's value list, expanded and without repeats.
func (f SearchFilter) clauses() ([]string, error) {
	affix, ok := operatorAffixes[f.Operator]
	if !ok {
		return nil, fmt.Errorf("filter %s: unknown operator %s", f.Property, f.Operator)
	}
	values, err := formatValues(f.Value)
	if err != nil {
		return nil, fmt.Errorf("filter %s: %w", f.Property, err)
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, affix[0]+escape(v)+affix[1])
	}
	return out, nil
}

func (f SearchFilter) String() string {
	return fmt.Sprintf("%s %s %v", f.Property, f.Operator, f.Value)
}
