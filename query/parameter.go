package query

import (
	"fmt"
	"slices"
)

// ParameterType declares how many values a parameter takes and how they are laid out.
type ParameterType int

const (
	// SingleValue takes exactly one value.
	SingleValue ParameterType = iota
	// MultiValue joins its values with commas under one key.
	MultiValue
	// MultiParameter repeats its key once per value.
	MultiParameter
	// Custom takes CustomParameter values and emits their own names.
	Custom
)

func (t ParameterType) String() string {
	switch t {
	case SingleValue:
		return "SingleValue"
	case MultiValue:
		return "MultiValue"
	case MultiParameter:
		return "MultiParameter"
	case Custom:
		return "Custom"
	default:
		return fmt.Sprintf("ParameterType(%d)", int(t))
	}
}

// Parameter is a declared server parameter.
type Parameter struct {
	Name string
	Type ParameterType
}

var (
	Content  = Parameter{Name: "content", Type: SingleValue}
	Columns  = Parameter{Name: "columns", Type: MultiValue}
	Count    = Parameter{Name: "count", Type: SingleValue}
	Start    = Parameter{Name: "start", Type: SingleValue}
	SortBy   = Parameter{Name: "sortby", Type: SingleValue}
	Output   = Parameter{Name: "output", Type: SingleValue}
	ID       = Parameter{Name: "id", Type: MultiParameter}
	Username = Parameter{Name: "username", Type: SingleValue}
	Password = Parameter{Name: "password", Type: SingleValue}

	// Filters carries SearchFilter values. Its own name never appears in the query.
	Filters = Parameter{Name: "filter", Type: MultiParameter}

	// CustomParams carries CustomParameter values.
	CustomParams = Parameter{Name: "custom", Type: Custom}
)

// CustomParameter is a raw name/value pair passed through as is.
type CustomParameter struct {
	Name  string
	Value string
}

type entry struct {
	param Parameter
	value any
}

// ParameterSet is an ordered set of parameter values. Setting a parameter
// again replaces its value in place.
type ParameterSet struct {
	entries []entry
}

func NewParameterSet() *ParameterSet {
	return &ParameterSet{}
}

// Set assigns v to p and returns the set for chaining.
func (s *ParameterSet) Set(p Parameter, v any) *ParameterSet {
	for i := range s.entries {
		if s.entries[i].param == p {
			s.entries[i].value = v
			return s
		}
	}
	s.entries = append(s.entries, entry{param: p, value: v})
	return s
}

func (s *ParameterSet) Get(p Parameter) (any, bool) {
	for _, e := range s.entries {
		if e.param == p {
			return e.value, true
		}
	}
	return nil, false
}

func (s *ParameterSet) Delete(p Parameter) {
	s.entries = slices.DeleteFunc(s.entries, func(e entry) bool { return e.param == p })
}

func (s *ParameterSet) Len() int {
	return len(s.entries)
}

// Clone returns a copy that can be modified independently. Values are shared.
func (s *ParameterSet) Clone() *ParameterSet {
	return &ParameterSet{entries: slices.Clone(s.entries)}
}
