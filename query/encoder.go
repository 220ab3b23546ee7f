package query

import (
	"fmt"
	"strings"
)

// Credentials authenticate every request. When PassHash is set it is sent
// instead of Password.
type Credentials struct {
	Username string
	PassHash string
	Password string
}

// Encoder turns parameter sets into query strings.
type Encoder struct {
	Credentials Credentials
}

func NewEncoder(creds Credentials) *Encoder {
	return &Encoder{Credentials: creds}
}

// Encode renders the credentials followed by set's parameters in insertion
// order. Nothing is written when an error is returned.
func (e *Encoder) Encode(set *ParameterSet) (string, error) {
	var pairs []string
	add := func(key, value string) {
		pairs = append(pairs, key+"="+value)
	}

	if c := e.Credentials; c.Username != "" {
		add("username", escape(c.Username))
		if c.PassHash != "" {
			add("passhash", escape(c.PassHash))
		} else {
			add("password", escape(c.Password))
		}
	}

	if set != nil {
		for _, en := range set.entries {
			if err := encodeEntry(en.param, en.value, add); err != nil {
				return "", err
			}
		}
	}
	return strings.Join(pairs, "&"), nil
}

func encodeEntry(p Parameter, value any, add func(key, value string)) error {
	if p.Type == Custom {
		return encodeCustom(p, value, add)
	}

	switch v := value.(type) {
	case SearchFilter:
		return encodeFilters(add, v)
	case []SearchFilter:
		return encodeFilters(add, v...)
	}
	if p == Filters && value != nil {
		return &TypeMismatchError{Parameter: p.Name, Expected: "query.SearchFilter", Actual: fmt.Sprintf("%T", value)}
	}

	values, err := formatValues(value)
	if err != nil {
		return fmt.Errorf("parameter %q: %w", p.Name, err)
	}
	key := strings.ToLower(p.Name)

	switch p.Type {
	case SingleValue:
		if len(values) > 1 {
			return &ArityError{Parameter: p.Name, Arity: p.Type, Count: len(values)}
		}
		if len(values) == 1 {
			add(key, escape(values[0]))
		}
	case MultiValue:
		if len(values) == 0 {
			return nil
		}
		escaped := make([]string, len(values))
		for i, v := range values {
			escaped[i] = escape(v)
		}
		add(key, strings.Join(escaped, ","))
	case MultiParameter:
		for _, v := range values {
			add(key, escape(v))
		}
	default:
		return fmt.Errorf("parameter %q: unknown parameter type %s", p.Name, p.Type)
	}
	return nil
}

func encodeFilters(add func(key, value string), filters ...SearchFilter) error {
	for _, f := range filters {
		clauses, err := f.clauses()
		if err != nil {
			return err
		}
		for _, c := range clauses {
			add(f.key(), c)
		}
	}
	return nil
}

// encodeCustom accepts a CustomParameter, a slice of them, or nothing.
func encodeCustom(p Parameter, value any, add func(key, value string)) error {
	var customs []CustomParameter
	switch v := value.(type) {
	case nil:
	case CustomParameter:
		customs = []CustomParameter{v}
	case *CustomParameter:
		if v != nil {
			customs = []CustomParameter{*v}
		}
	case []CustomParameter:
		customs = v
	default:
		return &TypeMismatchError{
			Parameter: p.Name,
			Expected:  "query.CustomParameter or []query.CustomParameter",
			Actual:    fmt.Sprintf("%T", value),
		}
	}
	for _, c := range customs {
		add(escape(c.Name), escape(c.Value))
	}
	return nil
}
