package query

import "fmt"

// ArityError reports more values than a parameter's declared arity allows.
type ArityError struct {
	Parameter string
	Arity     ParameterType
	Count     int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("parameter %q is declared %s but was given %d values", e.Parameter, e.Arity, e.Count)
}

// TypeMismatchError reports a value of the wrong type for a parameter.
type TypeMismatchError struct {
	Parameter string
	Expected  string
	Actual    string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("parameter %q expects %s, got %s", e.Parameter, e.Expected, e.Actual)
}
