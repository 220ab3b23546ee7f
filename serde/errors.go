package serde

import (
	"errors"
	"fmt"
)

// Kind classifies a ConversionError.
type Kind int

const (
	// MissingValue means the value was absent, or empty where null is not allowed.
	MissingValue Kind = iota + 1
	// FormatError means the text could not be parsed as the target type.
	FormatError
	// EnumMembershipError means the text named no member of the target enumeration.
	EnumMembershipError
)

func (k Kind) String() string {
	switch k {
	case MissingValue:
		return "missing value"
	case FormatError:
		return "format error"
	case EnumMembershipError:
		return "enum membership error"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

var (
	ErrMissingValue   = errors.New("missing value")
	ErrFormat         = errors.New("format error")
	ErrEnumMembership = errors.New("enum membership error")
	ErrNotAStruct     = errors.New("target is not a struct")
	ErrTooManyItems   = errors.New("response holds more items than targets")
)

// ConversionError reports a value that could not be turned into its field.
type ConversionError struct {
	Kind Kind
	// Field is the Go field being populated.
	Field string
	// Source names the candidate the raw text came from, if any.
	Source string
	// Raw is the offending text.
	Raw string
	// Type is the name of the target type.
	Type string
	// Fragment is the XML the value was read from.
	Fragment string
	Err      error
}

func (e *ConversionError) Error() string {
	switch e.Kind {
	case MissingValue:
		return fmt.Sprintf("field %s (%s): no value in %s", e.Field, e.Type, e.Fragment)
	case EnumMembershipError:
		return fmt.Sprintf("field %s: %q from <%s> is not a member of enum %s in %s", e.Field, e.Raw, e.Source, e.Type, e.Fragment)
	default:
		msg := fmt.Sprintf("field %s: cannot convert %q from <%s> to %s in %s", e.Field, e.Raw, e.Source, e.Type, e.Fragment)
		if e.Err != nil {
			msg += ": " + e.Err.Error()
		}
		return msg
	}
}

func (e *ConversionError) Is(target error) bool {
	switch target {
	case ErrMissingValue:
		return e.Kind == MissingValue
	case ErrFormat:
		return e.Kind == FormatError
	case ErrEnumMembership:
		return e.Kind == EnumMembershipError
	}
	return false
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// ConfigurationError reports a struct whose tags cannot be turned into a schema.
type ConfigurationError struct {
	Type   string
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("schema for %s: %s", e.Type, e.Reason)
	}
	return fmt.Sprintf("schema for %s: field %s: %s", e.Type, e.Field, e.Reason)
}

// ErrorResponse is the <error> element the server returns in place of data.
type ErrorResponse struct {
	Message string
}

func (e *ErrorResponse) Error() string {
	return "server returned error: " + e.Message
}

func IsConversionError(err error) bool {
	var convErr *ConversionError
	return errors.As(err, &convErr)
}

func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}
