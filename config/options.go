package config

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Options is a flat set of named option values as decoded from YAML:
// numbers are int or float64, flags bool, names string, lists []any.
type Options map[string]any

func optionError(name, format string, args ...any) error {
	return errors.Mark(
		errors.Newf("option %q: %s", name, fmt.Sprintf(format, args...)),
		ErrOption)
}

// Has reports whether name was given
func (o Options) Has(name string) bool {
	_, ok := o[name]
	return ok
}

// Float returns the numeric option name, or def when it is absent
func (o Options) Float(name string, def float64) (float64, error) {
	v, ok := o[name]
	if !ok {
		return def, nil
	}
	switch x := v.(type) {
	case float64:
		return x, nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	default:
		return 0, optionError(name, "expected a number, got %T", v)
	}
}

// Bool returns the flag option name, or def when it is absent
func (o Options) Bool(name string, def bool) (bool, error) {
	v, ok := o[name]
	if !ok {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, optionError(name, "expected a boolean, got %T", v)
	}
	return b, nil
}

// String returns the string option name, or def when it is absent
func (o Options) String(name, def string) (string, error) {
	v, ok := o[name]
	if !ok {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", optionError(name, "expected a string, got %T", v)
	}
	return s, nil
}

// RequiredString returns the non-empty string option name
func (o Options) RequiredString(name string) (string, error) {
	if !o.Has(name) {
		return "", optionError(name, "required")
	}
	s, err := o.String(name, "")
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", optionError(name, "must not be empty")
	}
	return s, nil
}

// Strings returns the list option name. A single string is a one-element list.
func (o Options) Strings(name string) ([]string, error) {
	v, ok := o[name]
	if !ok {
		return nil, nil
	}
	switch x := v.(type) {
	case string:
		return []string{x}, nil
	case []string:
		return x, nil
	case []any:
		out := make([]string, len(x))
		for i, e := range x {
			s, ok := e.(string)
			if !ok {
				return nil, optionError(name, "element %d: expected a string, got %T", i, e)
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, optionError(name, "expected a list of strings, got %T", v)
	}
}
