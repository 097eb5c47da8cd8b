package internal

import "strconv"

// Scalar lists the types ParseValue converts to.
type Scalar interface {
	~string | ~int | ~int64 | ~float64 | ~bool
}

// QueryValue retrieves a typed query parameter. Missing or malformed
// values yield the zero value.
func QueryValue[T Scalar](r *Request, name string) T {
	v, _ := ParseValue[T](r.Query().Get(name))
	return v
}

// QueryDefault retrieves a typed query parameter with a default value.
// Returns defaultValue if the parameter is empty or cannot be parsed.
func QueryDefault[T Scalar](r *Request, name string, defaultValue T) T {
	raw := r.Query().Get(name)
	if raw == "" {
		return defaultValue
	}
	v, ok := ParseValue[T](raw)
	if !ok {
		return defaultValue
	}
	return v
}

// ParseValue converts a raw string to the target type T.
// Returns the converted value and true on success, or the zero value and false on failure.
func ParseValue[T Scalar](raw string) (T, bool) {
	var zero T
	switch any(zero).(type) {
	case string:
		return any(raw).(T), true
	case int:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return zero, false
		}
		return any(v).(T), true
	case int64:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return zero, false
		}
		return any(v).(T), true
	case float64:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return zero, false
		}
		return any(v).(T), true
	case bool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return zero, false
		}
		return any(v).(T), true
	}
	return zero, false
}
