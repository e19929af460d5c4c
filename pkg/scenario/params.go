package scenario

import (
	"fmt"
	"strconv"
)

// IntParam reads an integer parameter. YAML, JSON and CLI sources disagree on
// numeric types, so every common representation is accepted.
func IntParam(params map[string]interface{}, name string) (int, bool, error) {
	v, ok := params[name]
	if !ok || v == nil {
		return 0, false, nil
	}
	switch n := v.(type) {
	case int:
		return n, true, nil
	case int64:
		return int(n), true, nil
	case float64:
		if n != float64(int(n)) {
			return 0, true, fmt.Errorf("%s must be a whole number, got %v", name, n)
		}
		return int(n), true, nil
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, true, fmt.Errorf("%s must be an integer: %w", name, err)
		}
		return i, true, nil
	default:
		return 0, true, fmt.Errorf("%s must be an integer, got %T", name, v)
	}
}

// FloatParam reads a floating point parameter.
func FloatParam(params map[string]interface{}, name string) (float64, bool, error) {
	v, ok := params[name]
	if !ok || v == nil {
		return 0, false, nil
	}
	switch n := v.(type) {
	case float64:
		return n, true, nil
	case float32:
		return float64(n), true, nil
	case int:
		return float64(n), true, nil
	case int64:
		return float64(n), true, nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, true, fmt.Errorf("%s must be a number: %w", name, err)
		}
		return f, true, nil
	default:
		return 0, true, fmt.Errorf("%s must be a number, got %T", name, v)
	}
}
