package ops

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"main/pkg/exception"
)

// SeparatorArrayParameters splits array-valued parameters.
const SeparatorArrayParameters = ","

// Params is the raw string-keyed parameter bag of an algorithm. All typed
// access goes through the accessors below so a single validating parse step
// can fail fast with a descriptive error.
type Params map[string]string

// Float returns a required float parameter.
func (p Params) Float(key string) (float64, error) {
	raw, ok := p[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s", exception.ErrMissingParameter, key)
	}
	return parseFloat(key, raw)
}

// FloatOr returns an optional float parameter with a default.
func (p Params) FloatOr(key string, def float64) (float64, error) {
	raw, ok := p[key]
	if !ok {
		return def, nil
	}
	return parseFloat(key, raw)
}

// Int returns a required int parameter. Float-looking values are rounded,
// matching the original framework's tolerant numeric parsing.
func (p Params) Int(key string) (int, error) {
	v, err := p.Float(key)
	if err != nil {
		return 0, err
	}
	return int(math.Round(v)), nil
}

// IntOr returns an optional int parameter with a default.
func (p Params) IntOr(key string, def int) (int, error) {
	raw, ok := p[key]
	if !ok {
		return def, nil
	}
	v, err := parseFloat(key, raw)
	if err != nil {
		return 0, err
	}
	return int(math.Round(v)), nil
}

// Str returns a required string parameter.
func (p Params) Str(key string) (string, error) {
	raw, ok := p[key]
	if !ok || strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("%w: %s", exception.ErrMissingParameter, key)
	}
	return raw, nil
}

// StrOr returns an optional string parameter with a default.
func (p Params) StrOr(key, def string) string {
	raw, ok := p[key]
	if !ok || strings.TrimSpace(raw) == "" {
		return def
	}
	return raw
}

// Strs returns a required array parameter split on the separator.
func (p Params) Strs(key string) ([]string, error) {
	raw, err := p.Str(key)
	if err != nil {
		return nil, err
	}
	parts := strings.Split(raw, SeparatorArrayParameters)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, nil
}

// Floats returns a required float array parameter split on the separator.
func (p Params) Floats(key string) ([]float64, error) {
	parts, err := p.Strs(key)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(parts))
	for i, part := range parts {
		out[i], err = parseFloat(key, part)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func parseFloat(key, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", exception.ErrInvalidParameter, key, raw)
	}
	return v, nil
}
