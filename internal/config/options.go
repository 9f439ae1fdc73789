package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Options is the configuration mapping a task runs with. Values are the
// scalars and lists produced by YAML decoding (string, bool, int, float64,
// []any). A task never mutates its Options.
type Options map[string]any

// Has reports whether key is present. A present key with an empty value
// still counts.
func (o Options) Has(key string) bool {
	_, ok := o[key]
	return ok
}

// String returns the value for key rendered as a string, or "" when absent.
func (o Options) String(key string) string {
	v, ok := o[key]
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case []any:
		return strings.Join(toStrings(val), " ")
	case []string:
		return strings.Join(val, " ")
	default:
		return fmt.Sprint(val)
	}
}

// StringOr returns the value for key, or def when the key is absent.
func (o Options) StringOr(key, def string) string {
	if !o.Has(key) {
		return def
	}
	return o.String(key)
}

// Strings returns a list value. Scalar strings are split on commas and
// whitespace so that `server_debs_extra: "redis-server, git"` and a YAML
// list behave the same.
func (o Options) Strings(key string) []string {
	v, ok := o[key]
	if !ok || v == nil {
		return nil
	}
	switch val := v.(type) {
	case []any:
		return toStrings(val)
	case []string:
		return append([]string(nil), val...)
	case string:
		return strings.FieldsFunc(val, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\n'
		})
	default:
		return []string{fmt.Sprint(val)}
	}
}

// Bool returns the boolean value for key. Strings such as "true", "yes"
// and "1" count as true; an absent key is false.
func (o Options) Bool(key string) bool {
	v, ok := o[key]
	if !ok || v == nil {
		return false
	}
	switch val := v.(type) {
	case bool:
		return val
	case int:
		return val != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "yes", "y", "on", "1":
			return true
		}
	}
	return false
}

// Int returns the integer value for key. Absent keys and values that are
// not integers are errors.
func (o Options) Int(key string) (int, error) {
	v, ok := o[key]
	if !ok {
		return 0, fmt.Errorf("option %s is not set", key)
	}
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case uint64:
		return int(val), nil
	case float64:
		if val != float64(int(val)) {
			return 0, fmt.Errorf("option %s must be an integer, got %v", key, val)
		}
		return int(val), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0, fmt.Errorf("option %s must be an integer, got %q", key, val)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("option %s must be an integer, got %T", key, v)
	}
}

// IntOr returns the integer value for key, or def when the key is absent.
func (o Options) IntOr(key string, def int) (int, error) {
	if !o.Has(key) {
		return def, nil
	}
	return o.Int(key)
}

// Keys returns the option names in sorted order.
func (o Options) Keys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Merge returns a new mapping with other layered over o.
func (o Options) Merge(other Options) Options {
	out := make(Options, len(o)+len(other))
	for k, v := range o {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

func toStrings(in []any) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		out = append(out, fmt.Sprint(v))
	}
	return out
}
