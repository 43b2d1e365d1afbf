package printable

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Accessor reads one candidate value out of a raw payload. A nil result means the
// candidate is absent and the next accessor in the list is tried.
type Accessor func(raw map[string]any) any

// Path walks nested objects by key.
func Path(keys ...string) Accessor {
	return func(raw map[string]any) any {
		var cur any = raw
		for _, k := range keys {
			m, ok := cur.(map[string]any)
			if !ok {
				return nil
			}
			if cur, ok = m[k]; !ok {
				return nil
			}
		}
		return cur
	}
}

// Scoped expands keys under each scope, scope-major: every key of the first scope is
// tried before any key of the second. A nil scope means the payload root.
func Scoped(scopes [][]string, keys ...string) []Accessor {
	out := make([]Accessor, 0, len(scopes)*len(keys))
	for _, scope := range scopes {
		for _, k := range keys {
			path := make([]string, 0, len(scope)+1)
			path = append(path, scope...)
			out = append(out, Path(append(path, k)...))
		}
	}
	return out
}

// First returns the first non-null candidate.
func First(raw map[string]any, accessors ...Accessor) any {
	if raw == nil {
		return nil
	}
	for _, a := range accessors {
		if v := a(raw); v != nil {
			return v
		}
	}
	return nil
}

// FirstScalar is First restricted to scalar candidates: objects and arrays found at
// a probed path are skipped rather than winning the lookup.
func FirstScalar(raw map[string]any, accessors ...Accessor) any {
	if raw == nil {
		return nil
	}
	for _, a := range accessors {
		switch v := a(raw).(type) {
		case nil, map[string]any, []any:
			continue
		default:
			return v
		}
	}
	return nil
}

// FirstString returns the first scalar candidate rendered as text.
func FirstString(raw map[string]any, accessors ...Accessor) string {
	return asString(FirstScalar(raw, accessors...))
}

// FirstInt returns the first scalar candidate as an integer, 0 when not numeric.
func FirstInt(raw map[string]any, accessors ...Accessor) int64 {
	return asInt(FirstScalar(raw, accessors...))
}

// FirstFloat returns the first scalar candidate as a number, 0 when not numeric.
// Decimal commas are accepted.
func FirstFloat(raw map[string]any, accessors ...Accessor) float64 {
	return asFloat(FirstScalar(raw, accessors...))
}

// FirstTime returns the first scalar candidate parsed as a timestamp.
func FirstTime(raw map[string]any, accessors ...Accessor) *time.Time {
	return ParseTime(asString(FirstScalar(raw, accessors...)))
}

// FirstMap returns the first candidate that is an object.
func FirstMap(raw map[string]any, accessors ...Accessor) map[string]any {
	for _, a := range accessors {
		if m, ok := a(raw).(map[string]any); ok {
			return m
		}
	}
	return nil
}

// FirstSlice returns the first candidate that is an array.
func FirstSlice(raw map[string]any, accessors ...Accessor) []any {
	for _, a := range accessors {
		if s, ok := a(raw).([]any); ok {
			return s
		}
	}
	return nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006 15:04",
	"02/01/2006",
}

// ParseTime accepts the timestamp encodings seen in backend payloads. Timestamps
// without zone are kept as naive wall-clock values. Unparseable input yields nil.
func ParseTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func asString(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}

func asInt(v any) int64 {
	switch x := v.(type) {
	case float64:
		return int64(x)
	case int:
		return int64(x)
	case int64:
		return x
	case json.Number:
		n, err := x.Int64()
		if err != nil {
			f, _ := x.Float64()
			return int64(f)
		}
		return n
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func asFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case json.Number:
		f, _ := x.Float64()
		return f
	case string:
		f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(x), ",", "."), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func asMaps(items []any) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}
