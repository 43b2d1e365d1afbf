package faes

import "strings"

// ValidateForFinalization lists every label whose value blocks finalization, in
// schema order and without duplicates. An empty result means the submission may be
// finalized. Required fields must be non-empty; required children of a repeater must
// be non-empty in every existing row, reported as "Group: Child"; a repeater with
// MinItems needs at least that many rows.
func ValidateForFinalization(schema Schema, data map[string]any) []string {
	missing := make([]string, 0)
	seen := make(map[string]struct{})
	add := func(label string) {
		if _, ok := seen[label]; ok {
			return
		}
		seen[label] = struct{}{}
		missing = append(missing, label)
	}

	for _, sec := range schema.Sections {
		for _, f := range sec.Fields {
			value := data[f.ID]
			if f.Type != FieldRepeater {
				if f.Required && IsEmpty(value) {
					add(f.DisplayLabel())
				}
				continue
			}
			rows := asRows(value)
			if (f.Required && len(rows) == 0) || len(rows) < f.MinItems {
				add(f.DisplayLabel())
			}
			for _, row := range rows {
				for _, child := range f.Fields {
					if child.Required && IsEmpty(row[child.ID]) {
						add(f.DisplayLabel() + ": " + child.DisplayLabel())
					}
				}
			}
		}
	}
	return missing
}

// IsEmpty treats nil, blank strings, empty arrays and empty objects as missing.
// false and 0 are values.
func IsEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case []any:
		return len(x) == 0
	case []string:
		return len(x) == 0
	case map[string]any:
		return len(x) == 0
	default:
		return false
	}
}
