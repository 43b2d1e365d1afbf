package printable

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	addressPattern    = regexp.MustCompile(`^\s*(.+),\s*([^,]+?)\s*-\s*([A-Za-z]{2})\s*,\s*(\d{5}-?\d{3})\s*$`)
	postalCodePattern = regexp.MustCompile(`\d{5}-?\d{3}`)
	statePattern      = regexp.MustCompile(`^[A-Za-z]{2}$`)
)

// ParseAddress splits "<street>, <city> - <UF>, <CEP>". Input that does not follow the
// template is split heuristically: the CEP is taken from anywhere in the string, the
// last comma segment becomes city/state and the rest is the street. It never fails;
// unknown components are empty.
func ParseAddress(address string) Address {
	if m := addressPattern.FindStringSubmatch(address); m != nil {
		return Address{
			Street:     strings.TrimSpace(m[1]),
			City:       strings.TrimSpace(m[2]),
			State:      strings.ToUpper(m[3]),
			PostalCode: m[4],
		}
	}
	return parseAddressFallback(address)
}

func parseAddressFallback(address string) Address {
	var out Address
	rest := address
	if loc := postalCodePattern.FindStringIndex(rest); loc != nil {
		out.PostalCode = rest[loc[0]:loc[1]]
		rest = rest[:loc[0]] + rest[loc[1]:]
	}
	segments := make([]string, 0, 4)
	for _, seg := range strings.Split(rest, ",") {
		if seg = strings.Trim(strings.TrimSpace(seg), "-"); strings.TrimSpace(seg) != "" {
			segments = append(segments, strings.TrimSpace(seg))
		}
	}
	if len(segments) == 0 {
		return out
	}
	if len(segments) == 1 {
		out.Street = segments[0]
		return out
	}
	out.City, out.State = splitCityState(segments[len(segments)-1])
	out.Street = strings.Join(segments[:len(segments)-1], ", ")
	return out
}

func splitCityState(s string) (string, string) {
	for _, sep := range []string{" - ", "/", "-"} {
		i := strings.LastIndex(s, sep)
		if i < 0 {
			continue
		}
		city := strings.TrimSpace(s[:i])
		state := strings.TrimSpace(s[i+len(sep):])
		if statePattern.MatchString(state) {
			return city, strings.ToUpper(state)
		}
	}
	return strings.TrimSpace(s), ""
}

// String recomposes the address with the canonical template, skipping empty parts.
func (a Address) String() string {
	if a.City != "" && a.State != "" && a.PostalCode != "" && a.Street != "" {
		return fmt.Sprintf("%s, %s - %s, %s", a.Street, a.City, a.State, a.PostalCode)
	}
	parts := make([]string, 0, 3)
	if a.Street != "" {
		parts = append(parts, a.Street)
	}
	switch {
	case a.City != "" && a.State != "":
		parts = append(parts, a.City+" - "+a.State)
	case a.City != "":
		parts = append(parts, a.City)
	case a.State != "":
		parts = append(parts, a.State)
	}
	if a.PostalCode != "" {
		parts = append(parts, a.PostalCode)
	}
	return strings.Join(parts, ", ")
}
