package derive

import (
	"fmt"
	"time"
)

// DefaultValidityYears applies when neither a day nor a year count is usable.
const DefaultValidityYears = 2

// Validity is the certificate validity window.
type Validity struct {
	Days      int
	Years     int
	Text      string
	ExpiresAt *time.Time
}

// ComputeValidity resolves the validity window from an optional base date.
// A positive day count always wins over the year count. Without a base date the
// Text is still produced and ExpiresAt stays nil.
func ComputeValidity(base *time.Time, days, years int) Validity {
	var v Validity
	switch {
	case days > 0:
		v.Days = days
		v.Text = fmt.Sprintf("%d dia(s)", days)
	case years > 0:
		v.Years = years
		v.Text = fmt.Sprintf("%d ano(s)", years)
	default:
		v.Years = DefaultValidityYears
		v.Text = fmt.Sprintf("%d ano(s)", DefaultValidityYears)
	}
	if base == nil || base.IsZero() {
		return v
	}
	var expires time.Time
	if v.Days > 0 {
		expires = base.AddDate(0, 0, v.Days)
	} else {
		expires = AddYears(*base, v.Years)
	}
	v.ExpiresAt = &expires
	return v
}
