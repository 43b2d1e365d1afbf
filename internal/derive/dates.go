// Package derive computes document fields that never exist in the source records:
// certificate validity windows, inspection schedules, service categories and stock urgency.
// Every function is pure; callers pass the reference dates explicitly.
package derive

import "time"

// AddMonths adds n months to t. The day is clamped to the last day of the target
// month, so Jan 31 + 1 month is Feb 28 (or Feb 29 on leap years), never Mar 2/3.
func AddMonths(t time.Time, n int) time.Time {
	year, month, day := t.Date()
	total := int(month) - 1 + n
	targetYear := year + floorDiv(total, 12)
	targetMonth := time.Month(total-floorDiv(total, 12)*12 + 1)
	if last := daysIn(targetYear, targetMonth); day > last {
		day = last
	}
	hour, minute, second := t.Clock()
	return time.Date(targetYear, targetMonth, day, hour, minute, second, t.Nanosecond(), t.Location())
}

// AddYears adds n years to t with the same clamping rule as AddMonths (Feb 29 + 1y = Feb 28).
func AddYears(t time.Time, n int) time.Time {
	return AddMonths(t, n*12)
}

// ResolveBaseDate returns the first candidate that is set.
func ResolveBaseDate(candidates ...*time.Time) *time.Time {
	for _, c := range candidates {
		if c != nil && !c.IsZero() {
			v := *c
			return &v
		}
	}
	return nil
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
