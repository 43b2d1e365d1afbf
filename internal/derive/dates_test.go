package derive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddMonthsClampsMonthEnd(t *testing.T) {
	tests := []struct {
		name     string
		base     time.Time
		months   int
		expected time.Time
	}{
		{"leap february", date(2024, time.January, 31), 1, date(2024, time.February, 29)},
		{"common february", date(2023, time.January, 31), 1, date(2023, time.February, 28)},
		{"thirty day month", date(2024, time.March, 31), 1, date(2024, time.April, 30)},
		{"year rollover", date(2024, time.November, 30), 3, date(2025, time.February, 28)},
		{"negative", date(2024, time.March, 31), -1, date(2024, time.February, 29)},
		{"negative across year", date(2024, time.January, 15), -2, date(2023, time.November, 15)},
		{"zero", date(2024, time.May, 5), 0, date(2024, time.May, 5)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, AddMonths(tc.base, tc.months))
		})
	}
}

func TestAddYearsFromLeapDay(t *testing.T) {
	assert.Equal(t, date(2025, time.February, 28), AddYears(date(2024, time.February, 29), 1))
	assert.Equal(t, date(2028, time.February, 29), AddYears(date(2024, time.February, 29), 4))
}

func TestAddMonthsKeepsClock(t *testing.T) {
	base := time.Date(2024, time.January, 31, 14, 30, 0, 0, time.UTC)
	got := AddMonths(base, 1)
	assert.Equal(t, 14, got.Hour())
	assert.Equal(t, 30, got.Minute())
}

func TestResolveBaseDate(t *testing.T) {
	issued := date(2024, time.June, 1)
	created := date(2024, time.May, 1)
	var zero time.Time

	got := ResolveBaseDate(nil, &zero, &issued, &created)
	require.NotNil(t, got)
	assert.Equal(t, issued, *got)

	assert.Nil(t, ResolveBaseDate(nil, &zero))
}
