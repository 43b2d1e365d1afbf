package derive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspectionSchedule(t *testing.T) {
	base := date(2024, time.August, 31)
	grid := InspectionSchedule(&base)

	expected := []time.Time{
		date(2025, time.February, 28),
		date(2025, time.August, 31),
		date(2026, time.February, 28),
		date(2026, time.August, 31),
	}
	for i, cell := range grid {
		require.NotNil(t, cell.Date, "cell %d", i)
		assert.Equal(t, expected[i], *cell.Date)
		assert.Equal(t, InspectionOffsets[i], cell.Months)
	}
	assert.Equal(t, "6 meses", grid[0].Label)
}

func TestInspectionScheduleWithoutBase(t *testing.T) {
	grid := InspectionSchedule(nil)
	for _, cell := range grid {
		assert.Nil(t, cell.Date)
		assert.NotEmpty(t, cell.Label)
	}
}
