package derive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeUrgency(t *testing.T) {
	tests := []struct {
		name     string
		minimum  float64
		current  float64
		expected int
	}{
		{"at minimum", 100, 100, 0},
		{"above minimum", 100, 150, 0},
		{"half", 100, 50, 50},
		{"rounded", 3, 2, 33},
		{"empty stock", 40, 0, 100},
		{"negative stock clamps", 10, -5, 100},
		{"zero minimum", 0, 5, 0},
		{"negative minimum", -10, 5, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ComputeUrgency(tc.minimum, tc.current))
		})
	}
}

func TestClassifyUrgency(t *testing.T) {
	tests := []struct {
		urgency int
		level   UrgencyLevel
		label   string
	}{
		{0, UrgencyOK, "OK"},
		{1, UrgencyLow, "Baixa"},
		{24, UrgencyLow, "Baixa"},
		{25, UrgencyMedium, "Média"},
		{49, UrgencyMedium, "Média"},
		{50, UrgencyHigh, "Alta"},
		{74, UrgencyHigh, "Alta"},
		{75, UrgencyCritical, "Crítica"},
		{100, UrgencyCritical, "Crítica"},
	}
	for _, tc := range tests {
		level := ClassifyUrgency(tc.urgency)
		assert.Equal(t, tc.level, level, "urgency %d", tc.urgency)
		assert.Equal(t, tc.label, level.Label(), "urgency %d", tc.urgency)
	}
	assert.Equal(t, "critical", UrgencyCritical.String())
}
