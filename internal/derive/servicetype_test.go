package derive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInferServiceType(t *testing.T) {
	tests := []struct {
		name     string
		pests    []string
		expected string
	}{
		{"termite", []string{"cupim de madeira seca"}, ServiceTermiteControl},
		{"termite uppercase", []string{"CUPINS SUBTERRÂNEOS"}, ServiceTermiteControl},
		{"termite wins over insects", []string{"Barata", "Cupim"}, ServiceTermiteControl},
		{"rodent", []string{"Ratazana"}, ServiceRodentControl},
		{"insects", []string{"baratas", "formigas"}, ServiceInsectControl},
		{"accent folded", []string{"Escorpião"}, ServiceInsectControl},
		{"unknown", []string{"pombo"}, ServiceGeneric},
		{"empty", nil, ServiceGeneric},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, InferServiceType(tc.pests))
		})
	}
}
