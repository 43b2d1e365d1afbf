package faes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPerFieldType(t *testing.T) {
	s := inspectionSchema()
	area, _ := s.Field("area_m2")
	visit, _ := s.Field("data_visita")
	produtos, _ := s.Field("produtos")
	fotos, _ := s.Field("fotos")
	epi, _ := s.Field("epi")

	assert.Equal(t, "1.234,5 m²", Format(area, float64(1234.5)).Text)
	assert.Equal(t, "12,5 m²", Format(area, "12,5").Text)
	assert.Equal(t, "02/05/2024", Format(visit, "2024-05-02").Text)
	assert.Equal(t, "amanhã", Format(visit, "amanhã").Text)
	assert.Equal(t, "Sim", Format(epi, true).Text)
	assert.Equal(t, "Não", Format(epi, "false").Text)
	assert.Equal(t, "a.jpg, b.png", Format(fotos, []any{"https://cdn.example/u/a.jpg?sig=1", map[string]any{"name": "b.png"}}).Text)

	multi := Field{ID: "m", Type: FieldMultiSelect, Options: []Option{{Value: "r", Label: "Ratos"}}}
	v := Format(multi, []any{"r", "x"})
	assert.Equal(t, []string{"Ratos", "x"}, v.Items)
	assert.Equal(t, "Ratos, x", v.Text)

	rows := Format(produtos, []any{map[string]any{"praga": "Barata", "produto": "Gel X", "metodo": "gel"}}).Rows
	require.Len(t, rows, 1)
	assert.Equal(t, "Barata", rows[0][0].Text)
	assert.Equal(t, "Gel", rows[0][2].Text)

	assert.True(t, Format(area, nil).Empty())
}

func TestFieldTypeValid(t *testing.T) {
	for _, ft := range []FieldType{FieldText, FieldNumber, FieldDate, FieldSelect, FieldMultiSelect, FieldCheckbox, FieldFile, FieldRepeater} {
		assert.True(t, ft.Valid(), string(ft))
	}
	assert.False(t, FieldType("signature").Valid())
}
