package layout

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pestdocs/pestdocs/internal/faes"
)

func faesSchema() faes.Schema {
	return faes.Schema{
		Title:   "Ficha de Avaliação",
		Version: "2",
		Sections: []faes.Section{
			{Title: "Local", Fields: []faes.Field{
				{ID: "area", Label: "Área", Type: faes.FieldNumber, Unit: "m²"},
				{ID: "tipo", Label: "Tipo", Type: faes.FieldSelect, Options: []faes.Option{{Value: "res", Label: "Residencial"}}},
				{ID: "pontos", Label: "Pontos de isca", Type: faes.FieldRepeater, Fields: []faes.Field{
					{ID: "praga", Label: "Praga", Type: faes.FieldText},
					{ID: "local", Label: "Local", Type: faes.FieldMultiSelect},
				}},
				{ID: "epi", Label: "EPI", Type: faes.FieldCheckbox},
			}},
		},
	}
}

func faesProjection(rows int) faes.Projection {
	points := make([]any, 0, rows)
	for i := 0; i < rows; i++ {
		points = append(points, map[string]any{"praga": fmt.Sprintf("Rato %d", i), "local": []any{"Cozinha", "Depósito"}})
	}
	raw := map[string]any{
		"id":           float64(7),
		"finalized":    true,
		"submitted_at": "2024-05-02",
		"client":       map[string]any{"name": "Mercado Bom Preço"},
		"data":         map[string]any{"area": float64(250), "tipo": "res", "pontos": points, "epi": true},
	}
	return faes.BuildProjection(raw, faesSchema())
}

func TestComposeFAESBlocks(t *testing.T) {
	doc, err := ComposeFAES(faesProjection(2), Options{GeneratedAt: generatedAt})
	require.NoError(t, err)
	require.Len(t, doc.Pages, 1)
	assert.Equal(t, "faes_FAES-7_Mercado_Bom_Preco.pdf", doc.FileName)
	assert.Equal(t, "Finalizada", doc.Pages[0].Header.Badge)

	sections := doc.Pages[0].Sections
	kinds := make([]SectionKind, 0, len(sections))
	for _, s := range sections {
		kinds = append(kinds, s.Kind)
	}
	assert.Equal(t, []SectionKind{SectionGrid, SectionGrid, SectionTable, SectionGrid, SectionSignatures}, kinds)

	assert.Equal(t, []Field{
		{Label: "Área", Value: "250 m²"},
		{Label: "Tipo", Value: "Residencial"},
	}, sections[1].Grid)
	table := sections[2].Table
	assert.Equal(t, "Pontos de isca", sections[2].Title)
	assert.Equal(t, TableRepeater, table.Kind)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, Cell{Text: "Cozinha", SubLines: []string{"Depósito"}}, table.Rows[0].Cells[1])
	assert.True(t, table.Rows[1].Striped)
	assert.Equal(t, "Sim", sections[3].Grid[0].Value)
}

func TestComposeFAESSplitsLongRepeaters(t *testing.T) {
	doc, err := ComposeFAES(faesProjection(20), Options{IncludeCertificate: true})
	require.NoError(t, err)

	var chunks []int
	var titles []string
	formPages := 0
	for _, p := range doc.Pages {
		if p.Template != TemplateForm {
			continue
		}
		formPages++
		for _, s := range sectionsOfKind(p, SectionTable) {
			chunks = append(chunks, len(s.Table.Rows))
			titles = append(titles, s.Title)
		}
	}
	assert.Equal(t, []int{8, 8, 4}, chunks)
	assert.Equal(t, "Pontos de isca (continuação)", titles[2])
	assert.Greater(t, formPages, 1)

	last := doc.Pages[len(doc.Pages)-1]
	assert.Equal(t, TemplateCertificate, last.Template)
	assert.Equal(t, len(doc.Pages), last.Footer.PageCount)

	lastForm := doc.Pages[formPages-1]
	assert.Len(t, sectionsOfKind(lastForm, SectionSignatures), 1)
}

func TestComposeFAESValidatesOptions(t *testing.T) {
	_, err := ComposeFAES(faesProjection(0), Options{Copies: 5})
	require.ErrorIs(t, err, ErrInvalidCopies)
}
