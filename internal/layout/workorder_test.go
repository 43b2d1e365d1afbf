package layout

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pestdocs/pestdocs/internal/derive"
	"github.com/pestdocs/pestdocs/internal/printable"
)

var generatedAt = time.Date(2024, time.April, 2, 15, 4, 0, 0, time.UTC)

func projectionWithLines(n int) printable.Projection {
	raw := map[string]any{
		"id":           float64(42),
		"code":         "OS-42",
		"status":       "Agendada",
		"scheduled_at": "2024-03-10T14:30:00",
		"notes":        "Acesso pelos fundos.",
		"client":       map[string]any{"name": "Condomínio Solar", "address": "Rua X, 123 - Centro, Curitiba - PR, 80000-000"},
		"technicians":  []any{map[string]any{"name": "Ana Souza", "credential": "CRQ 123"}},
	}
	lines := make([]any, 0, n)
	for i := 0; i < n; i++ {
		lines = append(lines, map[string]any{
			"pest":    "cupim de madeira seca",
			"product": map[string]any{"name": fmt.Sprintf("Produto %d", i+1), "registration_number": "MS-1"},
		})
	}
	raw["lines"] = lines
	return printable.BuildProjection(raw)
}

func sectionsOfKind(p Page, kind SectionKind) []Section {
	var out []Section
	for _, s := range p.Sections {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}

func TestComposeWorkOrderCopiesAndCertificate(t *testing.T) {
	doc, err := ComposeWorkOrder(projectionWithLines(10), Options{Copies: 2, IncludeCertificate: true, GeneratedAt: generatedAt})
	require.NoError(t, err)

	require.Len(t, doc.Pages, 6)
	assert.Equal(t, "ordem-servico_OS-42_Condominio_Solar.pdf", doc.FileName)

	templates := make([]Template, 0, len(doc.Pages))
	for i, p := range doc.Pages {
		templates = append(templates, p.Template)
		assert.Equal(t, i+1, p.Footer.PageNumber)
		assert.Equal(t, 6, p.Footer.PageCount)
		assert.Equal(t, fmt.Sprintf("Página %d de 6", i+1), p.Footer.Text)
		assert.Equal(t, "02/04/2024 15:04", p.Footer.GeneratedAt)
	}
	assert.Equal(t, []Template{
		TemplateClientCopy, TemplateClientCopy,
		TemplateCompanyCopy, TemplateCompanyCopy,
		TemplateCertificate, TemplateCertificate,
	}, templates)
	assert.Equal(t, "Via do cliente", doc.Pages[0].CopyLabel)
	assert.Equal(t, "Via da empresa", doc.Pages[2].CopyLabel)

	for i, want := range []int{0, 1, 0, 1, 0, 1} {
		assert.Len(t, sectionsOfKind(doc.Pages[i], SectionSignatures), want, "page %d", i+1)
	}
	assert.Equal(t, "Em andamento", doc.Pages[0].Header.Badge)
	assert.Equal(t, "warning", doc.Pages[0].Header.BadgeTone)
}

func TestComposeWorkOrderPaginatesTreatmentTable(t *testing.T) {
	doc, err := ComposeWorkOrder(projectionWithLines(10), Options{})
	require.NoError(t, err)
	require.Len(t, doc.Pages, 2)

	first := sectionsOfKind(doc.Pages[0], SectionTable)
	second := sectionsOfKind(doc.Pages[1], SectionTable)
	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, "Tratamentos", first[0].Title)
	assert.Equal(t, "Tratamentos (continuação)", second[0].Title)
	assert.Len(t, first[0].Table.Rows, 8)
	require.Len(t, second[0].Table.Rows, 2)

	assert.Equal(t, 8, second[0].Table.Rows[0].Index)
	assert.False(t, second[0].Table.Rows[0].Striped)
	assert.True(t, second[0].Table.Rows[1].Striped)
	assert.True(t, first[0].Table.Rows[1].Striped)

	assert.Len(t, sectionsOfKind(doc.Pages[0], SectionGrid), 2)
	assert.Empty(t, sectionsOfKind(doc.Pages[1], SectionGrid))
	assert.Len(t, sectionsOfKind(doc.Pages[1], SectionText), 1)

	compact, err := ComposeWorkOrder(projectionWithLines(10), Options{Variant: VariantCompact})
	require.NoError(t, err)
	assert.Len(t, compact.Pages, 1)
}

func TestComposeWorkOrderTreatmentColumns(t *testing.T) {
	doc, err := ComposeWorkOrder(projectionWithLines(1), Options{})
	require.NoError(t, err)
	table := sectionsOfKind(doc.Pages[0], SectionTable)[0].Table

	titles := make([]string, 0, len(table.Columns))
	for _, c := range table.Columns {
		titles = append(titles, c.Title)
	}
	assert.Equal(t, []string{"Praga", "Produto", "Método de aplicação", "Diluição", "Quantidade"}, titles)
	assert.Equal(t, "Produto 1", table.Rows[0].Cells[1].Text)
	assert.Equal(t, []string{"Registro MS: MS-1"}, table.Rows[0].Cells[1].SubLines)
}

func TestComposeWorkOrderEmptyLines(t *testing.T) {
	doc, err := ComposeWorkOrder(projectionWithLines(0), Options{})
	require.NoError(t, err)
	require.Len(t, doc.Pages, 1)
	table := sectionsOfKind(doc.Pages[0], SectionTable)[0].Table
	assert.Empty(t, table.Rows)
	assert.NotEmpty(t, table.Empty)
}

func TestComposeWorkOrderRejectsBadOptions(t *testing.T) {
	_, err := ComposeWorkOrder(projectionWithLines(1), Options{Copies: 3})
	require.ErrorIs(t, err, ErrInvalidCopies)

	_, err = ComposeWorkOrder(projectionWithLines(1), Options{Variant: "poster"})
	require.ErrorIs(t, err, ErrUnknownVariant)
}

func TestComposeWorkOrderCertificateInspections(t *testing.T) {
	p := projectionWithLines(1)
	assert.Equal(t, printable.StatusInProgress, p.Status)
	assert.Equal(t, derive.ServiceTermiteControl, p.ServiceType)

	doc, err := ComposeWorkOrder(p, Options{IncludeCertificate: true})
	require.NoError(t, err)
	cert := doc.Pages[len(doc.Pages)-1]
	require.Equal(t, TemplateCertificate, cert.Template)
	assert.Equal(t, derive.ServiceTermiteControl, cert.Header.Badge)

	insp := sectionsOfKind(cert, SectionInspections)
	require.Len(t, insp, 1)
	assert.Equal(t, []InspectionCell{
		{Label: "6 meses", Date: "10/09/2024"},
		{Label: "12 meses", Date: "10/03/2025"},
		{Label: "18 meses", Date: "10/09/2025"},
		{Label: "24 meses", Date: "10/03/2026"},
	}, insp[0].Inspections)
}

func TestComposeWorkOrderIsDeterministic(t *testing.T) {
	p := projectionWithLines(3)
	before := fmt.Sprintf("%+v", p)
	a, err := ComposeWorkOrder(p, Options{Copies: 2, IncludeCertificate: true, GeneratedAt: generatedAt})
	require.NoError(t, err)
	b, err := ComposeWorkOrder(p, Options{Copies: 2, IncludeCertificate: true, GeneratedAt: generatedAt})
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, before, fmt.Sprintf("%+v", p))
}
