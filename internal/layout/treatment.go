package layout

import "github.com/pestdocs/pestdocs/internal/printable"

var treatmentColumns = []Column{
	{Key: "pest", Title: "Praga", Width: "16%"},
	{Key: "product", Title: "Produto", Width: "40%"},
	{Key: "method", Title: "Método de aplicação", Width: "16%"},
	{Key: "dilution", Title: "Diluição", Width: "14%"},
	{Key: "quantity", Title: "Quantidade", Width: "14%"},
}

// TreatmentRows renders the treatment lines with product technical data as
// sub-lines of the product cell.
func TreatmentRows(lines []printable.TreatmentLine) []Row {
	rows := make([]Row, 0, len(lines))
	for i, l := range lines {
		rows = append(rows, Row{
			Index:   i,
			Striped: striped(i),
			Cells: []Cell{
				{Text: l.Pest},
				{Text: l.ProductName, SubLines: productSubLines(l)},
				{Text: l.ApplicationMethod},
				{Text: l.Dilution},
				{Text: l.Quantity},
			},
		})
	}
	return rows
}

func productSubLines(l printable.TreatmentLine) []string {
	out := make([]string, 0, 6)
	add := func(label, v string) {
		if v != "" {
			out = append(out, label+": "+v)
		}
	}
	add("Registro MS", l.RegistrationNumber)
	add("Grupo químico", l.ChemicalGroup)
	add("Composição", l.Composition)
	add("Diluição recomendada", l.RecommendedDilution)
	add("Toxicidade", l.ToxicityNote)
	add("Antídoto", l.Antidote)
	return out
}

func treatmentTable(rows []Row) Table {
	return Table{
		Kind:    TableTreatment,
		Columns: treatmentColumns,
		Rows:    rows,
		Empty:   "Nenhum tratamento registrado.",
	}
}
