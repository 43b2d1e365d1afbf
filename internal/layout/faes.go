package layout

import (
	"strings"

	"github.com/pestdocs/pestdocs/internal/faes"
)

// ComposeFAES lays out a form submission: one block per schema section, repeaters as
// tables, flowed over as many pages as needed. FAES documents have a single copy;
// Options.Copies is validated but not repeated.
func ComposeFAES(sub faes.Projection, opts Options) (Document, error) {
	opts, spec, err := opts.resolve()
	if err != nil {
		return Document{}, err
	}
	title := sub.Schema.Title
	if title == "" {
		title = "FAES"
	}
	doc := Document{
		Kind:        KindFAES,
		Code:        sub.Code,
		Title:       title + " " + sub.Code,
		FileName:    FileName("faes", sub.Code, sub.Client.Name),
		Variant:     opts.Variant,
		GeneratedAt: opts.GeneratedAt,
	}
	header := Header{
		Company:   sub.Company,
		Title:     strings.ToUpper(title),
		Code:      sub.Code,
		Badge:     sub.StatusLabel(),
		BadgeTone: faesTone(sub.Finalized),
	}

	pg := newPager(spec.pageCapacity)
	pg.add(submissionGrid(sub))
	for _, sec := range sub.Schema.Sections {
		for _, block := range sectionBlocks(sec, sub.Data, spec) {
			pg.add(block)
		}
	}
	pg.add(signatureBlock(firstTechnician(sub.Technicians), sub.Company, sub.Client))

	for _, sections := range pg.result() {
		doc.Pages = append(doc.Pages, Page{Template: TemplateForm, Header: header, Sections: sections})
	}
	if opts.IncludeCertificate {
		doc.Pages = append(doc.Pages, certificatePages(certificateFromFAES(sub), spec)...)
	}
	number(&doc)
	return doc, nil
}

func faesTone(finalized bool) string {
	if finalized {
		return "success"
	}
	return "warning"
}

func submissionGrid(sub faes.Projection) Section {
	form := sub.Schema.Title
	if sub.Schema.Version != "" {
		form += " (v" + sub.Schema.Version + ")"
	}
	return Section{
		Kind:  SectionGrid,
		Title: "Identificação",
		Grid: []Field{
			{Label: "Cliente", Value: sub.Client.Name, Wide: true},
			{Label: "CPF/CNPJ", Value: sub.Client.Document},
			{Label: "Endereço", Value: sub.Client.AddressParts.String(), Wide: true},
			{Label: "Formulário", Value: form},
			{Label: "Ordem de serviço", Value: sub.ServiceOrderCode},
			{Label: "Enviado em", Value: formatDateTime(sub.SubmittedAt)},
			{Label: "Situação", Value: sub.StatusLabel()},
		},
	}
}

// sectionBlocks groups consecutive plain fields into grids and turns each repeater
// into a table, split into chunks of the variant's row count.
func sectionBlocks(sec faes.Section, data map[string]any, spec variantSpec) []Section {
	blocks := make([]Section, 0, 2)
	var grid []Field
	flush := func() {
		if len(grid) == 0 {
			return
		}
		blocks = append(blocks, Section{Kind: SectionGrid, Title: sec.Title, Grid: grid})
		grid = nil
	}
	for _, f := range sec.Fields {
		if f.Type != faes.FieldRepeater {
			grid = append(grid, Field{
				Label: f.DisplayLabel(),
				Value: faes.Format(f, data[f.ID]).Text,
				Wide:  f.Type == faes.FieldText || f.Type == faes.FieldFile,
			})
			continue
		}
		flush()
		for i, chunk := range chunkRows(repeaterRows(f, data[f.ID]), spec.rowsPerPage) {
			blocks = append(blocks, tableSection(continued(f.DisplayLabel(), i), Table{
				Kind:    TableRepeater,
				Columns: repeaterColumns(f),
				Rows:    chunk,
				Empty:   "Nenhum registro.",
			}))
		}
	}
	flush()
	if len(blocks) == 0 {
		blocks = append(blocks, textSection(sec.Title, ""))
	}
	return blocks
}

func repeaterColumns(f faes.Field) []Column {
	cols := make([]Column, 0, len(f.Fields))
	for _, child := range f.Fields {
		cols = append(cols, Column{Key: child.ID, Title: child.DisplayLabel()})
	}
	return cols
}

func repeaterRows(f faes.Field, raw any) []Row {
	v := faes.Format(f, raw)
	rows := make([]Row, 0, len(v.Rows))
	for i, values := range v.Rows {
		cells := make([]Cell, 0, len(values))
		for _, val := range values {
			cell := Cell{Text: val.Text}
			if len(val.Items) > 1 {
				cell = Cell{Text: val.Items[0], SubLines: val.Items[1:]}
			}
			cells = append(cells, cell)
		}
		rows = append(rows, Row{Index: i, Cells: cells, Striped: striped(i)})
	}
	return rows
}

func certificateFromFAES(sub faes.Projection) certificateInput {
	ref := "FAES " + sub.Code
	if sub.ServiceOrderCode != "" {
		ref += " / Ordem de serviço " + sub.ServiceOrderCode
	}
	return certificateInput{
		Reference:   ref,
		Company:     sub.Company,
		Client:      sub.Client,
		ServiceType: sub.ServiceType,
		Certificate: sub.Certificate,
		Lines:       sub.Lines,
	}
}
