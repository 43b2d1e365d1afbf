// Package layout arranges projections into paginated document trees. Composition is
// a pure transform: the same projection and options always yield the same tree.
package layout

import (
	"time"

	"github.com/pestdocs/pestdocs/internal/printable"
)

// Kind identifies the document family.
type Kind string

const (
	KindWorkOrder Kind = "work_order"
	KindFAES      Kind = "faes"
)

// Template names the page plan a page was laid out with.
type Template string

const (
	TemplateClientCopy  Template = "client_copy"
	TemplateCompanyCopy Template = "company_copy"
	TemplateCertificate Template = "certificate"
	TemplateForm        Template = "form"
)

// SectionKind selects which payload of a Section is populated.
type SectionKind string

const (
	SectionText        SectionKind = "text"
	SectionGrid        SectionKind = "grid"
	SectionTable       SectionKind = "table"
	SectionSignatures  SectionKind = "signatures"
	SectionInspections SectionKind = "inspections"
)

// TableKind fixes the column set of a table.
type TableKind string

const (
	TableTreatment TableKind = "treatment"
	TableProducts  TableKind = "products"
	TableRepeater  TableKind = "repeater"
)

// Document is the complete page tree handed to the renderer.
type Document struct {
	Kind        Kind
	Code        string
	Title       string
	FileName    string
	Variant     Variant
	GeneratedAt time.Time
	Pages       []Page
}

// Header is repeated on every page.
type Header struct {
	Company   printable.CompanyProfile
	Title     string
	Code      string
	Badge     string
	BadgeTone string
}

// Footer is repeated on every page; numbering is filled once the page count is known.
type Footer struct {
	PageNumber  int
	PageCount   int
	Text        string
	GeneratedAt string
}

// Page is one printed sheet.
type Page struct {
	Template  Template
	CopyLabel string
	Header    Header
	Footer    Footer
	Sections  []Section
}

// Section is a titled block. Exactly one payload matches Kind.
type Section struct {
	Kind        SectionKind
	Title       string
	Text        string
	Grid        []Field
	Table       *Table
	Signatures  []Signature
	Inspections []InspectionCell
}

// Field is one label/value pair of a grid.
type Field struct {
	Label string
	Value string
	Wide  bool
}

// Column is a table header cell.
type Column struct {
	Key   string
	Title string
	Width string
}

// Table is a fixed-column table.
type Table struct {
	Kind    TableKind
	Columns []Column
	Rows    []Row
	Empty   string
}

// Row is one table line. Index is the line position across the whole table, so
// striping stays stable when a table is split over pages.
type Row struct {
	Index   int
	Cells   []Cell
	Striped bool
}

// Cell holds the main text and optional smaller sub-lines.
type Cell struct {
	Text     string
	SubLines []string
}

// Signature is one slot of the signature block.
type Signature struct {
	Role       string
	Name       string
	Credential string
}

// InspectionCell is one follow-up slot of the certificate grid.
type InspectionCell struct {
	Label string
	Date  string
}
