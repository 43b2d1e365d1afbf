package layout

import (
	"fmt"
	"strings"
	"time"

	"github.com/pestdocs/pestdocs/internal/printable"
)

const (
	dateLayout     = "02/01/2006"
	dateTimeLayout = "02/01/2006 15:04"
)

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func formatDateTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	if t.Hour() == 0 && t.Minute() == 0 {
		return t.Format(dateLayout)
	}
	return t.Format(dateTimeLayout)
}

func statusTone(s printable.Status) string {
	switch s {
	case printable.StatusInProgress:
		return "warning"
	case printable.StatusCompleted:
		return "success"
	case printable.StatusCancelled:
		return "danger"
	default:
		return "info"
	}
}

func clientGrid(c printable.Client) Section {
	cityState := c.AddressParts.City
	switch {
	case cityState == "":
		cityState = c.AddressParts.State
	case c.AddressParts.State != "":
		cityState += " - " + c.AddressParts.State
	}
	street := c.AddressParts.Street
	if street == "" {
		street = c.Address
	}
	return Section{
		Kind:  SectionGrid,
		Title: "Dados do cliente",
		Grid: []Field{
			{Label: "Cliente", Value: c.Name, Wide: true},
			{Label: "CPF/CNPJ", Value: c.Document},
			{Label: "Contato", Value: c.Contact},
			{Label: "Telefone", Value: c.Phone},
			{Label: "E-mail", Value: c.Email},
			{Label: "Endereço", Value: street, Wide: true},
			{Label: "Cidade/UF", Value: cityState},
			{Label: "CEP", Value: c.AddressParts.PostalCode},
		},
	}
}

func technicianNames(ts []printable.Technician) string {
	names := make([]string, 0, len(ts))
	for _, t := range ts {
		names = append(names, t.Name)
	}
	return strings.Join(names, ", ")
}

// warranties lists the distinct warranty texts of the lines, in line order.
func warranties(lines []printable.TreatmentLine) string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, l := range lines {
		if l.Warranty == "" {
			continue
		}
		if _, ok := seen[l.Warranty]; ok {
			continue
		}
		seen[l.Warranty] = struct{}{}
		out = append(out, l.Warranty)
	}
	return strings.Join(out, ", ")
}

// signatureBlock is the fixed technician / company / client triad.
func signatureBlock(tech printable.Technician, company printable.CompanyProfile, client printable.Client) Section {
	companyCred := ""
	if company.TaxID != "" {
		companyCred = "CNPJ " + company.TaxID
	}
	clientName := client.Contact
	if clientName == "" {
		clientName = client.Name
	}
	return Section{
		Kind:  SectionSignatures,
		Title: "Assinaturas",
		Signatures: []Signature{
			{Role: "Técnico responsável", Name: tech.Name, Credential: tech.Credential},
			{Role: "Empresa", Name: company.Name, Credential: companyCred},
			{Role: "Cliente", Name: clientName, Credential: client.Document},
		},
	}
}

func firstTechnician(ts []printable.Technician) printable.Technician {
	if len(ts) == 0 {
		return printable.Technician{}
	}
	return ts[0]
}

func textSection(title, text string) Section {
	return Section{Kind: SectionText, Title: title, Text: text}
}

func tableSection(title string, t Table) Section {
	return Section{Kind: SectionTable, Title: title, Table: &t}
}

// chunkRows splits rows into pages of at most size rows. An empty table still yields
// one chunk so its header and empty message print.
func chunkRows(rows []Row, size int) [][]Row {
	if len(rows) == 0 || size <= 0 {
		return [][]Row{rows}
	}
	chunks := make([][]Row, 0, (len(rows)+size-1)/size)
	for start := 0; start < len(rows); start += size {
		end := start + size
		if end > len(rows) {
			end = len(rows)
		}
		chunks = append(chunks, rows[start:end])
	}
	return chunks
}

func striped(index int) bool {
	return index%2 == 1
}

func continued(title string, part int) string {
	if part == 0 {
		return title
	}
	return title + " (continuação)"
}

// number fills footers once the total page count is known.
func number(doc *Document) {
	total := len(doc.Pages)
	stamp := doc.GeneratedAt.Format(dateTimeLayout)
	if doc.GeneratedAt.IsZero() {
		stamp = ""
	}
	for i := range doc.Pages {
		doc.Pages[i].Footer = Footer{
			PageNumber:  i + 1,
			PageCount:   total,
			Text:        fmt.Sprintf("Página %d de %d", i+1, total),
			GeneratedAt: stamp,
		}
	}
}
