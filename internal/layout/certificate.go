package layout

import (
	"fmt"

	"github.com/pestdocs/pestdocs/internal/printable"
)

type certificateInput struct {
	Reference   string
	Company     printable.CompanyProfile
	Client      printable.Client
	ServiceType string
	Certificate printable.Certificate
	Lines       []printable.TreatmentLine
}

func certificateFromWorkOrder(p printable.Projection) certificateInput {
	return certificateInput{
		Reference:   "Ordem de serviço " + p.Code,
		Company:     p.Company,
		Client:      p.Client,
		ServiceType: p.ServiceType,
		Certificate: p.Certificate,
		Lines:       p.Lines,
	}
}

var productColumns = []Column{
	{Key: "product", Title: "Produto", Width: "26%"},
	{Key: "registration", Title: "Registro MS", Width: "16%"},
	{Key: "group", Title: "Grupo químico", Width: "18%"},
	{Key: "antidote", Title: "Antídoto", Width: "22%"},
	{Key: "pest", Title: "Praga alvo", Width: "18%"},
}

func productRows(lines []printable.TreatmentLine) []Row {
	rows := make([]Row, 0, len(lines))
	for i, l := range lines {
		rows = append(rows, Row{
			Index:   i,
			Striped: striped(i),
			Cells: []Cell{
				{Text: l.ProductName},
				{Text: l.RegistrationNumber},
				{Text: l.ChemicalGroup},
				{Text: l.Antidote},
				{Text: l.Pest},
			},
		})
	}
	return rows
}

// certificatePages lays out the certificate. The products table spills over
// continuation pages; inspections and signatures close the last page.
func certificatePages(in certificateInput, spec variantSpec) []Page {
	header := Header{
		Company:   in.Company,
		Title:     "CERTIFICADO DE EXECUÇÃO DE SERVIÇO",
		Code:      in.Certificate.Number,
		Badge:     in.ServiceType,
		BadgeTone: "success",
	}
	chunks := chunkRows(productRows(in.Lines), spec.rowsPerPage)
	pages := make([]Page, 0, len(chunks))
	for i, chunk := range chunks {
		page := Page{Template: TemplateCertificate, Header: header}
		if i == 0 {
			page.Sections = append(page.Sections,
				textSection("", certificateStatement(in)),
				certificateGrid(in))
		}
		page.Sections = append(page.Sections, tableSection(continued("Produtos utilizados", i), Table{
			Kind:    TableProducts,
			Columns: productColumns,
			Rows:    chunk,
			Empty:   "Nenhum produto informado.",
		}))
		if i == len(chunks)-1 {
			page.Sections = append(page.Sections,
				inspectionSection(in.Certificate),
				responsibilityGrid(in),
				signatureBlock(printable.Technician{
					Name:       in.Company.ResponsibleTechnician,
					Credential: in.Company.ResponsibleCredential,
				}, in.Company, in.Client))
		}
		pages = append(pages, page)
	}
	return pages
}

func certificateStatement(in certificateInput) string {
	client := in.Client.Name
	if client == "" {
		client = "o cliente abaixo identificado"
	}
	return fmt.Sprintf("Certificamos que %s recebeu o serviço de %s executado por %s, com produtos registrados no Ministério da Saúde, conforme a legislação sanitária vigente.",
		client, in.ServiceType, in.Company.Name)
}

func certificateGrid(in certificateInput) Section {
	c := in.Certificate
	return Section{
		Kind:  SectionGrid,
		Title: "Dados do certificado",
		Grid: []Field{
			{Label: "Certificado nº", Value: c.Number},
			{Label: "Referência", Value: in.Reference},
			{Label: "Cliente", Value: in.Client.Name, Wide: true},
			{Label: "CPF/CNPJ", Value: in.Client.Document},
			{Label: "Endereço", Value: in.Client.AddressParts.String(), Wide: true},
			{Label: "Data de execução", Value: formatDate(c.BaseDate)},
			{Label: "Validade", Value: c.Validity.Text},
			{Label: "Válido até", Value: formatDate(c.Validity.ExpiresAt)},
		},
	}
}

func inspectionSection(c printable.Certificate) Section {
	cells := make([]InspectionCell, 0, len(c.Inspections))
	for _, insp := range c.Inspections {
		cells = append(cells, InspectionCell{Label: insp.Label, Date: formatDate(insp.Date)})
	}
	return Section{Kind: SectionInspections, Title: "Inspeções de acompanhamento", Inspections: cells}
}

func responsibilityGrid(in certificateInput) Section {
	emergency := in.Company.Phone
	for _, l := range in.Lines {
		if l.EmergencyPhone != "" {
			emergency = l.EmergencyPhone
			break
		}
	}
	return Section{
		Kind:  SectionGrid,
		Title: "Responsabilidade técnica",
		Grid: []Field{
			{Label: "Responsável técnico", Value: in.Company.ResponsibleTechnician},
			{Label: "Registro profissional", Value: in.Company.ResponsibleCredential},
			{Label: "Licença sanitária", Value: in.Company.SanitaryLicense},
			{Label: "Licença ambiental", Value: in.Company.EnvironmentalLicense},
			{Label: "Telefone de emergência", Value: emergency},
		},
	}
}
