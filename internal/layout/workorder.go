package layout

import "github.com/pestdocs/pestdocs/internal/printable"

type copyPlan struct {
	template Template
	label    string
}

var copyPlans = []copyPlan{
	{template: TemplateClientCopy, label: "Via do cliente"},
	{template: TemplateCompanyCopy, label: "Via da empresa"},
}

// ComposeWorkOrder lays out a service order as one or two identical copies that
// differ only in their copy label, optionally followed by the certificate.
func ComposeWorkOrder(p printable.Projection, opts Options) (Document, error) {
	opts, spec, err := opts.resolve()
	if err != nil {
		return Document{}, err
	}
	doc := Document{
		Kind:        KindWorkOrder,
		Code:        p.Code,
		Title:       "Ordem de Serviço " + p.Code,
		FileName:    FileName("ordem-servico", p.Code, p.Client.Name),
		Variant:     opts.Variant,
		GeneratedAt: opts.GeneratedAt,
	}
	header := Header{
		Company:   p.Company,
		Title:     "ORDEM DE SERVIÇO",
		Code:      p.Code,
		Badge:     p.Status.Label(),
		BadgeTone: statusTone(p.Status),
	}
	rows := TreatmentRows(p.Lines)
	for _, plan := range copyPlans[:opts.Copies] {
		doc.Pages = append(doc.Pages, workOrderCopy(p, header, plan, rows, spec)...)
	}
	if opts.IncludeCertificate {
		doc.Pages = append(doc.Pages, certificatePages(certificateFromWorkOrder(p), spec)...)
	}
	number(&doc)
	return doc, nil
}

func workOrderCopy(p printable.Projection, header Header, plan copyPlan, rows []Row, spec variantSpec) []Page {
	chunks := chunkRows(rows, spec.rowsPerPage)
	pages := make([]Page, 0, len(chunks))
	for i, chunk := range chunks {
		page := Page{Template: plan.template, CopyLabel: plan.label, Header: header}
		if i == 0 {
			page.Sections = append(page.Sections, clientGrid(p.Client), serviceGrid(p))
		}
		page.Sections = append(page.Sections, tableSection(continued("Tratamentos", i), treatmentTable(chunk)))
		if i == len(chunks)-1 {
			if p.Notes != "" {
				page.Sections = append(page.Sections, textSection("Observações", p.Notes))
			}
			page.Sections = append(page.Sections, signatureBlock(firstTechnician(p.Technicians), p.Company, p.Client))
		}
		pages = append(pages, page)
	}
	return pages
}

func serviceGrid(p printable.Projection) Section {
	return Section{
		Kind:  SectionGrid,
		Title: "Dados do serviço",
		Grid: []Field{
			{Label: "Tipo de serviço", Value: p.ServiceType},
			{Label: "Status", Value: p.Status.Label()},
			{Label: "Abertura", Value: formatDateTime(p.CreatedAt)},
			{Label: "Agendamento", Value: formatDateTime(p.ScheduledAt)},
			{Label: "Técnicos", Value: technicianNames(p.Technicians), Wide: true},
			{Label: "Garantia", Value: warranties(p.Lines), Wide: true},
		},
	}
}
