package faes

import (
	"strconv"
	"strings"
	"time"

	"github.com/pestdocs/pestdocs/internal/derive"
	"github.com/pestdocs/pestdocs/internal/platform/textfold"
	"github.com/pestdocs/pestdocs/internal/printable"
)

// Projection is the render-ready shape of a submission.
type Projection struct {
	ID               int64
	Code             string
	Schema           Schema
	Data             map[string]any
	Finalized        bool
	SubmittedAt      *time.Time
	ServiceOrderID   int64
	ServiceOrderCode string
	Client           printable.Client
	Company          printable.CompanyProfile
	CompanySupplied  bool
	Technicians      []printable.Technician
	Lines            []printable.TreatmentLine
	ServiceType      string
	Certificate      printable.Certificate
}

// StatusLabel is printed in the header badge.
func (p Projection) StatusLabel() string {
	if p.Finalized {
		return "Finalizada"
	}
	return "Rascunho"
}

var (
	probe              = printable.Path
	submissionScopes   = []printable.Accessor{probe("submission"), probe("faes"), probe("form_submission")}
	dataAccessors      = []printable.Accessor{probe("data"), probe("dados"), probe("values")}
	finalizedAccessors = []printable.Accessor{probe("finalized"), probe("is_finalized"), probe("finalizado")}
	submittedAccessors = []printable.Accessor{probe("submitted_at"), probe("submittedAt"), probe("updated_at"), probe("created_at")}
	soIDAccessors      = []printable.Accessor{probe("service_order_id"), probe("serviceOrderId"), probe("service_order", "id"), probe("ordem_servico_id")}
	soCodeAccessors    = []printable.Accessor{probe("service_order", "code"), probe("service_order_code"), probe("serviceOrderCode")}
	issueAccessors     = []printable.Accessor{probe("certificate", "issue_date"), probe("issue_date"), probe("data_emissao")}
	daysAccessors      = []printable.Accessor{probe("certificate", "validity_days"), probe("validity_days"), probe("validade_dias")}
	yearsAccessors     = []printable.Accessor{probe("certificate", "validity_years"), probe("validity_years"), probe("validade_anos")}
	serviceAccessors   = []printable.Accessor{probe("service_type"), probe("tipo_servico")}
	schemaIDAccessors  = []printable.Accessor{probe("schema_id"), probe("schemaId"), probe("schema", "id"), probe("form_schema_id")}
)

// SchemaID returns the id of the schema a raw submission was filled against, or 0.
func SchemaID(raw map[string]any) int64 {
	if raw == nil {
		return 0
	}
	if sub := printable.FirstMap(raw, submissionScopes...); sub != nil {
		if id := printable.FirstInt(sub, schemaIDAccessors...); id != 0 {
			return id
		}
	}
	return printable.FirstInt(raw, schemaIDAccessors...)
}

// lineKeys are the repeater child ids that mark a row as a treatment line.
var lineKeys = []string{"pest", "praga", "product", "produto", "product_name", "product_id"}

// BuildProjection normalizes a raw submission payload against its schema. Like the
// service-order normalizer it never fails.
func BuildProjection(raw map[string]any, schema Schema) Projection {
	if raw == nil {
		raw = map[string]any{}
	}
	sub := printable.FirstMap(raw, submissionScopes...)
	if sub == nil {
		sub = raw
	}
	data := printable.FirstMap(sub, dataAccessors...)
	if data == nil {
		data = map[string]any{}
	}

	out := Projection{
		ID:               printable.FirstInt(sub, probe("id")),
		Code:             printable.FirstString(sub, probe("code"), probe("codigo")),
		Schema:           schema,
		Data:             data,
		Finalized:        truthy(printable.FirstScalar(sub, finalizedAccessors...)),
		SubmittedAt:      printable.FirstTime(sub, submittedAccessors...),
		ServiceOrderID:   printable.FirstInt(sub, soIDAccessors...),
		ServiceOrderCode: printable.FirstString(sub, soCodeAccessors...),
		Client:           printable.NormalizeClient(raw, sub),
		Technicians:      printable.NormalizeTechnicians(raw, sub, data),
		Lines:            treatmentLines(schema, data),
	}
	if out.Code == "" && out.ID != 0 {
		out.Code = "FAES-" + strconv.FormatInt(out.ID, 10)
	}
	if out.ServiceOrderCode == "" && out.ServiceOrderID != 0 {
		out.ServiceOrderCode = "OS-" + strconv.FormatInt(out.ServiceOrderID, 10)
	}

	out.Company, out.CompanySupplied = printable.LookupCompany(raw, sub)
	if !out.CompanySupplied {
		out.Company = printable.DefaultCompanyProfile()
	}

	sources := []map[string]any{sub, data, raw}
	out.ServiceType = firstString(sources, serviceAccessors)
	if out.ServiceType == "" {
		pests := make([]string, 0, len(out.Lines))
		for _, l := range out.Lines {
			pests = append(pests, l.Pest)
		}
		out.ServiceType = derive.InferServiceType(pests)
	}

	var issue *time.Time
	for _, s := range sources {
		if issue = printable.FirstTime(s, issueAccessors...); issue != nil {
			break
		}
	}
	base := derive.ResolveBaseDate(issue, out.SubmittedAt)
	out.Certificate = printable.Certificate{
		Number:      out.Code,
		BaseDate:    base,
		Validity:    derive.ComputeValidity(base, int(firstInt(sources, daysAccessors)), int(firstInt(sources, yearsAccessors))),
		Inspections: derive.InspectionSchedule(base),
	}
	return out
}

// treatmentLines reads rows of every repeater whose children look like pest/product
// pairs.
func treatmentLines(schema Schema, data map[string]any) []printable.TreatmentLine {
	lines := make([]printable.TreatmentLine, 0)
	for _, sec := range schema.Sections {
		for _, f := range sec.Fields {
			if f.Type != FieldRepeater || !hasLineChild(f) {
				continue
			}
			for _, row := range asRows(data[f.ID]) {
				line := printable.NormalizeLine(row)
				if line.Pest != "" || line.ProductName != "" {
					lines = append(lines, line)
				}
			}
		}
	}
	return lines
}

func hasLineChild(f Field) bool {
	for _, child := range f.Fields {
		id := textfold.Lower(child.ID)
		for _, k := range lineKeys {
			if id == k {
				return true
			}
		}
	}
	return false
}

func truthy(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "1", "sim", "yes":
			return true
		}
	case float64:
		return x != 0
	}
	return false
}

func firstString(sources []map[string]any, accessors []printable.Accessor) string {
	for _, s := range sources {
		if v := printable.FirstString(s, accessors...); v != "" {
			return v
		}
	}
	return ""
}

func firstInt(sources []map[string]any, accessors []printable.Accessor) int64 {
	for _, s := range sources {
		if v := printable.FirstInt(s, accessors...); v != 0 {
			return v
		}
	}
	return 0
}
