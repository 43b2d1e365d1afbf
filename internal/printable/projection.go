package printable

import (
	"strconv"
	"time"

	"github.com/pestdocs/pestdocs/internal/derive"
)

var (
	recordScopes       = []Accessor{Path("service_order"), Path("serviceOrder"), Path("ordem_servico"), Path("order")}
	certificateScopes  = []Accessor{Path("certificate"), Path("certificado"), Path("certificate_hints"), Path("certificateHints")}
	idAccessors        = []Accessor{Path("id"), Path("service_order_id"), Path("serviceOrderId")}
	codeAccessors      = []Accessor{Path("code"), Path("public_code"), Path("publicCode"), Path("codigo"), Path("number")}
	statusAccessors    = []Accessor{Path("status"), Path("situacao")}
	createdAccessors   = []Accessor{Path("created_at"), Path("createdAt"), Path("data_criacao")}
	scheduledAccessors = []Accessor{Path("scheduled_at"), Path("scheduledAt"), Path("scheduled_date"), Path("scheduledDate"), Path("data_agendamento")}
	notesAccessors     = []Accessor{Path("notes"), Path("observations"), Path("observacoes")}
	serviceAccessors   = []Accessor{Path("service_type"), Path("serviceType"), Path("tipo_servico")}
	issueAccessors     = []Accessor{Path("issue_date"), Path("issueDate"), Path("issued_at"), Path("issuedAt"), Path("data_emissao")}
	certNumAccessors   = []Accessor{Path("number"), Path("certificate_number"), Path("certificateNumber"), Path("numero")}
	daysAccessors      = []Accessor{Path("validity_days"), Path("validityDays"), Path("validade_dias")}
	yearsAccessors     = []Accessor{Path("validity_years"), Path("validityYears"), Path("validade_anos")}
)

// Normalized is the normalizer output: the projection without derived fields plus
// the certificate hints read from the payload.
type Normalized struct {
	Projection
	// CompanySupplied reports whether the payload carried an issuer profile. When it
	// did not, Projection.Company holds DefaultCompanyProfile.
	CompanySupplied bool

	hints certificateHints
}

type certificateHints struct {
	number string
	issue  *time.Time
	days   int
	years  int
}

// BuildProjection normalizes a raw service-order payload and computes its derived
// fields. The payload may be the bare record or a joined printable bundle with the
// record nested next to client, company and certificate hints. It never fails.
func BuildProjection(raw map[string]any) Projection {
	return Derive(Normalize(raw))
}

// Normalize reconciles the payload shape into a Projection. Derived fields are left
// zero; see Derive.
func Normalize(raw map[string]any) Normalized {
	if raw == nil {
		raw = map[string]any{}
	}
	record := FirstMap(raw, recordScopes...)
	if record == nil {
		record = raw
	}

	p := Projection{
		ID:          FirstInt(record, idAccessors...),
		Code:        FirstString(record, codeAccessors...),
		Status:      NormalizeStatus(FirstString(record, statusAccessors...)),
		CreatedAt:   FirstTime(record, createdAccessors...),
		ScheduledAt: FirstTime(record, scheduledAccessors...),
		Client:      NormalizeClient(raw, record),
		Technicians: NormalizeTechnicians(raw, record),
		Lines:       NormalizeLines(raw, record),
		Notes:       FirstString(record, notesAccessors...),
		ServiceType: firstStringOf([]map[string]any{record, raw}, serviceAccessors),
	}
	if p.Code == "" && p.ID != 0 {
		p.Code = "OS-" + strconv.FormatInt(p.ID, 10)
	}
	company, supplied := LookupCompany(raw, record)
	if !supplied {
		company = DefaultCompanyProfile()
	}
	p.Company = company

	return Normalized{Projection: p, CompanySupplied: supplied, hints: readCertificateHints(raw, record)}
}

// Derive computes the service type (unless the payload named one) and the
// certificate fields.
func Derive(n Normalized) Projection {
	p := n.Projection
	if p.ServiceType == "" {
		p.ServiceType = derive.InferServiceType(p.Pests())
	}
	number := n.hints.number
	if number == "" {
		number = p.Code
	}
	base := derive.ResolveBaseDate(n.hints.issue, p.ScheduledAt, p.CreatedAt)
	p.Certificate = Certificate{
		Number:      number,
		BaseDate:    base,
		Validity:    derive.ComputeValidity(base, n.hints.days, n.hints.years),
		Inspections: derive.InspectionSchedule(base),
	}
	return p
}

func readCertificateHints(raw, record map[string]any) certificateHints {
	hints := FirstMap(raw, certificateScopes...)
	if hints == nil {
		hints = FirstMap(record, certificateScopes...)
	}
	// hints may be nil; lookups over a nil map find nothing.
	sources := []map[string]any{hints, record, raw}

	number := FirstString(hints, certNumAccessors...)
	if number == "" {
		number = firstStringOf(sources[1:], certNumAccessors[1:])
	}
	return certificateHints{
		number: number,
		issue:  firstTimeOf(sources, issueAccessors),
		days:   int(firstIntOf(sources, daysAccessors)),
		years:  int(firstIntOf(sources, yearsAccessors)),
	}
}

func firstStringOf(sources []map[string]any, accessors []Accessor) string {
	for _, s := range sources {
		if v := FirstString(s, accessors...); v != "" {
			return v
		}
	}
	return ""
}

func firstIntOf(sources []map[string]any, accessors []Accessor) int64 {
	for _, s := range sources {
		if v := FirstInt(s, accessors...); v != 0 {
			return v
		}
	}
	return 0
}

func firstTimeOf(sources []map[string]any, accessors []Accessor) *time.Time {
	for _, s := range sources {
		if v := FirstTime(s, accessors...); v != nil {
			return v
		}
	}
	return nil
}
