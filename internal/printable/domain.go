// Package printable turns loosely shaped backend payloads into the canonical,
// render-ready Projection consumed by the layout composer.
package printable

import (
	"time"

	"github.com/pestdocs/pestdocs/internal/derive"
)

// Status is the canonical service-order status.
type Status string

const (
	StatusOpen       Status = "OPEN"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

// Label returns the status as printed on documents.
func (s Status) Label() string {
	switch s {
	case StatusInProgress:
		return "Em andamento"
	case StatusCompleted:
		return "Concluída"
	case StatusCancelled:
		return "Cancelada"
	default:
		return "Aberta"
	}
}

// Address is the parsed form of a single-line Brazilian address.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
}

// Client is the customer a document is issued to.
type Client struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Document     string  `json:"document"`
	Phone        string  `json:"phone"`
	Email        string  `json:"email"`
	Contact      string  `json:"contact"`
	Address      string  `json:"address"`
	AddressParts Address `json:"address_parts"`
}

// Technician is a field technician assigned to a service order.
type Technician struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Credential string `json:"credential"`
}

// CompanyProfile identifies the issuer printed in every header.
type CompanyProfile struct {
	Name                  string `json:"name"`
	TaxID                 string `json:"tax_id"`
	Address               string `json:"address"`
	Phone                 string `json:"phone"`
	Email                 string `json:"email"`
	Website               string `json:"website"`
	SanitaryLicense       string `json:"sanitary_license"`
	EnvironmentalLicense  string `json:"environmental_license"`
	ResponsibleTechnician string `json:"responsible_technician"`
	ResponsibleCredential string `json:"responsible_credential"`
	LogoURL               string `json:"logo_url"`
}

// TreatmentLine pairs a target pest with the product applied against it. Product
// technical fields are snapshots taken when the document is printed.
type TreatmentLine struct {
	ID                  *int64 `json:"id,omitempty"`
	Pest                string `json:"pest"`
	ProductID           int64  `json:"product_id"`
	ProductName         string `json:"product_name"`
	RegistrationNumber  string `json:"registration_number"`
	ChemicalGroup       string `json:"chemical_group"`
	Composition         string `json:"composition"`
	RecommendedDilution string `json:"recommended_dilution"`
	ToxicityNote        string `json:"toxicity_note"`
	Antidote            string `json:"antidote"`
	EmergencyPhone      string `json:"emergency_phone"`
	ApplicationMethod   string `json:"application_method"`
	Dilution            string `json:"dilution"`
	Quantity            string `json:"quantity"`
	Warranty            string `json:"warranty"`
}

// Certificate holds the derived certificate fields.
type Certificate struct {
	Number      string               `json:"number"`
	BaseDate    *time.Time           `json:"base_date"`
	Validity    derive.Validity      `json:"validity"`
	Inspections [4]derive.Inspection `json:"inspections"`
}

// Projection is the canonical shape of a service order ready for layout. It is built
// fresh for every generation request and must be treated as read-only afterwards.
type Projection struct {
	ID          int64           `json:"id"`
	Code        string          `json:"code"`
	Status      Status          `json:"status"`
	CreatedAt   *time.Time      `json:"created_at"`
	ScheduledAt *time.Time      `json:"scheduled_at"`
	Client      Client          `json:"client"`
	Technicians []Technician    `json:"technicians"`
	Lines       []TreatmentLine `json:"lines"`
	Notes       string          `json:"notes"`
	ServiceType string          `json:"service_type"`
	Company     CompanyProfile  `json:"company"`
	Certificate Certificate     `json:"certificate"`
}

// Pests lists the target pests of all lines, in line order.
func (p Projection) Pests() []string {
	out := make([]string, 0, len(p.Lines))
	for _, l := range p.Lines {
		if l.Pest != "" {
			out = append(out, l.Pest)
		}
	}
	return out
}
