package printable

import "strings"

var (
	clientScopes = []Accessor{Path("client"), Path("cliente"), Path("customer")}

	clientIDAccessors       = []Accessor{Path("id"), Path("client_id")}
	clientNameAccessors     = []Accessor{Path("name"), Path("nome"), Path("razao_social"), Path("company_name"), Path("companyName")}
	clientDocumentAccessors = []Accessor{Path("document"), Path("cpf_cnpj"), Path("cnpj"), Path("cpf"), Path("tax_id")}
	clientPhoneAccessors    = []Accessor{Path("phone"), Path("telefone"), Path("celular")}
	clientEmailAccessors    = []Accessor{Path("email")}
	clientContactAccessors  = []Accessor{Path("contact"), Path("contato"), Path("contact_name")}
	addressTextAccessors    = []Accessor{Path("address"), Path("endereco"), Path("full_address")}
	addressObjectAccessors  = []Accessor{Path("address"), Path("endereco")}

	technicianScopes            = []Accessor{Path("technicians"), Path("tecnicos")}
	technicianNameAccessors     = []Accessor{Path("name"), Path("nome")}
	technicianCredAccessors     = []Accessor{Path("credential"), Path("registration"), Path("crea"), Path("crq"), Path("registro")}
	companyScopes               = []Accessor{Path("company"), Path("company_profile"), Path("companyProfile"), Path("empresa")}
	companyNameAccessors        = []Accessor{Path("name"), Path("nome"), Path("razao_social")}
	companyTaxIDAccessors       = []Accessor{Path("tax_id"), Path("taxId"), Path("cnpj")}
	companyLicenseAccessors     = []Accessor{Path("sanitary_license"), Path("sanitaryLicense"), Path("licenca_sanitaria"), Path("license")}
	companyEnvLicenseAccessors  = []Accessor{Path("environmental_license"), Path("environmentalLicense"), Path("licenca_ambiental")}
	companyResponsibleAccessors = []Accessor{Path("responsible_technician"), Path("responsibleTechnician"), Path("responsavel_tecnico")}
	companyRespCredAccessors    = []Accessor{Path("responsible_credential"), Path("responsibleCredential"), Path("registro_responsavel")}
	companyLogoAccessors        = []Accessor{Path("logo_url"), Path("logoUrl"), Path("logo")}
	companyWebsiteAccessors     = []Accessor{Path("website"), Path("site")}
)

// DefaultCompanyProfile is printed when the payload carries no issuer profile.
func DefaultCompanyProfile() CompanyProfile {
	return CompanyProfile{
		Name:                  "PestDocs Controle de Pragas Ltda",
		TaxID:                 "00.000.000/0001-00",
		Address:               "Rua das Acácias, 100 - Centro, Curitiba - PR, 80010-000",
		Phone:                 "(41) 3000-0000",
		Email:                 "contato@pestdocs.com.br",
		SanitaryLicense:       "LS 0000/2024",
		ResponsibleTechnician: "Responsável Técnico",
		ResponsibleCredential: "CRQ 00000000",
	}
}

// NormalizeClient reads the client object found on any of the given payloads.
func NormalizeClient(payloads ...map[string]any) Client {
	var raw map[string]any
	for _, p := range payloads {
		if raw = FirstMap(p, clientScopes...); raw != nil {
			break
		}
	}
	if raw == nil {
		c := Client{}
		for _, p := range payloads {
			if c.ID = FirstInt(p, Path("client_id"), Path("clientId"), Path("cliente_id")); c.ID != 0 {
				break
			}
		}
		for _, p := range payloads {
			if c.Name = FirstString(p, Path("client_name"), Path("clientName"), Path("cliente_nome"), Path("client"), Path("cliente")); c.Name != "" {
				break
			}
		}
		return c
	}
	c := Client{
		ID:       FirstInt(raw, clientIDAccessors...),
		Name:     FirstString(raw, clientNameAccessors...),
		Document: FirstString(raw, clientDocumentAccessors...),
		Phone:    FirstString(raw, clientPhoneAccessors...),
		Email:    FirstString(raw, clientEmailAccessors...),
		Contact:  FirstString(raw, clientContactAccessors...),
	}
	if obj := FirstMap(raw, addressObjectAccessors...); obj != nil {
		c.AddressParts = addressFromObject(obj)
		c.Address = c.AddressParts.String()
	} else {
		c.Address = FirstString(raw, addressTextAccessors...)
		c.AddressParts = ParseAddress(c.Address)
	}
	return c
}

func addressFromObject(obj map[string]any) Address {
	street := FirstString(obj, Path("street"), Path("logradouro"), Path("rua"))
	if number := FirstString(obj, Path("number"), Path("numero")); number != "" {
		street = strings.TrimSpace(street + ", " + number)
	}
	if district := FirstString(obj, Path("district"), Path("neighborhood"), Path("bairro")); district != "" {
		street = strings.TrimSpace(street + " - " + district)
	}
	return Address{
		Street:     strings.Trim(street, ", -"),
		City:       FirstString(obj, Path("city"), Path("cidade")),
		State:      strings.ToUpper(FirstString(obj, Path("state"), Path("uf"), Path("estado"))),
		PostalCode: FirstString(obj, Path("postal_code"), Path("postalCode"), Path("zip"), Path("cep")),
	}
}

// NormalizeTechnicians accepts arrays of objects or of plain names.
func NormalizeTechnicians(payloads ...map[string]any) []Technician {
	out := make([]Technician, 0)
	for _, p := range payloads {
		items := FirstSlice(p, technicianScopes...)
		if len(items) == 0 {
			continue
		}
		for _, it := range items {
			switch v := it.(type) {
			case string:
				if name := strings.TrimSpace(v); name != "" {
					out = append(out, Technician{Name: name})
				}
			case map[string]any:
				t := Technician{
					ID:         FirstInt(v, Path("id")),
					Name:       FirstString(v, technicianNameAccessors...),
					Credential: FirstString(v, technicianCredAccessors...),
				}
				if t.Name != "" {
					out = append(out, t)
				}
			}
		}
		break
	}
	return out
}

// NormalizeCompany reads the issuer profile, falling back to DefaultCompanyProfile
// when the payloads carry none.
func NormalizeCompany(payloads ...map[string]any) CompanyProfile {
	if profile, ok := LookupCompany(payloads...); ok {
		return profile
	}
	return DefaultCompanyProfile()
}

// LookupCompany returns the first issuer profile found in the payloads.
func LookupCompany(payloads ...map[string]any) (CompanyProfile, bool) {
	for _, p := range payloads {
		raw := FirstMap(p, companyScopes...)
		if raw == nil {
			continue
		}
		if profile := CompanyProfileFromMap(raw); profile.Name != "" {
			return profile, true
		}
	}
	return CompanyProfile{}, false
}

// CompanyProfileFromMap reads a profile object without applying the fallback.
func CompanyProfileFromMap(raw map[string]any) CompanyProfile {
	profile := CompanyProfile{
		Name:                  FirstString(raw, companyNameAccessors...),
		TaxID:                 FirstString(raw, companyTaxIDAccessors...),
		Phone:                 FirstString(raw, clientPhoneAccessors...),
		Email:                 FirstString(raw, clientEmailAccessors...),
		Website:               FirstString(raw, companyWebsiteAccessors...),
		SanitaryLicense:       FirstString(raw, companyLicenseAccessors...),
		EnvironmentalLicense:  FirstString(raw, companyEnvLicenseAccessors...),
		ResponsibleTechnician: FirstString(raw, companyResponsibleAccessors...),
		ResponsibleCredential: FirstString(raw, companyRespCredAccessors...),
		LogoURL:               FirstString(raw, companyLogoAccessors...),
	}
	if obj := FirstMap(raw, addressObjectAccessors...); obj != nil {
		profile.Address = addressFromObject(obj).String()
	} else {
		profile.Address = FirstString(raw, addressTextAccessors...)
	}
	return profile
}
