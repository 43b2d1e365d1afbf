package printable

import (
	"fmt"
	"strings"
)

// Product technical fields may live on the line itself, under "product", or under the
// Portuguese "produto" object. Scope order is the lookup priority.
var productScopes = [][]string{nil, {"product"}, {"produto"}}

var (
	lineIDAccessors        = []Accessor{Path("id")}
	pestAccessors          = []Accessor{Path("pest"), Path("praga"), Path("target_pest"), Path("targetPest"), Path("pest", "name"), Path("praga", "nome")}
	productIDAccessors     = []Accessor{Path("product_id"), Path("productId"), Path("produto_id"), Path("product", "id"), Path("produto", "id")}
	productNameAccessors   = []Accessor{Path("product_name"), Path("productName"), Path("product", "name"), Path("produto", "nome"), Path("produto", "name"), Path("product"), Path("produto")}
	registrationAccessors  = Scoped(productScopes, "registration_number", "registrationNumber", "registro_ms", "registro")
	chemicalGroupAccessors = Scoped(productScopes, "chemical_group", "chemicalGroup", "grupo_quimico")
	compositionAccessors   = Scoped(productScopes, "composition", "composicao", "active_ingredient", "principio_ativo")
	recDilutionAccessors   = Scoped(productScopes, "recommended_dilution", "recommendedDilution", "diluicao_recomendada")
	toxicityAccessors      = Scoped(productScopes, "toxicity_note", "toxicityNote", "toxicity", "toxicidade", "classe_toxicologica")
	antidoteAccessors      = Scoped(productScopes, "antidote", "antidoto")
	emergencyAccessors     = Scoped(productScopes, "emergency_phone", "emergencyPhone", "telefone_emergencia")
	methodAccessors        = []Accessor{Path("application_method"), Path("applicationMethod"), Path("method"), Path("metodo_aplicacao")}
	dilutionAccessors      = []Accessor{Path("dilution"), Path("dilution_ratio"), Path("dilutionRatio"), Path("diluicao")}
	quantityAccessors      = []Accessor{Path("quantity"), Path("quantidade")}
	unitAccessors          = []Accessor{Path("unit"), Path("unidade")}
	warrantyAccessors      = []Accessor{Path("warranty"), Path("guarantee"), Path("garantia"), Path("warranty_days"), Path("warrantyDays"), Path("garantia_dias")}

	itemsAccessors = []Accessor{Path("items"), Path("itens")}
	linesAccessors = []Accessor{Path("lines"), Path("treatment_lines"), Path("treatmentLines"), Path("linhas")}
)

// NormalizeLine reads one treatment line, probing each technical field through its
// accessor list. Missing fields are empty strings.
func NormalizeLine(raw map[string]any) TreatmentLine {
	line := TreatmentLine{
		Pest:                FirstString(raw, pestAccessors...),
		ProductID:           FirstInt(raw, productIDAccessors...),
		ProductName:         FirstString(raw, productNameAccessors...),
		RegistrationNumber:  FirstString(raw, registrationAccessors...),
		ChemicalGroup:       FirstString(raw, chemicalGroupAccessors...),
		Composition:         FirstString(raw, compositionAccessors...),
		RecommendedDilution: FirstString(raw, recDilutionAccessors...),
		ToxicityNote:        FirstString(raw, toxicityAccessors...),
		Antidote:            FirstString(raw, antidoteAccessors...),
		EmergencyPhone:      FirstString(raw, emergencyAccessors...),
		ApplicationMethod:   FirstString(raw, methodAccessors...),
		Dilution:            FirstString(raw, dilutionAccessors...),
		Quantity:            quantityText(FirstString(raw, quantityAccessors...), FirstString(raw, unitAccessors...)),
		Warranty:            warrantyText(FirstScalar(raw, warrantyAccessors...)),
	}
	if id := FirstInt(raw, lineIDAccessors...); id != 0 {
		line.ID = &id
	}
	return line
}

// NormalizeLines prefers a pre-shaped "items" array over the raw "lines" array. The
// candidates are tried on each payload in order.
func NormalizeLines(payloads ...map[string]any) []TreatmentLine {
	for _, p := range payloads {
		if items := FirstSlice(p, itemsAccessors...); len(items) > 0 {
			return normalizeAll(items)
		}
	}
	for _, p := range payloads {
		if lines := FirstSlice(p, linesAccessors...); len(lines) > 0 {
			return normalizeAll(lines)
		}
	}
	return []TreatmentLine{}
}

func normalizeAll(items []any) []TreatmentLine {
	maps := asMaps(items)
	out := make([]TreatmentLine, 0, len(maps))
	for _, m := range maps {
		out = append(out, NormalizeLine(m))
	}
	return out
}

func quantityText(qty, unit string) string {
	if qty == "" || unit == "" {
		return qty
	}
	return qty + " " + unit
}

// warrantyText keeps free text as-is and renders day counts as "N dias".
func warrantyText(v any) string {
	switch x := v.(type) {
	case float64:
		if x <= 0 {
			return ""
		}
		return fmt.Sprintf("%d dias", int64(x))
	case string:
		s := strings.TrimSpace(x)
		if n := asInt(s); n > 0 && fmt.Sprint(n) == s {
			return fmt.Sprintf("%d dias", n)
		}
		return s
	default:
		if n := asInt(v); n > 0 {
			return fmt.Sprintf("%d dias", n)
		}
		return ""
	}
}
