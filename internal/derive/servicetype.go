package derive

import (
	"strings"

	"github.com/pestdocs/pestdocs/internal/platform/textfold"
)

// Service categories printed on work orders and certificates.
const (
	ServiceTermiteControl = "DESCUPINIZAÇÃO"
	ServiceRodentControl  = "DESRATIZAÇÃO"
	ServiceInsectControl  = "DESINSETIZAÇÃO"
	ServiceGeneric        = "CONTROLE DE PRAGAS"
)

// Ordered by priority: a single termite line classifies the whole record.
var serviceKeywords = []struct {
	category string
	keywords []string
}{
	{ServiceTermiteControl, []string{"cupim", "cupins", "termita", "termite"}},
	{ServiceRodentControl, []string{"rato", "ratazana", "camundongo", "roedor", "rodent"}},
	{ServiceInsectControl, []string{"barata", "formiga", "mosquito", "pulga", "carrapato", "mosca", "escorpiao", "aranha", "traca", "percevejo", "inseto"}},
}

// InferServiceType classifies a record from the target pests of its lines.
func InferServiceType(pests []string) string {
	folded := make([]string, 0, len(pests))
	for _, p := range pests {
		if p = textfold.Lower(p); p != "" {
			folded = append(folded, p)
		}
	}
	for _, group := range serviceKeywords {
		for _, pest := range folded {
			for _, kw := range group.keywords {
				if strings.Contains(pest, kw) {
					return group.category
				}
			}
		}
	}
	return ServiceGeneric
}
