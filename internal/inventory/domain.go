package inventory

import (
	"github.com/pestdocs/pestdocs/internal/derive"
	"github.com/pestdocs/pestdocs/internal/printable"
)

// Product is the stock view of a catalog product.
type Product struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Unit         string  `json:"unit,omitempty"`
	CurrentStock float64 `json:"current_stock"`
	MinimumStock float64 `json:"minimum_stock"`
}

// Alert is a product with its urgency.
type Alert struct {
	Product
	Urgency int    `json:"urgency"`
	Level   string `json:"level"`
	Label   string `json:"label"`
}

var (
	probe            = printable.Path
	idAccessors      = []printable.Accessor{probe("id"), probe("product_id")}
	nameAccessors    = []printable.Accessor{probe("name"), probe("nome"), probe("product_name")}
	unitAccessors    = []printable.Accessor{probe("unit"), probe("unidade"), probe("stock_unit")}
	currentAccessors = []printable.Accessor{probe("current_stock"), probe("stock_current"), probe("currentStock"), probe("estoque_atual"), probe("stock", "current")}
	minimumAccessors = []printable.Accessor{probe("minimum_stock"), probe("stock_minimum"), probe("minimumStock"), probe("estoque_minimo"), probe("stock", "minimum")}
)

// ProductFromMap reads the stock fields of a backend product.
func ProductFromMap(raw map[string]any) Product {
	return Product{
		ID:           printable.FirstInt(raw, idAccessors...),
		Name:         printable.FirstString(raw, nameAccessors...),
		Unit:         printable.FirstString(raw, unitAccessors...),
		CurrentStock: printable.FirstFloat(raw, currentAccessors...),
		MinimumStock: printable.FirstFloat(raw, minimumAccessors...),
	}
}

// Evaluate computes the alert for p.
func Evaluate(p Product) Alert {
	urgency := derive.ComputeUrgency(p.MinimumStock, p.CurrentStock)
	level := derive.ClassifyUrgency(urgency)
	return Alert{Product: p, Urgency: urgency, Level: level.String(), Label: level.Label()}
}
