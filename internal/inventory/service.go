package inventory

import (
	"context"
	"log/slog"
	"sort"
)

// Catalog lists raw products from the backend.
type Catalog interface {
	ListProducts(ctx context.Context) ([]map[string]any, error)
}

// Service computes stock alerts.
type Service struct {
	catalog Catalog
	logger  *slog.Logger
}

// NewService constructs a Service.
func NewService(catalog Catalog, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{catalog: catalog, logger: logger}
}

// Alerts returns products whose urgency is at least minUrgency, most urgent first.
// Ties keep name order. A minUrgency of 0 still drops products that are not short.
func (s *Service) Alerts(ctx context.Context, minUrgency int) ([]Alert, error) {
	raw, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	if minUrgency < 1 {
		minUrgency = 1
	}
	alerts := make([]Alert, 0, len(raw))
	for _, item := range raw {
		alert := Evaluate(ProductFromMap(item))
		if alert.Urgency >= minUrgency {
			alerts = append(alerts, alert)
		}
	}
	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].Urgency != alerts[j].Urgency {
			return alerts[i].Urgency > alerts[j].Urgency
		}
		return alerts[i].Name < alerts[j].Name
	})
	return alerts, nil
}
