package printable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pestdocs/pestdocs/internal/derive"
)

func TestBuildProjectionScheduledTermiteOrder(t *testing.T) {
	raw := map[string]any{
		"id":           float64(42),
		"code":         "OS-2024-0042",
		"status":       "Agendada",
		"created_at":   "2024-03-01T09:00:00Z",
		"scheduled_at": "2024-03-10T14:30:00",
		"client": map[string]any{
			"id":      float64(9),
			"name":    "Condomínio Solar",
			"address": "Rua X, 123 - Centro, Curitiba - PR, 80000-000",
		},
		"lines": []any{
			map[string]any{"pest": "cupim de madeira seca", "product_name": "Termicida"},
		},
	}

	p := BuildProjection(raw)

	assert.Equal(t, StatusInProgress, p.Status)
	assert.Equal(t, derive.ServiceTermiteControl, p.ServiceType)
	assert.Equal(t, "OS-2024-0042", p.Code)
	assert.Equal(t, "Curitiba", p.Client.AddressParts.City)
	assert.Equal(t, DefaultCompanyProfile(), p.Company)

	scheduled := time.Date(2024, time.March, 10, 14, 30, 0, 0, time.UTC)
	require.NotNil(t, p.Certificate.BaseDate)
	assert.Equal(t, scheduled, *p.Certificate.BaseDate)
	assert.Equal(t, "OS-2024-0042", p.Certificate.Number)
	assert.Equal(t, "2 ano(s)", p.Certificate.Validity.Text)

	want := []time.Time{
		time.Date(2024, time.September, 10, 14, 30, 0, 0, time.UTC),
		time.Date(2025, time.March, 10, 14, 30, 0, 0, time.UTC),
		time.Date(2025, time.September, 10, 14, 30, 0, 0, time.UTC),
		time.Date(2026, time.March, 10, 14, 30, 0, 0, time.UTC),
	}
	for i, insp := range p.Certificate.Inspections {
		require.NotNil(t, insp.Date, "inspection %d", i)
		assert.Equal(t, want[i], *insp.Date)
	}
}

func TestBuildProjectionJoinedPayload(t *testing.T) {
	raw := map[string]any{
		"service_order": map[string]any{
			"id":           float64(5),
			"status":       "ServiceOrderStatus.DONE",
			"created_at":   "2024-01-31",
			"service_type": "Sanitização",
			"technicians":  []any{"Ana", map[string]any{"nome": "Bruno", "crea": "PR-123"}},
		},
		"client":  map[string]any{"nome": "Padaria Central", "cnpj": "11.222.333/0001-44"},
		"company": map[string]any{"name": "Dedetiza Sul", "cnpj": "99.888.777/0001-66"},
		"certificate": map[string]any{
			"issue_date":     "2024-02-15",
			"validity_days":  float64(0),
			"validity_years": float64(3),
			"number":         "CERT-77",
		},
	}

	p := BuildProjection(raw)

	assert.Equal(t, "OS-5", p.Code)
	assert.Equal(t, StatusCompleted, p.Status)
	assert.Equal(t, "Sanitização", p.ServiceType)
	assert.Equal(t, "Padaria Central", p.Client.Name)
	assert.Equal(t, "11.222.333/0001-44", p.Client.Document)
	assert.Equal(t, "Dedetiza Sul", p.Company.Name)
	require.Len(t, p.Technicians, 2)
	assert.Equal(t, "Bruno", p.Technicians[1].Name)
	assert.Equal(t, "PR-123", p.Technicians[1].Credential)

	assert.Equal(t, "CERT-77", p.Certificate.Number)
	require.NotNil(t, p.Certificate.Validity.ExpiresAt)
	assert.Equal(t, time.Date(2027, time.February, 15, 0, 0, 0, 0, time.UTC), *p.Certificate.Validity.ExpiresAt)
	assert.Equal(t, "3 ano(s)", p.Certificate.Validity.Text)
}

func TestBuildProjectionEmptyPayload(t *testing.T) {
	p := BuildProjection(nil)

	assert.Equal(t, StatusOpen, p.Status)
	assert.Equal(t, derive.ServiceGeneric, p.ServiceType)
	assert.NotNil(t, p.Lines)
	assert.NotNil(t, p.Technicians)
	assert.Nil(t, p.Certificate.BaseDate)
	assert.Nil(t, p.Certificate.Validity.ExpiresAt)
	assert.Equal(t, "2 ano(s)", p.Certificate.Validity.Text)
	for _, insp := range p.Certificate.Inspections {
		assert.Nil(t, insp.Date)
		assert.NotEmpty(t, insp.Label)
	}
}

func TestNormalizeReportsSuppliedCompany(t *testing.T) {
	n := Normalize(map[string]any{"status": "OPEN"})
	assert.False(t, n.CompanySupplied)
	assert.Equal(t, DefaultCompanyProfile(), n.Company)
	assert.Empty(t, n.ServiceType)

	n.Company = CompanyProfile{Name: "Outra Empresa"}
	p := Derive(n)
	assert.Equal(t, "Outra Empresa", p.Company.Name)
	assert.Equal(t, derive.ServiceGeneric, p.ServiceType)

	n = Normalize(map[string]any{"empresa": map[string]any{"razao_social": "Controle Já"}})
	assert.True(t, n.CompanySupplied)
	assert.Equal(t, "Controle Já", n.Company.Name)
}
