package derive

import "math"

// ComputeUrgency expresses how far current stock has fallen below its minimum, in percent.
func ComputeUrgency(minimum, current float64) int {
	if minimum <= 0 || current >= minimum {
		return 0
	}
	u := int(math.Round(100 * (minimum - current) / minimum))
	switch {
	case u < 0:
		return 0
	case u > 100:
		return 100
	}
	return u
}

// UrgencyLevel buckets an urgency percentage.
type UrgencyLevel int

const (
	UrgencyOK UrgencyLevel = iota
	UrgencyLow
	UrgencyMedium
	UrgencyHigh
	UrgencyCritical
)

// ClassifyUrgency uses breakpoints at 25, 50 and 75.
func ClassifyUrgency(urgency int) UrgencyLevel {
	switch {
	case urgency <= 0:
		return UrgencyOK
	case urgency < 25:
		return UrgencyLow
	case urgency < 50:
		return UrgencyMedium
	case urgency < 75:
		return UrgencyHigh
	default:
		return UrgencyCritical
	}
}

// Label returns the Portuguese display label.
func (l UrgencyLevel) Label() string {
	switch l {
	case UrgencyLow:
		return "Baixa"
	case UrgencyMedium:
		return "Média"
	case UrgencyHigh:
		return "Alta"
	case UrgencyCritical:
		return "Crítica"
	default:
		return "OK"
	}
}

// String returns a stable machine-readable code.
func (l UrgencyLevel) String() string {
	switch l {
	case UrgencyLow:
		return "low"
	case UrgencyMedium:
		return "medium"
	case UrgencyHigh:
		return "high"
	case UrgencyCritical:
		return "critical"
	default:
		return "ok"
	}
}
