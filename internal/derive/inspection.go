package derive

import (
	"fmt"
	"time"
)

// InspectionOffsets are the follow-up offsets, in months, of the sign-off grid.
var InspectionOffsets = [4]int{6, 12, 18, 24}

// Inspection is one cell of the certificate inspection grid.
type Inspection struct {
	Months int
	Label  string
	Date   *time.Time
}

// InspectionSchedule lays out the four follow-up visits. Dates stay nil when base is nil.
func InspectionSchedule(base *time.Time) [4]Inspection {
	var out [4]Inspection
	for i, months := range InspectionOffsets {
		out[i] = Inspection{Months: months, Label: fmt.Sprintf("%d meses", months)}
		if base != nil && !base.IsZero() {
			d := AddMonths(*base, months)
			out[i].Date = &d
		}
	}
	return out
}
