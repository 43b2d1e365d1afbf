package layout

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidCopies is returned for copy counts other than 1 or 2.
	ErrInvalidCopies = errors.New("layout: copies must be 1 or 2")
	// ErrUnknownVariant is returned for unsupported template variants.
	ErrUnknownVariant = errors.New("layout: unknown template variant")
)

// Variant selects the page density.
type Variant string

const (
	VariantStandard Variant = "standard"
	VariantCompact  Variant = "compact"
)

type variantSpec struct {
	rowsPerPage  int
	pageCapacity int
}

var variants = map[Variant]variantSpec{
	VariantStandard: {rowsPerPage: 8, pageCapacity: 30},
	VariantCompact:  {rowsPerPage: 14, pageCapacity: 44},
}

// Options are the caller-supplied generation parameters.
type Options struct {
	Copies             int
	IncludeCertificate bool
	Variant            Variant
	// GeneratedAt stamps the footer. Composition never reads the clock.
	GeneratedAt time.Time
}

func (o Options) resolve() (Options, variantSpec, error) {
	if o.Copies == 0 {
		o.Copies = 1
	}
	if o.Copies != 1 && o.Copies != 2 {
		return o, variantSpec{}, fmt.Errorf("%w: %d", ErrInvalidCopies, o.Copies)
	}
	if o.Variant == "" {
		o.Variant = VariantStandard
	}
	spec, ok := variants[o.Variant]
	if !ok {
		return o, variantSpec{}, fmt.Errorf("%w: %q", ErrUnknownVariant, o.Variant)
	}
	return o, spec, nil
}

// RowsPerPage exposes the treatment-table page size of a variant.
func RowsPerPage(v Variant) int {
	if spec, ok := variants[v]; ok {
		return spec.rowsPerPage
	}
	return variants[VariantStandard].rowsPerPage
}
