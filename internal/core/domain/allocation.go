package domain

import "errors"

// AllocationMethod is the proportionality basis used to distribute a shared
// cost pool across item lines.
//
// PER_UNIT and UNITS are deliberately distinct: PER_UNIT gives every item
// line an equal share regardless of quantity, while UNITS splits in
// proportion to the number of physical units on each line.
type AllocationMethod string

const (
	MethodPerUnit          AllocationMethod = "PER_UNIT"
	MethodUnits            AllocationMethod = "UNITS"
	MethodChargeableWeight AllocationMethod = "CHARGEABLE_WEIGHT"
	MethodValue            AllocationMethod = "VALUE"
	MethodVolume           AllocationMethod = "VOLUME"
	MethodHybrid           AllocationMethod = "HYBRID"
)

var ErrInvalidMethod = errors.New("invalid allocation method")

// Valid reports whether m is a recognised allocation method.
func (m AllocationMethod) Valid() bool {
	switch m {
	case MethodPerUnit, MethodUnits, MethodChargeableWeight, MethodValue, MethodVolume, MethodHybrid:
		return true
	}
	return false
}

// Warning codes attached to allocation output. Degenerate data is never
// fatal: the affected line still receives an allocation via a documented
// fallback and carries the matching warning.
const (
	WarnMissingDimensions = "MISSING_DIMENSIONS"
	WarnMissingWeight     = "MISSING_WEIGHT"
	WarnZeroQuantity      = "ZERO_QUANTITY"
	WarnBasisFallback     = "BASIS_UNAVAILABLE_FALLBACK_TO_UNITS"
)

// Hybrid blend: 60% chargeable-weight allocation + 40% value allocation,
// each computed independently over the full pool before blending.
const (
	HybridWeightRatio = 0.6
	HybridValueRatio  = 0.4
)
