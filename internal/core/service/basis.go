package service

import (
	"fmt"
	"strings"

	"github.com/importdesk/landing-cost/internal/core/domain"
)

// SelectBasis picks an allocation method from the shipment's declared unit
// type. The match is a case-insensitive substring match so free-form entries
// like "40HQ Container" still resolve. The selector is total: every input,
// including an empty string, yields a method.
func SelectBasis(unitType string) (domain.AllocationMethod, string) {
	normalized := strings.ToLower(strings.TrimSpace(unitType))

	switch {
	case strings.Contains(normalized, "container"):
		return domain.MethodValue, reasonFor(domain.MethodValue, unitType, "containers typically use value-based allocation")
	case strings.Contains(normalized, "pallet"):
		return domain.MethodUnits, reasonFor(domain.MethodUnits, unitType, "pallets typically use unit-based allocation")
	case strings.Contains(normalized, "box"),
		strings.Contains(normalized, "parcel"),
		strings.Contains(normalized, "package"),
		strings.Contains(normalized, "carton"):
		return domain.MethodChargeableWeight, reasonFor(domain.MethodChargeableWeight, unitType, "boxes/parcels typically use weight-based allocation")
	default:
		return domain.MethodHybrid, reasonFor(domain.MethodHybrid, unitType, "mixed/unknown shipment type uses hybrid allocation")
	}
}

func reasonFor(method domain.AllocationMethod, unitType, detail string) string {
	if strings.TrimSpace(unitType) == "" {
		unitType = "items"
	}
	return fmt.Sprintf("Selected %s allocation for unit type %q (%s)", method, unitType, detail)
}

// resolveMethod applies the manual override when one is present; otherwise the
// auto-selected method stands. The auto answer is always computed so callers
// can revert an override without re-asking.
func resolveMethod(override *domain.AllocationMethod, unitType string) (auto, effective domain.AllocationMethod, overridden bool, reasoning string, err error) {
	auto, autoReason := SelectBasis(unitType)
	if override == nil {
		return auto, auto, false, autoReason, nil
	}
	if !override.Valid() {
		return auto, auto, false, autoReason, fmt.Errorf("%w: %q", domain.ErrInvalidMethod, *override)
	}
	return auto, *override, true, fmt.Sprintf("Manually overridden to %s (auto selection was %s)", *override, auto), nil
}
