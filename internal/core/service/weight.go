package service

import (
	"math"

	"github.com/importdesk/landing-cost/internal/core/domain"
	"github.com/importdesk/landing-cost/internal/core/ports"
)

// VolumetricWeight returns the volumetric weight in kilograms for a complete
// dimension triple, rounded to 3 decimal places. ok is false when any
// dimension is absent or the divisor is not positive.
func VolumetricWeight(dims *domain.Dimensions, divisor float64) (kg float64, ok bool) {
	if !dims.Complete() || divisor <= 0 {
		return 0, false
	}
	volumeCm3 := dims.LengthCm * dims.WidthCm * dims.HeightCm
	return math.Round(volumeCm3/divisor*1000) / 1000, true
}

// ChargeableWeight returns the weight a carrier bills on: the greater of
// actual and volumetric weight when both are derivable, whichever is present
// when only one is, and 0 (ok=false) when neither is.
func ChargeableWeight(actualKg, volumetricKg float64, hasActual, hasVolumetric bool) (kg float64, ok bool) {
	switch {
	case hasActual && hasVolumetric:
		return math.Max(math.Max(actualKg, 0), math.Max(volumetricKg, 0)), true
	case hasActual:
		return math.Max(actualKg, 0), true
	case hasVolumetric:
		return math.Max(volumetricKg, 0), true
	default:
		return 0, false
	}
}

// FreightDivisor resolves the volumetric divisor for a shipment. Precedence:
// an explicit divisor override on a freight cost line, then the freight
// line's mode, then the shipment's default mode, then the air divisor.
func FreightDivisor(costs []domain.ShipmentCost, meta ports.ShipmentMeta) float64 {
	for _, cost := range costs {
		if cost.Category != domain.CostFreight {
			continue
		}
		if cost.VolumetricDivisor != nil && *cost.VolumetricDivisor > 0 {
			return *cost.VolumetricDivisor
		}
		if cost.Mode != "" {
			return cost.Mode.Divisor()
		}
	}
	return meta.DefaultMode.Divisor()
}

// itemPhysical is an item line's resolved physical basis: the sum over its
// cartons, or its own declared per-unit figures when no cartons exist.
type itemPhysical struct {
	actualKg      float64
	volumetricKg  float64
	chargeableKg  float64
	missingDims   bool // no volumetric weight derivable anywhere on the line
	missingWeight bool // zero chargeable weight overall
}

// resolvePhysical computes every item's weights from the carton list using
// one shipment-wide divisor. Cartons referencing unknown items are ignored.
func resolvePhysical(items []domain.PurchaseItemLine, cartons []domain.Carton, divisor float64) []itemPhysical {
	byItem := make(map[string][]domain.Carton, len(items))
	for _, carton := range cartons {
		byItem[carton.PurchaseItemID] = append(byItem[carton.PurchaseItemID], carton)
	}

	out := make([]itemPhysical, len(items))
	for i, item := range items {
		out[i] = resolveItemPhysical(item, byItem[item.ID], divisor)
	}
	return out
}

func resolveItemPhysical(item domain.PurchaseItemLine, cartons []domain.Carton, divisor float64) itemPhysical {
	var phys itemPhysical

	if len(cartons) == 0 {
		// No cartons tracked: fall back to the line's declared per-unit
		// weight and dimensions, scaled by quantity.
		qty := float64(item.Quantity)
		hasActual := item.WeightKgPerUnit != nil && *item.WeightKgPerUnit > 0
		if hasActual {
			phys.actualKg = *item.WeightKgPerUnit * qty
		}
		volPerUnit, hasVol := VolumetricWeight(item.DimsPerUnit, divisor)
		if hasVol {
			phys.volumetricKg = volPerUnit * qty
		}
		chargeable, ok := ChargeableWeight(phys.actualKg, phys.volumetricKg, hasActual, hasVol)
		phys.chargeableKg = chargeable
		phys.missingDims = !hasVol
		phys.missingWeight = !ok || chargeable == 0
		return phys
	}

	anyVolumetric := false
	anyChargeable := false
	for _, carton := range cartons {
		hasActual := carton.GrossWeightKg != nil && *carton.GrossWeightKg > 0
		actual := 0.0
		if hasActual {
			actual = *carton.GrossWeightKg
		}
		volumetric, hasVol := VolumetricWeight(carton.Dimensions, divisor)
		chargeable, ok := ChargeableWeight(actual, volumetric, hasActual, hasVol)

		phys.actualKg += actual
		phys.volumetricKg += volumetric
		phys.chargeableKg += chargeable
		anyVolumetric = anyVolumetric || hasVol
		anyChargeable = anyChargeable || ok
	}
	phys.missingDims = !anyVolumetric
	phys.missingWeight = !anyChargeable || phys.chargeableKg == 0
	return phys
}
