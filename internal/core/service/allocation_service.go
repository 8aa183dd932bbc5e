package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/importdesk/landing-cost/internal/core/domain"
	"github.com/importdesk/landing-cost/internal/core/ports"
)

// amountPlaces is the precision allocations are settled to before the
// rounding residual is reconciled.
const amountPlaces = 4

var (
	hybridWeightRatio = decimal.NewFromFloat(domain.HybridWeightRatio)
	hybridValueRatio  = decimal.NewFromFloat(domain.HybridValueRatio)
)

type AllocationService struct {
	logger zerolog.Logger
}

func NewAllocationService(logger zerolog.Logger) *AllocationService {
	return &AllocationService{logger: logger}
}

// Allocate computes the full landing-cost table for a shipment snapshot. It
// is pure: no I/O, no shared state, identical inputs give identical outputs.
func (s *AllocationService) Allocate(ctx context.Context, req ports.AllocationRequest) (*ports.AllocationResponse, error) {
	reporting := normalizeCurrency(req.ReportingCurrency)
	if reporting == "" {
		return nil, fmt.Errorf("reporting currency is required")
	}

	divisor := FreightDivisor(req.Costs, req.Meta)
	phys := resolvePhysical(req.Items, req.Cartons, divisor)

	// Item values convert up front so a missing rate surfaces together with
	// missing cost-line rates in a single blocking error.
	values := make([]decimal.Decimal, len(req.Items))
	missingValueRates := make(map[string][]string)
	for i, item := range req.Items {
		value, err := convertAmount(item.TotalValue(), item.Currency, reporting, req.Rates)
		if err != nil {
			cur := normalizeCurrency(item.Currency)
			missingValueRates[cur] = append(missingValueRates[cur], item.ID)
			continue
		}
		values[i] = value
	}

	pool, poolErr := buildCostPool(req.Costs, req.Meta, reporting, req.Rates)
	if err := mergeMissingRates(poolErr, missingValueRates, reporting); err != nil {
		s.logger.Warn().Str("shipment_id", req.ShipmentID).Err(err).Msg("allocation blocked on missing fx rates")
		return nil, err
	}

	auto, effective, overridden, reasoning, err := resolveMethod(req.Method, req.Meta.UnitType)
	if err != nil {
		return nil, err
	}

	amounts, fellBack := s.allocatePool(effective, pool, req.Items, phys, values)

	resp := &ports.AllocationResponse{
		ShipmentID:           req.ShipmentID,
		ReportingCurrency:    reporting,
		Items:                make([]ports.ItemAllocation, len(req.Items)),
		Totals:               pool.totals,
		GrandTotalByCurrency: pool.byCurrency,
		AutoSelectedMethod:   auto,
		EffectiveMethod:      effective,
		MethodOverridden:     overridden,
		MethodReasoning:      reasoning,
	}
	if fellBack {
		resp.Warnings = append(resp.Warnings, domain.WarnBasisFallback)
	}

	weightBased := effective == domain.MethodChargeableWeight || effective == domain.MethodHybrid
	for i, item := range req.Items {
		row := ports.ItemAllocation{
			PurchaseItemID:     item.ID,
			SKU:                item.SKU,
			Name:               item.Name,
			Quantity:           item.Quantity,
			ActualWeightKg:     phys[i].actualKg,
			VolumetricWeightKg: phys[i].volumetricKg,
			ChargeableWeightKg: phys[i].chargeableKg,
		}
		for _, category := range domain.CostCategories {
			amount := amounts[category][i]
			setCategoryAmount(&row, category, amount)
			row.TotalAllocated = row.TotalAllocated.Add(amount)
		}

		if phys[i].missingDims {
			row.Warnings = append(row.Warnings, domain.WarnMissingDimensions)
		}
		if weightBased && phys[i].missingWeight {
			row.Warnings = append(row.Warnings, domain.WarnMissingWeight)
		}
		if item.Quantity <= 0 {
			row.Warnings = append(row.Warnings, domain.WarnZeroQuantity)
		} else {
			unitValue := values[i].Div(decimal.NewFromInt(int64(item.Quantity)))
			row.LandingCostPerUnit = unitValue.Add(row.TotalAllocated.Div(decimal.NewFromInt(int64(item.Quantity))))
		}

		resp.Items[i] = row
		resp.TotalUnits += item.Quantity
		resp.TotalActualWeight += phys[i].actualKg
		resp.TotalVolumetricWeight += phys[i].volumetricKg
		resp.TotalChargeableWeight += phys[i].chargeableKg
	}

	s.logger.Debug().
		Str("shipment_id", req.ShipmentID).
		Str("method", string(effective)).
		Int("items", len(resp.Items)).
		Str("grand_total", pool.totals.Total.String()).
		Msg("allocation computed")

	return resp, nil
}

// allocatePool spreads every category total over the items under the
// effective method. fellBack reports that the method's basis summed to zero
// and a per-quantity split was used instead.
func (s *AllocationService) allocatePool(method domain.AllocationMethod, pool *costPool, items []domain.PurchaseItemLine, phys []itemPhysical, values []decimal.Decimal) (map[domain.CostCategory][]decimal.Decimal, bool) {
	amounts := make(map[domain.CostCategory][]decimal.Decimal, len(domain.CostCategories))
	if len(items) == 0 {
		for _, category := range domain.CostCategories {
			amounts[category] = nil
		}
		return amounts, false
	}

	allocate, fellBack := s.allocator(method, items, phys, values)
	anyAllocated := false
	for _, category := range domain.CostCategories {
		total := pool.totals.Category(category)
		if total.IsZero() {
			amounts[category] = make([]decimal.Decimal, len(items))
			continue
		}
		amounts[category] = allocate(total)
		anyAllocated = true
	}
	return amounts, fellBack && anyAllocated
}

// allocator builds the per-total allocation function for a method. The basis
// is fixed per run, so it is resolved once and reused for every category.
func (s *AllocationService) allocator(method domain.AllocationMethod, items []domain.PurchaseItemLine, phys []itemPhysical, values []decimal.Decimal) (func(total decimal.Decimal) []decimal.Decimal, bool) {
	weights := make([]decimal.Decimal, len(items))
	for i := range phys {
		weights[i] = decimal.NewFromFloat(phys[i].chargeableKg)
	}
	volumes := make([]decimal.Decimal, len(items))
	for i := range phys {
		volumes[i] = decimal.NewFromFloat(phys[i].volumetricKg)
	}
	quantities := make([]decimal.Decimal, len(items))
	for i, item := range items {
		quantities[i] = decimal.NewFromInt(int64(item.Quantity))
	}
	ones := make([]decimal.Decimal, len(items))
	for i := range ones {
		ones[i] = decimal.NewFromInt(1)
	}

	weightSum := sumDecimals(weights)
	valueSum := sumDecimals(values)

	switch method {
	case domain.MethodHybrid:
		switch {
		case weightSum.IsZero() && valueSum.IsZero():
			s.logger.Warn().Msg("hybrid basis unavailable, falling back to units")
			return s.proportionalAllocator(quantities, ones), true
		case weightSum.IsZero():
			return s.proportionalAllocator(values, quantities), false
		case valueSum.IsZero():
			return s.proportionalAllocator(weights, quantities), false
		default:
			return func(total decimal.Decimal) []decimal.Decimal {
				out := make([]decimal.Decimal, len(items))
				for i := range items {
					weightPart := total.Mul(hybridWeightRatio).Mul(weights[i]).Div(weightSum)
					valuePart := total.Mul(hybridValueRatio).Mul(values[i]).Div(valueSum)
					out[i] = weightPart.Add(valuePart)
				}
				return reconcileRounding(out, total)
			}, false
		}
	case domain.MethodPerUnit:
		return s.proportionalAllocator(ones, nil), false
	case domain.MethodUnits:
		return s.proportionalAllocator(quantities, ones), false
	case domain.MethodChargeableWeight:
		return s.basisOrFallback(weights, quantities, ones)
	case domain.MethodValue:
		return s.basisOrFallback(values, quantities, ones)
	case domain.MethodVolume:
		return s.basisOrFallback(volumes, quantities, ones)
	default:
		return s.proportionalAllocator(quantities, ones), false
	}
}

// basisOrFallback degrades a zero-sum basis to quantities, then to an equal
// split per line when quantities are all zero too.
func (s *AllocationService) basisOrFallback(basis, quantities, ones []decimal.Decimal) (func(total decimal.Decimal) []decimal.Decimal, bool) {
	if !sumDecimals(basis).IsZero() {
		return s.proportionalAllocator(basis, quantities), false
	}
	s.logger.Warn().Msg("allocation basis unavailable, falling back to units")
	return s.proportionalAllocator(quantities, ones), true
}

// proportionalAllocator splits a total proportionally to basis; when the
// basis sums to zero it retries with fallback, then an equal per-line split.
func (s *AllocationService) proportionalAllocator(basis, fallback []decimal.Decimal) func(total decimal.Decimal) []decimal.Decimal {
	effective := basis
	if sumDecimals(effective).IsZero() && fallback != nil {
		effective = fallback
	}
	if sumDecimals(effective).IsZero() {
		effective = make([]decimal.Decimal, len(basis))
		for i := range effective {
			effective[i] = decimal.NewFromInt(1)
		}
	}
	basisSum := sumDecimals(effective)
	return func(total decimal.Decimal) []decimal.Decimal {
		out := make([]decimal.Decimal, len(effective))
		for i := range effective {
			out[i] = total.Mul(effective[i]).Div(basisSum)
		}
		return reconcileRounding(out, total)
	}
}

// reconcileRounding settles every allocation to 4 decimal places and pushes
// the residual onto the largest allocation so the column still sums exactly
// to the category total.
func reconcileRounding(amounts []decimal.Decimal, total decimal.Decimal) []decimal.Decimal {
	if len(amounts) == 0 {
		return amounts
	}
	rounded := make([]decimal.Decimal, len(amounts))
	allocated := decimal.Zero
	largest := 0
	for i, amount := range amounts {
		rounded[i] = amount.Round(amountPlaces)
		allocated = allocated.Add(rounded[i])
		if rounded[i].GreaterThan(rounded[largest]) {
			largest = i
		}
	}
	if diff := total.Sub(allocated); !diff.IsZero() {
		rounded[largest] = rounded[largest].Add(diff)
	}
	return rounded
}

func sumDecimals(values []decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(v)
	}
	return sum
}

func setCategoryAmount(row *ports.ItemAllocation, category domain.CostCategory, amount decimal.Decimal) {
	switch category {
	case domain.CostFreight:
		row.FreightAllocated = amount
	case domain.CostDuty:
		row.DutyAllocated = amount
	case domain.CostBrokerage:
		row.BrokerageAllocated = amount
	case domain.CostInsurance:
		row.InsuranceAllocated = amount
	case domain.CostPackaging:
		row.PackagingAllocated = amount
	default:
		row.OtherAllocated = amount
	}
}

// mergeMissingRates folds missing item-value rates into a pool build error so
// the caller sees every unresolved currency in one report.
func mergeMissingRates(poolErr error, itemMissing map[string][]string, reporting string) error {
	var fxErr *domain.MissingFXRateError
	if poolErr != nil {
		ok := false
		if fxErr, ok = poolErr.(*domain.MissingFXRateError); !ok {
			return poolErr
		}
	}
	if len(itemMissing) == 0 {
		return errOrNil(fxErr)
	}
	if fxErr == nil {
		fxErr = &domain.MissingFXRateError{ReportingCurrency: normalizeCurrency(reporting), Lines: make(map[string][]string)}
	}
	for currency, ids := range itemMissing {
		fxErr.Lines[currency] = append(fxErr.Lines[currency], ids...)
	}
	return fxErr
}

func errOrNil(err *domain.MissingFXRateError) error {
	if err == nil {
		return nil
	}
	return err
}
