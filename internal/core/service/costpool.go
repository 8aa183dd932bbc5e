package service

import (
	"github.com/shopspring/decimal"

	"github.com/importdesk/landing-cost/internal/core/domain"
	"github.com/importdesk/landing-cost/internal/core/ports"
)

// costPool is the shipment's money to be spread over items, normalized into
// the reporting currency.
type costPool struct {
	totals ports.CategoryTotals
	// byCurrency re-expresses the grand total in each contributing source
	// currency, using the first rate seen for that currency.
	byCurrency map[string]decimal.Decimal

	firstRate map[string]decimal.Decimal
}

// buildCostPool converts every cost line and shipment-level figure into the
// reporting currency and sums them per category. An explicit fx_rate on a
// line wins over the shared rate table. Any line whose currency cannot be
// converted is collected; when one or more exist the whole build fails with
// a MissingFXRateError so no partial pool is ever allocated.
func buildCostPool(costs []domain.ShipmentCost, meta ports.ShipmentMeta, reporting string, rates map[string]decimal.Decimal) (*costPool, error) {
	pool := &costPool{
		byCurrency: make(map[string]decimal.Decimal),
		firstRate:  make(map[string]decimal.Decimal),
	}
	missing := make(map[string][]string)

	add := func(category domain.CostCategory, amount decimal.Decimal, currency, lineID string, explicitRate *decimal.Decimal) {
		currency = normalizeCurrency(currency)
		if currency == "" {
			currency = normalizeCurrency(reporting)
		}

		var base decimal.Decimal
		rate := decimal.NewFromInt(1)
		switch {
		case currency == normalizeCurrency(reporting):
			base = amount
		case explicitRate != nil && explicitRate.Sign() > 0:
			rate = *explicitRate
			base = amount.Mul(rate)
		default:
			var err error
			base, err = convertAmount(amount, currency, reporting, rates)
			if err != nil {
				missing[currency] = append(missing[currency], lineID)
				return
			}
			rate = rates[currency]
		}
		if _, seen := pool.firstRate[currency]; !seen {
			pool.firstRate[currency] = rate
		}
		pool.addToCategory(category, base)
	}

	for _, cost := range costs {
		add(cost.Category, cost.AmountOriginal, cost.Currency, cost.ID, cost.FXRate)
	}

	// Shipment-level figures join the pool additively. They carry no line id,
	// so a synthetic one names the field for the missing-rate report.
	if meta.ShippingCost != nil && meta.ShippingCost.Sign() > 0 {
		add(domain.CostFreight, *meta.ShippingCost, meta.ShippingCostCurrency, "shipment.shipping_cost", nil)
	}
	if meta.POShippingCost != nil && meta.POShippingCost.Sign() > 0 {
		add(domain.CostFreight, *meta.POShippingCost, meta.POShippingCostCurrency, "shipment.po_shipping_cost", nil)
	}
	if meta.InsuranceValue != nil && meta.InsuranceValue.Sign() > 0 {
		add(domain.CostInsurance, *meta.InsuranceValue, reporting, "shipment.insurance_value", nil)
	}

	if len(missing) > 0 {
		return nil, &domain.MissingFXRateError{ReportingCurrency: normalizeCurrency(reporting), Lines: missing}
	}

	for _, category := range domain.CostCategories {
		pool.totals.Total = pool.totals.Total.Add(pool.totals.Category(category))
	}

	// Audit line: the grand total shown in every currency that contributed,
	// converted back with that currency's first-seen rate.
	for currency, rate := range pool.firstRate {
		pool.byCurrency[currency] = pool.totals.Total.Div(rate)
	}
	return pool, nil
}

func (p *costPool) addToCategory(category domain.CostCategory, amount decimal.Decimal) {
	switch category {
	case domain.CostFreight:
		p.totals.Freight = p.totals.Freight.Add(amount)
	case domain.CostDuty:
		p.totals.Duty = p.totals.Duty.Add(amount)
	case domain.CostBrokerage:
		p.totals.Brokerage = p.totals.Brokerage.Add(amount)
	case domain.CostInsurance:
		p.totals.Insurance = p.totals.Insurance.Add(amount)
	case domain.CostPackaging:
		p.totals.Packaging = p.totals.Packaging.Add(amount)
	default:
		p.totals.Other = p.totals.Other.Add(amount)
	}
}
