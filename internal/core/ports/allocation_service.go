package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/importdesk/landing-cost/internal/core/domain"
)

// ShipmentMeta carries the shipment-level figures that contribute to the cost
// pool outside of the explicit cost-line list, plus the declared unit type
// used for automatic basis selection.
type ShipmentMeta struct {
	UnitType string
	// DefaultMode is the shipment's freight mode, used for the volumetric
	// divisor when no freight cost line declares one.
	DefaultMode domain.FreightMode
	// ShippingCost is a freight figure recorded on the shipment record
	// itself. It is additive with FREIGHT cost lines, never an alternative.
	ShippingCost         *decimal.Decimal
	ShippingCostCurrency string
	// InsuranceValue is a shipment-level insurance figure in the reporting
	// currency.
	InsuranceValue *decimal.Decimal
	// POShippingCost is the shipping total rolled up from linked purchase
	// orders, in its own original currency. Also additive.
	POShippingCost         *decimal.Decimal
	POShippingCostCurrency string
}

// AllocationRequest is the engine's full input snapshot. Rates maps a
// currency code to its resolved rate into the reporting currency; rate
// lookup happens before the engine runs, never inside it.
type AllocationRequest struct {
	ShipmentID        string
	Cartons           []domain.Carton
	Items             []domain.PurchaseItemLine
	Costs             []domain.ShipmentCost
	Meta              ShipmentMeta
	Method            *domain.AllocationMethod // nil means auto-select
	ReportingCurrency string
	Rates             map[string]decimal.Decimal
}

// ItemAllocation is the computed allocation for one item line.
type ItemAllocation struct {
	PurchaseItemID      string
	SKU                 string
	Name                string
	Quantity            int
	ActualWeightKg      float64
	VolumetricWeightKg  float64
	ChargeableWeightKg  float64
	FreightAllocated    decimal.Decimal
	DutyAllocated       decimal.Decimal
	BrokerageAllocated  decimal.Decimal
	InsuranceAllocated  decimal.Decimal
	PackagingAllocated  decimal.Decimal
	OtherAllocated      decimal.Decimal
	TotalAllocated      decimal.Decimal
	LandingCostPerUnit  decimal.Decimal
	Warnings            []string
}

// CategoryTotals holds the cost pool per category plus the grand total, in
// the reporting currency.
type CategoryTotals struct {
	Freight   decimal.Decimal
	Duty      decimal.Decimal
	Brokerage decimal.Decimal
	Insurance decimal.Decimal
	Packaging decimal.Decimal
	Other     decimal.Decimal
	Total     decimal.Decimal
}

// Category returns the total for a single category.
func (t *CategoryTotals) Category(c domain.CostCategory) decimal.Decimal {
	switch c {
	case domain.CostFreight:
		return t.Freight
	case domain.CostDuty:
		return t.Duty
	case domain.CostBrokerage:
		return t.Brokerage
	case domain.CostInsurance:
		return t.Insurance
	case domain.CostPackaging:
		return t.Packaging
	default:
		return t.Other
	}
}

// AllocationResponse is the engine's full output: one row per item line in
// input order, shipment totals, and how the method was chosen.
type AllocationResponse struct {
	ShipmentID            string
	ReportingCurrency     string
	Items                 []ItemAllocation
	Totals                CategoryTotals
	TotalUnits            int
	TotalActualWeight     float64
	TotalVolumetricWeight float64
	TotalChargeableWeight float64
	// GrandTotalByCurrency re-expresses the grand total in each contributing
	// original currency for audit display.
	GrandTotalByCurrency map[string]decimal.Decimal
	AutoSelectedMethod   domain.AllocationMethod
	EffectiveMethod      domain.AllocationMethod
	MethodOverridden     bool
	MethodReasoning      string
	Warnings             []string
}

// AllocationService computes landing costs for a shipment snapshot. The
// computation is pure: identical inputs always produce identical outputs.
type AllocationService interface {
	Allocate(ctx context.Context, req AllocationRequest) (*AllocationResponse, error)
}
