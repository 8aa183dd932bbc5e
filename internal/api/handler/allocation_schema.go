package handler

import (
	"github.com/shopspring/decimal"
)

// --- Request types ---

type dimensionsRequest struct {
	LengthCm float64 `json:"length_cm" validate:"required,gt=0"`
	WidthCm  float64 `json:"width_cm"  validate:"required,gt=0"`
	HeightCm float64 `json:"height_cm" validate:"required,gt=0"`
}

type cartonRequest struct {
	ID             string             `json:"id"`
	PurchaseItemID string             `json:"purchase_item_id" validate:"required"`
	QtyInCarton    int                `json:"qty_in_carton"    validate:"gte=0"`
	Dimensions     *dimensionsRequest `json:"dimensions,omitempty"`
	GrossWeightKg  *float64           `json:"gross_weight_kg,omitempty" validate:"omitempty,gte=0"`
}

type itemRequest struct {
	ID              string             `json:"id"       validate:"required"`
	SKU             string             `json:"sku"`
	Name            string             `json:"name"`
	Quantity        int                `json:"quantity" validate:"gte=0"`
	UnitPrice       decimal.Decimal    `json:"unit_price"`
	Currency        string             `json:"currency" validate:"required,len=3"`
	WeightKgPerUnit *float64           `json:"weight_kg_per_unit,omitempty" validate:"omitempty,gte=0"`
	DimsPerUnit     *dimensionsRequest `json:"dims_per_unit,omitempty"`
}

type costLineRequest struct {
	ID                string           `json:"id"`
	Category          string           `json:"category" validate:"required,oneof=FREIGHT DUTY BROKERAGE INSURANCE PACKAGING OTHER"`
	Mode              string           `json:"mode,omitempty" validate:"omitempty,oneof=AIR SEA COURIER"`
	VolumetricDivisor *float64         `json:"volumetric_divisor,omitempty" validate:"omitempty,gt=0"`
	AmountOriginal    decimal.Decimal  `json:"amount_original"`
	Currency          string           `json:"currency" validate:"required,len=3"`
	FXRate            *decimal.Decimal `json:"fx_rate,omitempty"`
	Notes             string           `json:"notes,omitempty"`
}

type shipmentMetaRequest struct {
	UnitType               string           `json:"unit_type"`
	DefaultMode            string           `json:"default_mode,omitempty" validate:"omitempty,oneof=AIR SEA COURIER"`
	ShippingCost           *decimal.Decimal `json:"shipping_cost,omitempty"`
	ShippingCostCurrency   string           `json:"shipping_cost_currency,omitempty" validate:"omitempty,len=3"`
	InsuranceValue         *decimal.Decimal `json:"insurance_value,omitempty"`
	POShippingCost         *decimal.Decimal `json:"po_shipping_cost,omitempty"`
	POShippingCostCurrency string           `json:"po_shipping_cost_currency,omitempty" validate:"omitempty,len=3"`
}

// allocationRequest is the full input snapshot for a preview run. Cartons and
// costs may be omitted entirely (null), in which case the stored records for
// the shipment are used; an empty list means "none", not "load stored".
type allocationRequest struct {
	Cartons           []cartonRequest     `json:"cartons"`
	Items             []itemRequest       `json:"items" validate:"required,min=1,dive"`
	Costs             []costLineRequest   `json:"costs" validate:"omitempty,dive"`
	ShipmentMeta      shipmentMetaRequest `json:"shipment_meta"`
	Method            *string             `json:"method,omitempty" validate:"omitempty,oneof=PER_UNIT UNITS CHARGEABLE_WEIGHT VALUE VOLUME HYBRID"`
	ReportingCurrency string              `json:"reporting_currency" validate:"required,len=3"`
}

// --- Response types ---

type itemAllocationResponse struct {
	PurchaseItemID     string          `json:"purchase_item_id"`
	SKU                string          `json:"sku"`
	Name               string          `json:"name"`
	Quantity           int             `json:"quantity"`
	ActualWeightKg     float64         `json:"actual_weight_kg"`
	VolumetricWeightKg float64         `json:"volumetric_weight_kg"`
	ChargeableWeightKg float64         `json:"chargeable_weight_kg"`
	FreightAllocated   decimal.Decimal `json:"freight_allocated"`
	DutyAllocated      decimal.Decimal `json:"duty_allocated"`
	BrokerageAllocated decimal.Decimal `json:"brokerage_allocated"`
	InsuranceAllocated decimal.Decimal `json:"insurance_allocated"`
	PackagingAllocated decimal.Decimal `json:"packaging_allocated"`
	OtherAllocated     decimal.Decimal `json:"other_allocated"`
	TotalAllocated     decimal.Decimal `json:"total_allocated"`
	LandingCostPerUnit decimal.Decimal `json:"landing_cost_per_unit"`
	Warnings           []string        `json:"warnings"`
}

type categoryTotalsResponse struct {
	Freight    decimal.Decimal `json:"freight"`
	Duty       decimal.Decimal `json:"duty"`
	Brokerage  decimal.Decimal `json:"brokerage"`
	Insurance  decimal.Decimal `json:"insurance"`
	Packaging  decimal.Decimal `json:"packaging"`
	Other      decimal.Decimal `json:"other"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

type allocationResponse struct {
	ShipmentID            string                     `json:"shipment_id"`
	ReportingCurrency     string                     `json:"reporting_currency"`
	Items                 []itemAllocationResponse   `json:"items"`
	Totals                categoryTotalsResponse     `json:"totals"`
	TotalUnits            int                        `json:"total_units"`
	TotalActualWeight     float64                    `json:"total_actual_weight_kg"`
	TotalVolumetricWeight float64                    `json:"total_volumetric_weight_kg"`
	TotalChargeableWeight float64                    `json:"total_chargeable_weight_kg"`
	GrandTotalByCurrency  map[string]decimal.Decimal `json:"grand_total_by_currency"`
	AutoSelectedMethod    string                     `json:"auto_selected_method"`
	EffectiveMethod       string                     `json:"effective_method"`
	MethodOverridden      bool                       `json:"method_overridden"`
	MethodReasoning       string                     `json:"method_reasoning"`
	Warnings              []string                   `json:"warnings"`
}
