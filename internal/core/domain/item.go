package domain

import "github.com/shopspring/decimal"

// PurchaseItemLine is a SKU-level line within a shipment. Weight and
// dimensions per unit are declared fallbacks used only when no cartons
// reference the line.
type PurchaseItemLine struct {
	ID              string          `json:"id" bson:"_id,omitempty"`
	SKU             string          `json:"sku" bson:"sku"`
	Name            string          `json:"name" bson:"name"`
	Quantity        int             `json:"quantity" bson:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price" bson:"-"`
	Currency        string          `json:"currency" bson:"currency"`
	WeightKgPerUnit *float64        `json:"weight_kg_per_unit,omitempty" bson:"weight_kg_per_unit,omitempty"`
	DimsPerUnit     *Dimensions     `json:"dims_per_unit,omitempty" bson:"dims_per_unit,omitempty"`
}

// TotalValue returns quantity × unit price in the line's own currency.
func (p *PurchaseItemLine) TotalValue() decimal.Decimal {
	return p.UnitPrice.Mul(decimal.NewFromInt(int64(p.Quantity)))
}
