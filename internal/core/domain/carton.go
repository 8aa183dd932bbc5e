package domain

import "errors"

// FreightMode identifies how a shipment travels. It selects the volumetric
// divisor carriers use to derive billable weight for bulky cargo.
type FreightMode string

const (
	ModeAir     FreightMode = "AIR"
	ModeSea     FreightMode = "SEA"
	ModeCourier FreightMode = "COURIER"
)

// Standard volumetric divisors in cm³ per kg.
const (
	DivisorAir     = 6000.0
	DivisorSea     = 1000000.0 // 1 CBM = 1000 kg
	DivisorCourier = 5000.0
	DivisorDefault = DivisorAir
)

var ErrCartonNotFound = errors.New("carton not found")
var ErrIncompleteDimensions = errors.New("all three dimensions are required")
var ErrInvalidFreightMode = errors.New("invalid freight mode")

// Valid reports whether m is a recognised freight mode. The empty mode is
// valid because non-freight cost lines carry no mode.
func (m FreightMode) Valid() bool {
	switch m {
	case "", ModeAir, ModeSea, ModeCourier:
		return true
	}
	return false
}

// Divisor returns the standard volumetric divisor for the mode. Empty or
// unrecognised modes fall back to the air divisor.
func (m FreightMode) Divisor() float64 {
	switch m {
	case ModeAir:
		return DivisorAir
	case ModeSea:
		return DivisorSea
	case ModeCourier:
		return DivisorCourier
	default:
		return DivisorDefault
	}
}

// Dimensions holds a carton's physical size in centimeters.
type Dimensions struct {
	LengthCm float64 `json:"length_cm" bson:"length_cm"`
	WidthCm  float64 `json:"width_cm" bson:"width_cm"`
	HeightCm float64 `json:"height_cm" bson:"height_cm"`
}

// Complete reports whether all three dimensions are present and positive.
// Volumetric weight is only derivable from a complete triple.
func (d *Dimensions) Complete() bool {
	return d != nil && d.LengthCm > 0 && d.WidthCm > 0 && d.HeightCm > 0
}

// Carton is one physical package within a shipment. Dimensions and gross
// weight are optional: a carton may be registered before it is measured.
type Carton struct {
	ID             string      `json:"id" bson:"_id,omitempty"`
	ShipmentID     string      `json:"shipment_id" bson:"shipment_id"`
	PurchaseItemID string      `json:"purchase_item_id" bson:"purchase_item_id"`
	QtyInCarton    int         `json:"qty_in_carton" bson:"qty_in_carton"`
	Dimensions     *Dimensions `json:"dimensions,omitempty" bson:"dimensions,omitempty"`
	GrossWeightKg  *float64    `json:"gross_weight_kg,omitempty" bson:"gross_weight_kg,omitempty"`
}
