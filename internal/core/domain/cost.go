package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// CostCategory classifies a shipment cost line.
type CostCategory string

const (
	CostFreight   CostCategory = "FREIGHT"
	CostDuty      CostCategory = "DUTY"
	CostBrokerage CostCategory = "BROKERAGE"
	CostInsurance CostCategory = "INSURANCE"
	CostPackaging CostCategory = "PACKAGING"
	CostOther     CostCategory = "OTHER"
)

// CostCategories lists every category in its fixed reporting order. Iteration
// over this slice (never over a map) keeps allocation output deterministic.
var CostCategories = []CostCategory{
	CostFreight,
	CostDuty,
	CostBrokerage,
	CostInsurance,
	CostPackaging,
	CostOther,
}

var ErrCostNotFound = errors.New("cost line not found")
var ErrInvalidCostCategory = errors.New("invalid cost category")
var ErrMissingFXRate = errors.New("missing fx rate")

// Valid reports whether c is a recognised cost category.
func (c CostCategory) Valid() bool {
	for _, known := range CostCategories {
		if c == known {
			return true
		}
	}
	return false
}

// MissingFXRateError is the blocking condition raised when a cost or item
// line is denominated in a currency with no rate to the reporting currency.
// Guessing a rate of 1 would silently mis-price the pool, so the run refuses
// instead and names every affected line so the caller can resolve the rates.
type MissingFXRateError struct {
	ReportingCurrency string
	// Lines maps a currency code to the ids of the lines priced in it.
	Lines map[string][]string
}

func (e *MissingFXRateError) Error() string {
	currencies := make([]string, 0, len(e.Lines))
	for cur := range e.Lines {
		currencies = append(currencies, cur)
	}
	sort.Strings(currencies)
	return fmt.Sprintf("missing fx rate to %s for %s", e.ReportingCurrency, strings.Join(currencies, ", "))
}

func (e *MissingFXRateError) Is(target error) bool {
	return target == ErrMissingFXRate
}

// ShipmentCost is one cost line attached to a shipment. Mode and the
// volumetric divisor override are meaningful only for FREIGHT lines.
// AmountBase is derived: amount_original × fx_rate, in the reporting currency.
type ShipmentCost struct {
	ID                string           `json:"id" bson:"_id,omitempty"`
	ShipmentID        string           `json:"shipment_id" bson:"shipment_id"`
	Category          CostCategory     `json:"category" bson:"category"`
	Mode              FreightMode      `json:"mode,omitempty" bson:"mode,omitempty"`
	VolumetricDivisor *float64         `json:"volumetric_divisor,omitempty" bson:"volumetric_divisor,omitempty"`
	AmountOriginal    decimal.Decimal  `json:"amount_original" bson:"-"`
	Currency          string           `json:"currency" bson:"currency"`
	FXRate            *decimal.Decimal `json:"fx_rate,omitempty" bson:"-"`
	AmountBase        decimal.Decimal  `json:"amount_base" bson:"-"`
	Notes             string           `json:"notes,omitempty" bson:"notes,omitempty"`
}
