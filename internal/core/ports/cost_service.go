package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/importdesk/landing-cost/internal/core/domain"
)

// CostInput carries all data needed to create or replace a cost line.
// FXRate is optional: when absent and the currency differs from the
// reporting currency, the service resolves a rate through the RateSource.
type CostInput struct {
	ShipmentID        string
	Category          domain.CostCategory
	Mode              domain.FreightMode
	VolumetricDivisor *float64
	AmountOriginal    decimal.Decimal
	Currency          string
	FXRate            *decimal.Decimal
	Notes             string
}

// CostService defines use-case operations for shipment cost lines. Any
// mutation invalidates previously computed allocations; the engine is always
// re-run from scratch, never patched incrementally.
type CostService interface {
	CreateCost(ctx context.Context, input CostInput) (*domain.ShipmentCost, error)
	UpdateCost(ctx context.Context, costID string, input CostInput) (*domain.ShipmentCost, error)
	DeleteCost(ctx context.Context, shipmentID, costID string) error
	ListCosts(ctx context.Context, shipmentID string) ([]domain.ShipmentCost, error)
}
