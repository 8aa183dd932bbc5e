package ports

import (
	"context"

	"github.com/importdesk/landing-cost/internal/core/domain"
)

// CartonInput carries all data needed to create or replace a carton.
type CartonInput struct {
	ShipmentID     string
	PurchaseItemID string
	QtyInCarton    int
	Dimensions     *domain.Dimensions
	GrossWeightKg  *float64
}

// BulkDimensionsInput applies a single measurement to a set of cartons,
// mirroring the warehouse flow where identical cartons are measured once.
type BulkDimensionsInput struct {
	ShipmentID    string
	CartonIDs     []string
	Dimensions    domain.Dimensions
	GrossWeightKg *float64
}

// CartonService defines use-case operations for shipment cartons.
type CartonService interface {
	AddCarton(ctx context.Context, input CartonInput) (*domain.Carton, error)
	UpdateCarton(ctx context.Context, cartonID string, input CartonInput) (*domain.Carton, error)
	DeleteCarton(ctx context.Context, shipmentID, cartonID string) error
	BulkSetDimensions(ctx context.Context, input BulkDimensionsInput) (int64, error)
	ListCartons(ctx context.Context, shipmentID string) ([]domain.Carton, error)
}
