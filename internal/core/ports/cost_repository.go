package ports

import (
	"context"

	"github.com/importdesk/landing-cost/internal/core/domain"
)

// CostRepository defines persistence operations for shipment cost lines.
type CostRepository interface {
	Create(ctx context.Context, cost *domain.ShipmentCost) error
	// Update replaces the stored cost line; ErrCostNotFound when absent.
	Update(ctx context.Context, cost *domain.ShipmentCost) error
	Delete(ctx context.Context, shipmentID, costID string) error
	FindByID(ctx context.Context, shipmentID, costID string) (*domain.ShipmentCost, error)
	// ListByShipment returns the shipment's cost lines in insertion order.
	ListByShipment(ctx context.Context, shipmentID string) ([]domain.ShipmentCost, error)
}
