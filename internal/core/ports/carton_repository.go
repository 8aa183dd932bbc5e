package ports

import (
	"context"

	"github.com/importdesk/landing-cost/internal/core/domain"
)

// CartonRepository defines persistence operations for shipment cartons.
type CartonRepository interface {
	Create(ctx context.Context, carton *domain.Carton) error
	Update(ctx context.Context, carton *domain.Carton) error
	// Delete removes a carton explicitly; cartons are never deleted
	// implicitly by other operations.
	Delete(ctx context.Context, shipmentID, cartonID string) error
	FindByID(ctx context.Context, shipmentID, cartonID string) (*domain.Carton, error)
	ListByShipment(ctx context.Context, shipmentID string) ([]domain.Carton, error)
	// BulkSetDimensions applies one dimension triple (and optionally a gross
	// weight) to every carton in ids, returning the number updated.
	BulkSetDimensions(ctx context.Context, shipmentID string, ids []string, dims domain.Dimensions, grossWeightKg *float64) (int64, error)
}
