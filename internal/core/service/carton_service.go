package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/importdesk/landing-cost/internal/core/domain"
	"github.com/importdesk/landing-cost/internal/core/ports"
)

// CartonService manages shipment cartons. Partial measurements are allowed
// on create and update; incomplete dimensions only surface later as an
// allocation warning. The bulk path insists on a complete triple because it
// exists precisely to record a finished measurement across identical cartons.
type CartonService struct {
	repo   ports.CartonRepository
	logger zerolog.Logger
}

func NewCartonService(repo ports.CartonRepository, logger zerolog.Logger) *CartonService {
	return &CartonService{repo: repo, logger: logger}
}

func (s *CartonService) AddCarton(ctx context.Context, input ports.CartonInput) (*domain.Carton, error) {
	carton, err := buildCarton(newID("CTN"), input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, carton); err != nil {
		return nil, fmt.Errorf("create carton: %w", err)
	}
	s.logger.Info().
		Str("shipment_id", carton.ShipmentID).
		Str("carton_id", carton.ID).
		Str("purchase_item_id", carton.PurchaseItemID).
		Msg("carton created")
	return carton, nil
}

func (s *CartonService) UpdateCarton(ctx context.Context, cartonID string, input ports.CartonInput) (*domain.Carton, error) {
	existing, err := s.repo.FindByID(ctx, input.ShipmentID, cartonID)
	if err != nil {
		return nil, err
	}
	carton, err := buildCarton(existing.ID, input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, carton); err != nil {
		return nil, fmt.Errorf("update carton: %w", err)
	}
	s.logger.Info().Str("shipment_id", carton.ShipmentID).Str("carton_id", carton.ID).Msg("carton updated")
	return carton, nil
}

func (s *CartonService) DeleteCarton(ctx context.Context, shipmentID, cartonID string) error {
	if err := s.repo.Delete(ctx, shipmentID, cartonID); err != nil {
		return err
	}
	s.logger.Info().Str("shipment_id", shipmentID).Str("carton_id", cartonID).Msg("carton deleted")
	return nil
}

func (s *CartonService) BulkSetDimensions(ctx context.Context, input ports.BulkDimensionsInput) (int64, error) {
	if len(input.CartonIDs) == 0 {
		return 0, nil
	}
	if !input.Dimensions.Complete() {
		return 0, domain.ErrIncompleteDimensions
	}
	if input.GrossWeightKg != nil && *input.GrossWeightKg < 0 {
		return 0, fmt.Errorf("gross weight must not be negative")
	}
	updated, err := s.repo.BulkSetDimensions(ctx, input.ShipmentID, input.CartonIDs, input.Dimensions, input.GrossWeightKg)
	if err != nil {
		return 0, fmt.Errorf("bulk set dimensions: %w", err)
	}
	s.logger.Info().
		Str("shipment_id", input.ShipmentID).
		Int("requested", len(input.CartonIDs)).
		Int64("updated", updated).
		Msg("carton dimensions bulk applied")
	return updated, nil
}

func (s *CartonService) ListCartons(ctx context.Context, shipmentID string) ([]domain.Carton, error) {
	return s.repo.ListByShipment(ctx, shipmentID)
}

func buildCarton(id string, input ports.CartonInput) (*domain.Carton, error) {
	if input.PurchaseItemID == "" {
		return nil, fmt.Errorf("purchase item id is required")
	}
	if input.QtyInCarton < 0 {
		return nil, fmt.Errorf("quantity must not be negative")
	}
	if input.GrossWeightKg != nil && *input.GrossWeightKg < 0 {
		return nil, fmt.Errorf("gross weight must not be negative")
	}
	if input.Dimensions != nil {
		d := input.Dimensions
		if d.LengthCm < 0 || d.WidthCm < 0 || d.HeightCm < 0 {
			return nil, fmt.Errorf("dimensions must not be negative")
		}
	}
	return &domain.Carton{
		ID:             id,
		ShipmentID:     input.ShipmentID,
		PurchaseItemID: input.PurchaseItemID,
		QtyInCarton:    input.QtyInCarton,
		Dimensions:     input.Dimensions,
		GrossWeightKg:  input.GrossWeightKg,
	}, nil
}

var _ ports.CartonService = (*CartonService)(nil)
