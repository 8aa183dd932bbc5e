package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/importdesk/landing-cost/internal/core/domain"
	"github.com/importdesk/landing-cost/internal/core/ports"
)

// CostService manages shipment cost lines. On every write it settles the
// line's base amount: amount_original times the fx rate, in the reporting
// currency. Explicit rates win; otherwise the rate source is consulted.
type CostService struct {
	repo              ports.CostRepository
	rates             ports.RateSource
	reportingCurrency string
	logger            zerolog.Logger
}

func NewCostService(repo ports.CostRepository, rates ports.RateSource, reportingCurrency string, logger zerolog.Logger) *CostService {
	return &CostService{
		repo:              repo,
		rates:             rates,
		reportingCurrency: normalizeCurrency(reportingCurrency),
		logger:            logger,
	}
}

func (s *CostService) CreateCost(ctx context.Context, input ports.CostInput) (*domain.ShipmentCost, error) {
	cost, err := s.buildCost(ctx, newID("CST"), input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, cost); err != nil {
		return nil, fmt.Errorf("create cost: %w", err)
	}
	s.logger.Info().
		Str("shipment_id", cost.ShipmentID).
		Str("cost_id", cost.ID).
		Str("category", string(cost.Category)).
		Str("amount_base", cost.AmountBase.String()).
		Msg("cost line created")
	return cost, nil
}

func (s *CostService) UpdateCost(ctx context.Context, costID string, input ports.CostInput) (*domain.ShipmentCost, error) {
	existing, err := s.repo.FindByID(ctx, input.ShipmentID, costID)
	if err != nil {
		return nil, err
	}
	cost, err := s.buildCost(ctx, existing.ID, input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, cost); err != nil {
		return nil, fmt.Errorf("update cost: %w", err)
	}
	s.logger.Info().Str("shipment_id", cost.ShipmentID).Str("cost_id", cost.ID).Msg("cost line updated")
	return cost, nil
}

func (s *CostService) DeleteCost(ctx context.Context, shipmentID, costID string) error {
	if err := s.repo.Delete(ctx, shipmentID, costID); err != nil {
		return err
	}
	s.logger.Info().Str("shipment_id", shipmentID).Str("cost_id", costID).Msg("cost line deleted")
	return nil
}

func (s *CostService) ListCosts(ctx context.Context, shipmentID string) ([]domain.ShipmentCost, error) {
	return s.repo.ListByShipment(ctx, shipmentID)
}

// buildCost validates the input and settles the base amount. A foreign
// currency with neither an explicit rate nor a resolvable one blocks the
// write with a MissingFXRateError: an unconvertible line would silently
// corrupt every later allocation run.
func (s *CostService) buildCost(ctx context.Context, id string, input ports.CostInput) (*domain.ShipmentCost, error) {
	if !input.Category.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidCostCategory, input.Category)
	}
	if input.Mode != "" && !input.Mode.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidFreightMode, input.Mode)
	}
	if input.AmountOriginal.Sign() < 0 {
		return nil, fmt.Errorf("amount must not be negative")
	}

	currency := normalizeCurrency(input.Currency)
	if currency == "" {
		currency = s.reportingCurrency
	}

	cost := &domain.ShipmentCost{
		ID:                id,
		ShipmentID:        input.ShipmentID,
		Category:          input.Category,
		Mode:              input.Mode,
		VolumetricDivisor: input.VolumetricDivisor,
		AmountOriginal:    input.AmountOriginal,
		Currency:          currency,
		FXRate:            input.FXRate,
		Notes:             input.Notes,
	}

	switch {
	case currency == s.reportingCurrency:
		cost.AmountBase = input.AmountOriginal
	case input.FXRate != nil && input.FXRate.Sign() > 0:
		cost.AmountBase = input.AmountOriginal.Mul(*input.FXRate)
	default:
		rate, err := s.rates.Rate(ctx, currency, s.reportingCurrency)
		if err != nil {
			return nil, &domain.MissingFXRateError{
				ReportingCurrency: s.reportingCurrency,
				Lines:             map[string][]string{currency: {id}},
			}
		}
		cost.FXRate = &rate
		cost.AmountBase = input.AmountOriginal.Mul(rate)
	}
	cost.AmountBase = cost.AmountBase.Round(amountPlaces)

	// Freight mode only carries meaning on freight lines.
	if cost.Category != domain.CostFreight {
		cost.Mode = ""
		cost.VolumetricDivisor = nil
	}
	return cost, nil
}

var _ ports.CostService = (*CostService)(nil)
