package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/importdesk/landing-cost/internal/api/metrics"
	"github.com/importdesk/landing-cost/internal/core/domain"
	"github.com/importdesk/landing-cost/internal/core/ports"
)

// CostHandler handles HTTP requests for shipment cost lines.
type CostHandler struct {
	service ports.CostService
	logger  zerolog.Logger
}

func NewCostHandler(service ports.CostService, logger zerolog.Logger) *CostHandler {
	return &CostHandler{service: service, logger: logger}
}

type costWriteRequest struct {
	Category          string           `json:"category" validate:"required,oneof=FREIGHT DUTY BROKERAGE INSURANCE PACKAGING OTHER"`
	Mode              string           `json:"mode,omitempty" validate:"omitempty,oneof=AIR SEA COURIER"`
	VolumetricDivisor *float64         `json:"volumetric_divisor,omitempty" validate:"omitempty,gt=0"`
	AmountOriginal    decimal.Decimal  `json:"amount_original"`
	Currency          string           `json:"currency" validate:"required,len=3"`
	FXRate            *decimal.Decimal `json:"fx_rate,omitempty"`
	Notes             string           `json:"notes,omitempty"`
}

type costResponse struct {
	ID                string           `json:"id"`
	ShipmentID        string           `json:"shipment_id"`
	Category          string           `json:"category"`
	Mode              string           `json:"mode,omitempty"`
	VolumetricDivisor *float64         `json:"volumetric_divisor,omitempty"`
	AmountOriginal    decimal.Decimal  `json:"amount_original"`
	Currency          string           `json:"currency"`
	FXRate            *decimal.Decimal `json:"fx_rate,omitempty"`
	AmountBase        decimal.Decimal  `json:"amount_base"`
	Notes             string           `json:"notes,omitempty"`
}

func toCostResponse(c *domain.ShipmentCost) costResponse {
	return costResponse{
		ID:                c.ID,
		ShipmentID:        c.ShipmentID,
		Category:          string(c.Category),
		Mode:              string(c.Mode),
		VolumetricDivisor: c.VolumetricDivisor,
		AmountOriginal:    c.AmountOriginal,
		Currency:          c.Currency,
		FXRate:            c.FXRate,
		AmountBase:        c.AmountBase,
		Notes:             c.Notes,
	}
}

func (h *CostHandler) bindInput(c echo.Context) (ports.CostInput, error) {
	var req costWriteRequest
	if err := c.Bind(&req); err != nil {
		return ports.CostInput{}, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return ports.CostInput{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return ports.CostInput{
		ShipmentID:        c.Param("shipment_id"),
		Category:          domain.CostCategory(req.Category),
		Mode:              domain.FreightMode(req.Mode),
		VolumetricDivisor: req.VolumetricDivisor,
		AmountOriginal:    req.AmountOriginal,
		Currency:          req.Currency,
		FXRate:            req.FXRate,
		Notes:             req.Notes,
	}, nil
}

// Create handles POST /v1/shipments/:shipment_id/costs.
func (h *CostHandler) Create(c echo.Context) error {
	role, username, err := ctxClaims(c)
	if err != nil {
		return err
	}
	input, err := h.bindInput(c)
	if err != nil {
		return err
	}
	cost, err := h.service.CreateCost(c.Request().Context(), input)
	if err != nil {
		return err
	}
	metrics.CostWritesTotal.WithLabelValues("create", string(cost.Category)).Inc()
	h.logger.Info().Str("actor", username).Str("role", role).Str("cost_id", cost.ID).Msg("cost created via api")
	return c.JSON(http.StatusCreated, toCostResponse(cost))
}

// Update handles PUT /v1/shipments/:shipment_id/costs/:cost_id.
func (h *CostHandler) Update(c echo.Context) error {
	input, err := h.bindInput(c)
	if err != nil {
		return err
	}
	cost, err := h.service.UpdateCost(c.Request().Context(), c.Param("cost_id"), input)
	if err != nil {
		return err
	}
	metrics.CostWritesTotal.WithLabelValues("update", string(cost.Category)).Inc()
	return c.JSON(http.StatusOK, toCostResponse(cost))
}

// Delete handles DELETE /v1/shipments/:shipment_id/costs/:cost_id.
func (h *CostHandler) Delete(c echo.Context) error {
	_, username, err := ctxClaims(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteCost(c.Request().Context(), c.Param("shipment_id"), c.Param("cost_id")); err != nil {
		return err
	}
	metrics.CostWritesTotal.WithLabelValues("delete", "").Inc()
	h.logger.Info().Str("actor", username).Str("cost_id", c.Param("cost_id")).Msg("cost deleted via api")
	return c.NoContent(http.StatusNoContent)
}

// List handles GET /v1/shipments/:shipment_id/costs.
func (h *CostHandler) List(c echo.Context) error {
	costs, err := h.service.ListCosts(c.Request().Context(), c.Param("shipment_id"))
	if err != nil {
		return err
	}
	out := make([]costResponse, len(costs))
	for i := range costs {
		out[i] = toCostResponse(&costs[i])
	}
	return c.JSON(http.StatusOK, map[string]any{"data": out})
}
