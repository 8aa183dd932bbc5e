package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/importdesk/landing-cost/internal/api/metrics"
	"github.com/importdesk/landing-cost/internal/core/domain"
	"github.com/importdesk/landing-cost/internal/core/ports"
)

// CartonHandler handles HTTP requests for shipment cartons, including the
// warehouse bulk-measurement flow.
type CartonHandler struct {
	service ports.CartonService
}

func NewCartonHandler(service ports.CartonService) *CartonHandler {
	return &CartonHandler{service: service}
}

type cartonWriteRequest struct {
	PurchaseItemID string             `json:"purchase_item_id" validate:"required"`
	QtyInCarton    int                `json:"qty_in_carton"    validate:"gte=0"`
	Dimensions     *dimensionsRequest `json:"dimensions,omitempty"`
	GrossWeightKg  *float64           `json:"gross_weight_kg,omitempty" validate:"omitempty,gte=0"`
}

type bulkDimensionsRequest struct {
	CartonIDs     []string          `json:"carton_ids" validate:"required,min=1"`
	Dimensions    dimensionsRequest `json:"dimensions" validate:"required"`
	GrossWeightKg *float64          `json:"gross_weight_kg,omitempty" validate:"omitempty,gte=0"`
}

type cartonResponse struct {
	ID             string             `json:"id"`
	ShipmentID     string             `json:"shipment_id"`
	PurchaseItemID string             `json:"purchase_item_id"`
	QtyInCarton    int                `json:"qty_in_carton"`
	Dimensions     *domain.Dimensions `json:"dimensions,omitempty"`
	GrossWeightKg  *float64           `json:"gross_weight_kg,omitempty"`
}

func toCartonResponse(c *domain.Carton) cartonResponse {
	return cartonResponse{
		ID:             c.ID,
		ShipmentID:     c.ShipmentID,
		PurchaseItemID: c.PurchaseItemID,
		QtyInCarton:    c.QtyInCarton,
		Dimensions:     c.Dimensions,
		GrossWeightKg:  c.GrossWeightKg,
	}
}

func (h *CartonHandler) bindInput(c echo.Context) (ports.CartonInput, error) {
	var req cartonWriteRequest
	if err := c.Bind(&req); err != nil {
		return ports.CartonInput{}, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return ports.CartonInput{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return ports.CartonInput{
		ShipmentID:     c.Param("shipment_id"),
		PurchaseItemID: req.PurchaseItemID,
		QtyInCarton:    req.QtyInCarton,
		Dimensions:     toDimensions(req.Dimensions),
		GrossWeightKg:  req.GrossWeightKg,
	}, nil
}

// Create handles POST /v1/shipments/:shipment_id/cartons.
func (h *CartonHandler) Create(c echo.Context) error {
	input, err := h.bindInput(c)
	if err != nil {
		return err
	}
	carton, err := h.service.AddCarton(c.Request().Context(), input)
	if err != nil {
		return err
	}
	metrics.CartonWritesTotal.WithLabelValues("create").Inc()
	return c.JSON(http.StatusCreated, toCartonResponse(carton))
}

// Update handles PUT /v1/shipments/:shipment_id/cartons/:carton_id.
func (h *CartonHandler) Update(c echo.Context) error {
	input, err := h.bindInput(c)
	if err != nil {
		return err
	}
	carton, err := h.service.UpdateCarton(c.Request().Context(), c.Param("carton_id"), input)
	if err != nil {
		return err
	}
	metrics.CartonWritesTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, toCartonResponse(carton))
}

// Delete handles DELETE /v1/shipments/:shipment_id/cartons/:carton_id.
func (h *CartonHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteCarton(c.Request().Context(), c.Param("shipment_id"), c.Param("carton_id")); err != nil {
		return err
	}
	metrics.CartonWritesTotal.WithLabelValues("delete").Inc()
	return c.NoContent(http.StatusNoContent)
}

// BulkDimensions handles POST /v1/shipments/:shipment_id/cartons/dimensions.
// One measurement is applied to every carton in the id set.
func (h *CartonHandler) BulkDimensions(c echo.Context) error {
	var req bulkDimensionsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.service.BulkSetDimensions(c.Request().Context(), ports.BulkDimensionsInput{
		ShipmentID:    c.Param("shipment_id"),
		CartonIDs:     req.CartonIDs,
		Dimensions:    domain.Dimensions{LengthCm: req.Dimensions.LengthCm, WidthCm: req.Dimensions.WidthCm, HeightCm: req.Dimensions.HeightCm},
		GrossWeightKg: req.GrossWeightKg,
	})
	if err != nil {
		return err
	}
	metrics.CartonWritesTotal.WithLabelValues("bulk_dimensions").Inc()
	return c.JSON(http.StatusOK, map[string]any{
		"requested": len(req.CartonIDs),
		"updated":   updated,
	})
}

// List handles GET /v1/shipments/:shipment_id/cartons.
func (h *CartonHandler) List(c echo.Context) error {
	cartons, err := h.service.ListCartons(c.Request().Context(), c.Param("shipment_id"))
	if err != nil {
		return err
	}
	out := make([]cartonResponse, len(cartons))
	for i := range cartons {
		out[i] = toCartonResponse(&cartons[i])
	}
	return c.JSON(http.StatusOK, map[string]any{"data": out})
}
