package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/importdesk/landing-cost/internal/api/metrics"
	"github.com/importdesk/landing-cost/internal/core/domain"
	"github.com/importdesk/landing-cost/internal/core/ports"
	"github.com/importdesk/landing-cost/internal/core/service"
)

// AllocationHandler serves allocation previews and CSV exports. Both take the
// same snapshot request; export streams the computed table as a file.
type AllocationHandler struct {
	engine  ports.AllocationService
	costs   ports.CostService
	cartons ports.CartonService
	rates   ports.RateSource
}

func NewAllocationHandler(engine ports.AllocationService, costs ports.CostService, cartons ports.CartonService, rates ports.RateSource) *AllocationHandler {
	return &AllocationHandler{engine: engine, costs: costs, cartons: cartons, rates: rates}
}

// Preview handles POST /v1/shipments/:shipment_id/allocation/preview.
func (h *AllocationHandler) Preview(c echo.Context) error {
	resp, err := h.run(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAllocationResponse(resp))
}

// ExportCSV handles POST /v1/shipments/:shipment_id/allocation/export.
func (h *AllocationHandler) ExportCSV(c echo.Context) error {
	resp, err := h.run(c)
	if err != nil {
		return err
	}
	metrics.ExportsTotal.Inc()

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	res.Header().Set(echo.HeaderContentDisposition, `attachment; filename="cost_allocation_shipment_`+resp.ShipmentID+`.csv"`)
	res.WriteHeader(http.StatusOK)
	return service.WriteAllocationCSV(res, resp)
}

// run decodes the snapshot, fills in stored records and FX rates, and invokes
// the engine.
func (h *AllocationHandler) run(c echo.Context) (*ports.AllocationResponse, error) {
	shipmentID := c.Param("shipment_id")

	var req allocationRequest
	if err := c.Bind(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	input := toAllocationRequest(shipmentID, req)

	// Absent (null) lists mean "use what is stored for this shipment".
	if input.Costs == nil {
		stored, err := h.costs.ListCosts(ctx, shipmentID)
		if err != nil {
			return nil, err
		}
		input.Costs = stored
	}
	if input.Cartons == nil {
		stored, err := h.cartons.ListCartons(ctx, shipmentID)
		if err != nil {
			return nil, err
		}
		input.Cartons = stored
	}

	input.Rates = h.resolveRates(c, input)

	start := time.Now()
	resp, err := h.engine.Allocate(ctx, input)
	if err != nil {
		if errors.Is(err, domain.ErrMissingFXRate) {
			metrics.AllocationsTotal.WithLabelValues("unknown", "blocked").Inc()
		}
		return nil, err
	}

	metrics.AllocationsTotal.WithLabelValues(string(resp.EffectiveMethod), "ok").Inc()
	metrics.AllocationDuration.WithLabelValues(string(resp.EffectiveMethod)).Observe(time.Since(start).Seconds())
	for _, w := range resp.Warnings {
		metrics.AllocationWarningsTotal.WithLabelValues(w).Inc()
	}
	for _, item := range resp.Items {
		for _, w := range item.Warnings {
			metrics.AllocationWarningsTotal.WithLabelValues(w).Inc()
		}
	}
	return resp, nil
}

// resolveRates looks up a rate into the reporting currency for every foreign
// currency the snapshot mentions. Unresolvable pairs are simply left out; the
// engine reports them per line as the blocking missing-rate condition.
func (h *AllocationHandler) resolveRates(c echo.Context, input ports.AllocationRequest) map[string]decimal.Decimal {
	reporting := strings.ToUpper(strings.TrimSpace(input.ReportingCurrency))
	currencies := make(map[string]struct{})

	add := func(code string) {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code != "" && code != reporting {
			currencies[code] = struct{}{}
		}
	}
	for _, cost := range input.Costs {
		if cost.FXRate == nil {
			add(cost.Currency)
		}
	}
	for _, item := range input.Items {
		add(item.Currency)
	}
	add(input.Meta.ShippingCostCurrency)
	add(input.Meta.POShippingCostCurrency)

	rates := make(map[string]decimal.Decimal, len(currencies))
	ctx := c.Request().Context()
	for code := range currencies {
		rate, err := h.rates.Rate(ctx, code, reporting)
		if err != nil {
			continue
		}
		rates[code] = rate
	}
	return rates
}
