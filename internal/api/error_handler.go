package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/importdesk/landing-cost/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
// MissingRates is present only for blocked allocation runs: it maps each
// unresolved currency to the line ids priced in it, so the client can prompt
// for exactly the rates that are needed.
type errorResponse struct {
	Error        string              `json:"error"`
	MissingRates map[string][]string `json:"missing_rates,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Renders the missing-FX-rate condition with its per-line detail.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var fxErr *domain.MissingFXRateError
		if errors.As(err, &fxErr) {
			_ = c.JSON(http.StatusUnprocessableEntity, errorResponse{
				Error:        fxErr.Error(),
				MissingRates: fxErr.Lines,
			})
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors map to deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrCostNotFound):
		return http.StatusNotFound, "cost line not found"
	case errors.Is(err, domain.ErrCartonNotFound):
		return http.StatusNotFound, "carton not found"
	case errors.Is(err, domain.ErrInvalidCostCategory),
		errors.Is(err, domain.ErrInvalidFreightMode),
		errors.Is(err, domain.ErrInvalidMethod),
		errors.Is(err, domain.ErrIncompleteDimensions):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrMissingFXRate):
		return http.StatusUnprocessableEntity, err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
