package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// RateSource resolves an FX rate for a (from, to) currency pair. It may be a
// fixed table or a live lookup. The allocation engine never calls it; rates
// are resolved up front and handed to the engine as plain input.
type RateSource interface {
	// Rate returns the multiplier that converts an amount in the from
	// currency into the to currency. It returns a wrapped
	// domain.ErrMissingFXRate when the pair is unknown.
	Rate(ctx context.Context, from, to string) (decimal.Decimal, error)
}
