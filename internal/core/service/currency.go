package service

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/importdesk/landing-cost/internal/core/domain"
)

// convertAmount converts an amount into the reporting currency using the
// supplied rate table. Same-currency amounts pass through unchanged. A
// missing pair returns domain.ErrMissingFXRate; callers collect these into
// a MissingFXRateError rather than failing on the first one.
func convertAmount(amount decimal.Decimal, currency, reporting string, rates map[string]decimal.Decimal) (decimal.Decimal, error) {
	currency = normalizeCurrency(currency)
	reporting = normalizeCurrency(reporting)
	if currency == "" || currency == reporting {
		return amount, nil
	}
	rate, ok := rates[currency]
	if !ok || rate.Sign() <= 0 {
		return decimal.Zero, domain.ErrMissingFXRate
	}
	return amount.Mul(rate), nil
}

func normalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
