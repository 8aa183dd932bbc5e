package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/importdesk/landing-cost/internal/core/domain"
)

// RateStore resolves FX rates from Redis.
// Key format: fx:<FROM>:<TO>, value: decimal string, e.g. fx:USD:EUR -> "0.91"
type RateStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRateStore creates a RateStore wrapping the given Redis client. A zero
// ttl stores rates without expiry.
func NewRateStore(client *redis.Client, ttl time.Duration) *RateStore {
	return &RateStore{client: client, ttl: ttl}
}

// Rate returns the multiplier converting from into to. An absent pair maps
// to domain.ErrMissingFXRate so callers can turn it into the blocking
// missing-rate report instead of a plain lookup failure.
func (s *RateStore) Rate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if from == to {
		return decimal.NewFromInt(1), nil
	}

	raw, err := s.client.Get(ctx, s.key(from, to)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return decimal.Zero, fmt.Errorf("%w: %s to %s", domain.ErrMissingFXRate, from, to)
		}
		return decimal.Zero, fmt.Errorf("fx rate lookup: %w", err)
	}

	rate, err := decimal.NewFromString(raw)
	if err != nil || rate.Sign() <= 0 {
		return decimal.Zero, fmt.Errorf("fx rate %s to %s: bad stored value %q", from, to, raw)
	}
	return rate, nil
}

// SetRate stores a rate for the pair, expiring after the store's ttl.
func (s *RateStore) SetRate(ctx context.Context, from, to string, rate decimal.Decimal) error {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if rate.Sign() <= 0 {
		return fmt.Errorf("fx rate must be positive")
	}
	return s.client.Set(ctx, s.key(from, to), rate.String(), s.ttl).Err()
}

func (s *RateStore) key(from, to string) string {
	return fmt.Sprintf("fx:%s:%s", from, to)
}
