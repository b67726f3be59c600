// Package yahoo provides Yahoo Finance price sources: a go-yfinance backed
// client and a plain chart API client. Both implement domain.PriceSource.
package yahoo

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// NewLimiter returns a limiter allowing perSecond requests with a burst of
// one. A non-positive rate disables throttling.
func NewLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(perSecond), 1)
}

func wait(ctx context.Context, limiter *rate.Limiter) error {
	if limiter == nil {
		return nil
	}
	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	return nil
}
