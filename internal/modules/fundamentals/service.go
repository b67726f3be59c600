// Package fundamentals serves combined financial statements per ticker.
package fundamentals

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/pfa/internal/domain"
)

// Service looks up financial statements for a single ticker
type Service struct {
	source domain.FundamentalsSource
	log    zerolog.Logger
}

// NewService creates the fundamentals service
func NewService(source domain.FundamentalsSource, log zerolog.Logger) *Service {
	return &Service{
		source: source,
		log:    log.With().Str("component", "fundamentals_service").Logger(),
	}
}

// Get returns the statements of rawSymbol at rawFreq. Invalid input is an
// error; a provider failure is logged and reported as an empty result.
func (s *Service) Get(ctx context.Context, rawSymbol, rawFreq string) (domain.Fundamentals, error) {
	symbol := domain.NewTickerSymbol(rawSymbol)
	if symbol == "" {
		return domain.Fundamentals{}, domain.ErrEmptySymbol
	}
	freq, err := domain.ParseFundamentalFrequency(rawFreq)
	if err != nil {
		return domain.Fundamentals{}, fmt.Errorf("invalid frequency: %w", err)
	}

	result, err := s.source.Fundamentals(ctx, symbol, freq)
	if err != nil {
		s.log.Warn().Err(err).Str("ticker", symbol.String()).Str("frequency", string(freq)).Msg("Fundamentals unavailable")
		return domain.Fundamentals{Symbol: symbol, Frequency: freq}, nil
	}
	return result, nil
}
