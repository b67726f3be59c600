package analysis

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/pfa/internal/domain"
)

// Settings fixes the sampling interval and start-date cutoff of a service
type Settings struct {
	Interval  domain.Interval
	StartDate time.Time
}

// Service is the presentation-facing entry point. Each call reloads the
// ticker list and runs its own sequential pipeline over the shared cache.
type Service struct {
	tickers  TickerLoader
	builder  *Builder
	factor   *FactorAnalyzer
	risk     *RiskAnalyzer
	settings Settings
	log      zerolog.Logger
}

// NewService creates the analysis service
func NewService(tickers TickerLoader, builder *Builder, settings Settings, log zerolog.Logger) *Service {
	if settings.Interval == "" {
		settings.Interval = domain.IntervalDaily
	}
	return &Service{
		tickers:  tickers,
		builder:  builder,
		factor:   NewFactorAnalyzer(log),
		risk:     NewRiskAnalyzer(log),
		settings: settings,
		log:      log.With().Str("component", "analysis_service").Logger(),
	}
}

// Settings returns the interval and start date the service analyzes
func (s *Service) Settings() Settings {
	return s.settings
}

// Tickers returns the current watch list
func (s *Service) Tickers() []domain.TickerSymbol {
	return s.tickers.Load()
}

// Returns builds the aligned log-return matrix of the watch list
func (s *Service) Returns(ctx context.Context) ReturnMatrix {
	return s.builder.Build(ctx, s.tickers.Load(), s.settings.Interval, s.settings.StartDate)
}

// PCAnalysis returns the factor decomposition, or the empty sentinel when
// no stocks are available.
func (s *Service) PCAnalysis(ctx context.Context) FactorResult {
	result := s.factor.Analyze(s.Returns(ctx))
	if result.Empty() {
		s.log.Warn().Msg("No stocks available for PCA")
	}
	return result
}

// RiskAnalysis returns standard deviations and covariance, or the empty
// sentinel when no stocks are available.
func (s *Service) RiskAnalysis(ctx context.Context) RiskResult {
	result := s.risk.Analyze(s.Returns(ctx))
	if result.Empty() {
		s.log.Warn().Msg("No stocks available for risk analysis")
	}
	return result
}

// Volatility returns rolling volatility over window return rows
func (s *Service) Volatility(ctx context.Context, window int) VolatilityResult {
	return RollingVolatility(s.Returns(ctx), window)
}

// Prefetch warms the cache for the whole watch list
func (s *Service) Prefetch(ctx context.Context) PrefetchReport {
	return s.builder.Prefetch(ctx, s.tickers.Load(), s.settings.Interval)
}
