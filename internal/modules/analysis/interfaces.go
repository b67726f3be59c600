package analysis

import "github.com/aristath/pfa/internal/domain"

// TickerLoader supplies the current watch list
type TickerLoader interface {
	Load() []domain.TickerSymbol
}
