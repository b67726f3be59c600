// Package tickers reads the watch list of ticker symbols.
package tickers

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aristath/pfa/internal/domain"
)

// Loader reads the ticker list file on every call so edits are picked up
// without a restart.
type Loader struct {
	path string
	log  zerolog.Logger
}

// NewLoader creates a loader for the file at path
func NewLoader(path string, log zerolog.Logger) *Loader {
	return &Loader{
		path: path,
		log:  log.With().Str("component", "ticker_loader").Logger(),
	}
}

// Path returns the ticker list location
func (l *Loader) Path() string {
	return l.path
}

// Load returns the symbols in file order. A missing or unreadable file is
// logged and yields an empty list.
func (l *Loader) Load() []domain.TickerSymbol {
	symbols, err := Read(l.path)
	if err != nil {
		l.log.Error().Err(err).Str("path", l.path).Msg("Failed to load ticker list")
		return []domain.TickerSymbol{}
	}
	if len(symbols) == 0 {
		l.log.Warn().Str("path", l.path).Msg("Ticker list is empty")
	}
	return symbols
}

// Read parses one symbol per line. Lines are trimmed, blank lines are
// skipped, duplicates are kept.
func Read(path string) ([]domain.TickerSymbol, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ticker list: %w", err)
	}
	defer file.Close()

	symbols := []domain.TickerSymbol{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		symbols = append(symbols, domain.NewTickerSymbol(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ticker list: %w", err)
	}
	return symbols, nil
}
