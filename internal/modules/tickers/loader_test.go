package tickers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/pfa/internal/domain"
)

func writeList(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stocks.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRead(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []domain.TickerSymbol
	}{
		{
			name:    "one per line",
			content: "AAPL\nMSFT\nGOOG\n",
			want:    []domain.TickerSymbol{"AAPL", "MSFT", "GOOG"},
		},
		{
			name:    "trims and upper-cases",
			content: "  aapl \r\n\tmsft\n",
			want:    []domain.TickerSymbol{"AAPL", "MSFT"},
		},
		{
			name:    "keeps duplicates in order",
			content: "AAPL\nMSFT\nAAPL",
			want:    []domain.TickerSymbol{"AAPL", "MSFT", "AAPL"},
		},
		{
			name:    "skips blank lines",
			content: "\nAAPL\n\n   \nMSFT\n\n",
			want:    []domain.TickerSymbol{"AAPL", "MSFT"},
		},
		{
			name:    "empty file",
			content: "",
			want:    []domain.TickerSymbol{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(writeList(t, tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestLoader_MissingFileYieldsEmptyList(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "nope.txt"), zerolog.New(nil).Level(zerolog.Disabled))

	symbols := loader.Load()
	assert.NotNil(t, symbols)
	assert.Empty(t, symbols)
}

func TestLoader_PicksUpEdits(t *testing.T) {
	path := writeList(t, "AAPL\n")
	loader := NewLoader(path, zerolog.New(nil).Level(zerolog.Disabled))
	assert.Equal(t, []domain.TickerSymbol{"AAPL"}, loader.Load())

	require.NoError(t, os.WriteFile(path, []byte("AAPL\nMSFT\n"), 0644))
	assert.Equal(t, []domain.TickerSymbol{"AAPL", "MSFT"}, loader.Load())
	assert.Equal(t, path, loader.Path())
}
