package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFundamentalFrequency(t *testing.T) {
	tests := []struct {
		raw      string
		expected FundamentalFrequency
	}{
		{"", FrequencyQuarterly},
		{"quarterly", FrequencyQuarterly},
		{" Quarterly ", FrequencyQuarterly},
		{"annual", FrequencyAnnual},
		{"yearly", FrequencyAnnual},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			freq, err := ParseFundamentalFrequency(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, freq)
		})
	}

	_, err := ParseFundamentalFrequency("monthly")
	assert.True(t, errors.Is(err, ErrInvalidFrequency))
}

func TestFundamentalFrequency_PeriodLabel(t *testing.T) {
	tests := []struct {
		date      time.Time
		quarterly string
		annual    string
	}{
		{day(2024, time.March, 31), "2024Q1", "2024"},
		{day(2024, time.April, 1), "2024Q2", "2024"},
		{day(2023, time.September, 30), "2023Q3", "2023"},
		{day(2023, time.December, 31), "2023Q4", "2023"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.quarterly, FrequencyQuarterly.PeriodLabel(tt.date))
		assert.Equal(t, tt.annual, FrequencyAnnual.PeriodLabel(tt.date))
	}
}

func TestFundamentals_Fields(t *testing.T) {
	f := Fundamentals{Periods: []FundamentalPeriod{
		{Period: "2024Q1", Values: map[string]float64{"TotalRevenue": 1, "NetIncome": 2}},
		{Period: "2024Q2", Values: map[string]float64{"TotalAssets": 3, "NetIncome": 4}},
	}}

	assert.False(t, f.Empty())
	assert.Equal(t, []string{"NetIncome", "TotalAssets", "TotalRevenue"}, f.Fields())
	assert.True(t, Fundamentals{}.Empty())
}
