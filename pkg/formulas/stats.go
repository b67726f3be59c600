// Package formulas holds the small numeric helpers shared by the analyzers.
package formulas

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the sample standard deviation (N-1 denominator)
func StdDev(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// PopStdDev calculates the population standard deviation (N denominator)
func PopStdDev(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.PopStdDev(data, nil)
}

// LogReturns converts prices to logarithmic returns.
// Returns[i] = ln(Price[i+1] / Price[i])
//
// Zero or missing prices produce non-finite values; callers decide whether to
// drop them.
func LogReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return []float64{}
	}

	returns := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		returns[i-1] = math.Log(prices[i] / prices[i-1])
	}

	return returns
}

// Standardize scales data to zero mean and unit population variance.
// A constant series is only centered, matching the usual scaler convention of
// treating a zero scale as one.
func Standardize(data []float64) []float64 {
	out := make([]float64, len(data))
	if len(data) == 0 {
		return out
	}

	mean, std := Mean(data), PopStdDev(data)
	if std == 0 || math.IsNaN(std) {
		std = 1
	}
	for i, v := range data {
		out[i] = (v - mean) / std
	}
	return out
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
