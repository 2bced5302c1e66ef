package contract

import (
	"math"
	"sort"
)

// SafeDivide divides numerator by denominator and returns 0 when the
// denominator is zero or either input is NaN or infinite. The result is
// always a finite float64.
func SafeDivide(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	if math.IsNaN(numerator) || math.IsInf(numerator, 0) {
		return 0
	}
	if math.IsNaN(denominator) || math.IsInf(denominator, 0) {
		return 0
	}
	out := numerator / denominator
	if math.IsNaN(out) || math.IsInf(out, 0) {
		return 0
	}
	return out
}

// SafePercentage returns 100*part/whole clamped to [0,100]. It shares
// SafeDivide's totality guarantees, so a zero or garbage whole yields 0.
func SafePercentage(part, whole float64) float64 {
	pct := SafeDivide(part, whole) * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// Round1 rounds to one decimal place, the precision used across the
// report tables.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Mean returns the arithmetic mean, 0 for an empty slice.
func Mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return SafeDivide(sum, float64(len(values)))
}

// Median returns the median, 0 for an empty slice. The input is not
// modified.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
