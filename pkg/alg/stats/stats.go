// Package stats holds the reductions used to aggregate comment metrics.
// Standard deviation is the population form.
package stats

import (
	"cmp"
	"math"
	"slices"
)

// PercentileMedian is the median rank.
const PercentileMedian = 0.5

// Mean returns the arithmetic mean, 0 for no values.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	return Sum(values) / float64(len(values))
}

// MeanStdDev returns the mean and population standard deviation.
func MeanStdDev(values []float64) (mean, stddev float64) {
	if len(values) == 0 {
		return 0, 0
	}

	mean = Mean(values)

	var sq float64

	for _, v := range values {
		d := v - mean
		sq += d * d
	}

	return mean, math.Sqrt(sq / float64(len(values)))
}

// Percentile returns the p-th percentile, p in [0, 1], interpolating
// linearly between ranks. values is not modified.
func Percentile(values []float64, p float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	rank := p * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))

	if lo == hi || hi >= n {
		return sorted[lo]
	}

	frac := rank - float64(lo)

	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// Median returns the 50th percentile.
func Median(values []float64) float64 {
	return Percentile(values, PercentileMedian)
}

// Min returns the smallest value, the zero value for none.
func Min[T cmp.Ordered](values []T) T {
	if len(values) == 0 {
		var zero T

		return zero
	}

	return slices.Min(values)
}

// Max returns the largest value, the zero value for none.
func Max[T cmp.Ordered](values []T) T {
	if len(values) == 0 {
		var zero T

		return zero
	}

	return slices.Max(values)
}

// Sum adds all values.
func Sum[T cmp.Ordered](values []T) T {
	var total T

	for _, v := range values {
		total += v
	}

	return total
}
