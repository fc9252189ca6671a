package domain

import (
	"math"
	"sort"
)

// Percentile returns the p-th percentile (0–100) of values using the
// linear-interpolation method: the rank p/100*(n-1) is interpolated between
// the two nearest order statistics. Returns NaN for an empty slice.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// nearestValueIndex returns the index of the value closest to target,
// ties broken by first occurrence.
func nearestValueIndex(values []float64, target float64) int {
	best := 0
	bestDist := math.Abs(values[0] - target)
	for i, v := range values[1:] {
		if d := math.Abs(v - target); d < bestDist {
			best = i + 1
			bestDist = d
		}
	}
	return best
}
