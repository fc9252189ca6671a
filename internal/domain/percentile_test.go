package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		p        float64
		expected float64
	}{
		{"single value", []float64{2.5}, 90, 2.5},
		{"all equal", []float64{0.5, 0.5, 0.5, 0.5}, 90, 0.5},
		{"interpolated p90 of four", []float64{1, 2, 3, 4}, 90, 3.7},
		{"interpolated p90 unsorted input", []float64{4, 1, 3, 2}, 90, 3.7},
		{"median of odd count", []float64{1, 2, 10}, 50, 2},
		{"median of even count", []float64{1, 2, 3, 10}, 50, 2.5},
		{"p0 is the minimum", []float64{5, 1, 3}, 0, 1},
		{"p100 is the maximum", []float64{5, 1, 3}, 100, 5},
		{"p90 of 1..10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 90, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Percentile(tt.values, tt.p), 1e-12)
		})
	}

	t.Run("empty slice yields NaN", func(t *testing.T) {
		assert.True(t, math.IsNaN(Percentile(nil, 90)))
	})

	t.Run("input slice is not mutated", func(t *testing.T) {
		values := []float64{3, 1, 2}
		Percentile(values, 50)
		assert.Equal(t, []float64{3, 1, 2}, values)
	})
}

func TestNearestValueIndex(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		target   float64
		expected int
	}{
		{"exact match", []float64{1, 2, 3}, 2, 1},
		{"between values", []float64{1, 2, 3}, 2.9, 2},
		{"tie broken by first occurrence", []float64{1, 3, 1, 3}, 2, 0},
		{"duplicate nearest keeps first", []float64{0.5, 0.5, 0.5}, 0.5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, nearestValueIndex(tt.values, tt.target))
		})
	}
}
