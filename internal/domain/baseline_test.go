package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeBaseline(t *testing.T) {
	t.Run("mmm is the maximum and order is preserved", func(t *testing.T) {
		means := MonthlyMeanSet{26.1, 26.8, 27.4, 28.9, 28.2, 27.0, 26.5, 26.2, 26.9, 27.8, 28.5, 27.1}

		baseline, err := ComputeBaseline("GM", means)
		require.NoError(t, err)

		assert.Equal(t, "GM", baseline.SiteCode)
		assert.Equal(t, 28.9, baseline.MMM)
		for i, v := range means {
			assert.Equal(t, v, baseline.MonthlyMeans[i])
		}
	})

	t.Run("fewer than twelve entries", func(t *testing.T) {
		_, err := ComputeBaseline("GM", MonthlyMeanSet{26.1, 26.8})

		var incomplete *IncompleteBaselineError
		require.ErrorAs(t, err, &incomplete)
		assert.Equal(t, "GM", incomplete.SiteCode)
		assert.Equal(t, 2, incomplete.Got)
	})

	t.Run("non-finite entry", func(t *testing.T) {
		means := MonthlyMeanSet{26.1, 26.8, 27.4, math.NaN(), 28.2, 27.0, 26.5, 26.2, 26.9, 27.8, 28.5, 27.1}

		_, err := ComputeBaseline("NP", means)

		var incomplete *IncompleteBaselineError
		require.ErrorAs(t, err, &incomplete)
		assert.Equal(t, []time.Month{time.April}, incomplete.MissingMonths)
	})

	t.Run("empty set", func(t *testing.T) {
		_, err := ComputeBaseline("GN", nil)

		var incomplete *IncompleteBaselineError
		require.ErrorAs(t, err, &incomplete)
	})
}

func TestZeroBaseline(t *testing.T) {
	baseline := ZeroBaseline("GN")

	assert.Equal(t, "GN", baseline.SiteCode)
	assert.Zero(t, baseline.MMM)
	for _, v := range baseline.MonthlyMeans {
		assert.Zero(t, v)
	}
}
