package responsecurve

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecayFactor(t *testing.T) {
	t.Run("valid half-lives stay in (0,1)", func(t *testing.T) {
		tests := []struct {
			name     string
			halfLife float64
			expected float64
		}{
			{"one day", 1.0, 0.5},
			{"two days", 2.0, math.Pow(0.5, 0.5)},
			{"seven days", 7.0, math.Pow(0.5, 1.0/7.0)},
			{"fractional", 0.5, 0.25},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				decay, err := DecayFactor(tt.halfLife)
				require.NoError(t, err)
				assert.InDelta(t, tt.expected, decay, 1e-9)
				assert.Greater(t, decay, 0.0)
				assert.Less(t, decay, 1.0)
			})
		}
	})

	t.Run("approaches 1 for long half-lives", func(t *testing.T) {
		decay, err := DecayFactor(1e6)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, decay, 1e-5)
		assert.Less(t, decay, 1.0)
	})

	t.Run("approaches 0 for short half-lives", func(t *testing.T) {
		decay, err := DecayFactor(1e-3)
		require.NoError(t, err)
		assert.Less(t, decay, 1e-9)
		assert.Greater(t, decay, 0.0)
	})

	t.Run("rejects non-positive half-life", func(t *testing.T) {
		for _, halfLife := range []float64{0, -1, -0.5} {
			_, err := DecayFactor(halfLife)
			require.Error(t, err)

			var paramErr *ParameterError
			require.ErrorAs(t, err, &paramErr)
			assert.Equal(t, "half_life", paramErr.Param)
			assert.Equal(t, halfLife, paramErr.Value)
		}
	})
}

func TestAdstockSeries(t *testing.T) {
	t.Run("carry-over recurrence", func(t *testing.T) {
		adstocked, err := AdstockSeries([]float64{100, 0, 0, 0}, 1.0)
		require.NoError(t, err)
		require.Len(t, adstocked, 4)

		expected := []float64{100, 50, 25, 12.5}
		for i, want := range expected {
			assert.InDelta(t, want, adstocked[i], 1e-9, "index %d", i)
		}
	})

	t.Run("first element equals first spend", func(t *testing.T) {
		adstocked, err := AdstockSeries([]float64{42.5, 10, 3}, 7.0)
		require.NoError(t, err)
		assert.Equal(t, 42.5, adstocked[0])
	})

	t.Run("accumulates continuous spend", func(t *testing.T) {
		adstocked, err := AdstockSeries([]float64{100, 100, 100}, 1.0)
		require.NoError(t, err)
		assert.InDelta(t, 100.0, adstocked[0], 1e-9)
		assert.InDelta(t, 150.0, adstocked[1], 1e-9)
		assert.InDelta(t, 175.0, adstocked[2], 1e-9)
	})

	t.Run("empty series yields empty output", func(t *testing.T) {
		adstocked, err := AdstockSeries(nil, 1.0)
		require.NoError(t, err)
		assert.Empty(t, adstocked)
	})

	t.Run("propagates parameter errors", func(t *testing.T) {
		_, err := AdstockSeries([]float64{100}, 0)
		var paramErr *ParameterError
		require.ErrorAs(t, err, &paramErr)
	})
}
