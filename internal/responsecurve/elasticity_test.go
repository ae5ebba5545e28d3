package responsecurve

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElasticitySeries(t *testing.T) {
	t.Run("proportional when response doubles with spend", func(t *testing.T) {
		adstocked := []float64{100, 200}
		response := []float64{40, 80}

		points := ElasticitySeries(adstocked, response)
		require.Len(t, points, 1)
		require.True(t, points[0].Defined)
		assert.InDelta(t, 1.0, points[0].Value, 1e-9)
		assert.Equal(t, ZoneProportional, points[0].Zone)
	})

	t.Run("undefined on flat response with nonzero spend delta", func(t *testing.T) {
		points := ElasticitySeries([]float64{100, 200}, []float64{40, 40})
		require.Len(t, points, 1)
		assert.False(t, points[0].Defined)
		assert.Equal(t, ZoneUndefined, points[0].Zone)
	})

	t.Run("undefined on zero spend delta", func(t *testing.T) {
		points := ElasticitySeries([]float64{100, 100}, []float64{40, 50})
		require.Len(t, points, 1)
		assert.False(t, points[0].Defined)
	})

	t.Run("undefined on zero response at anchor", func(t *testing.T) {
		points := ElasticitySeries([]float64{0, 100}, []float64{0, 40})
		require.Len(t, points, 1)
		assert.False(t, points[0].Defined)
	})

	t.Run("too short a series yields no points", func(t *testing.T) {
		assert.Nil(t, ElasticitySeries([]float64{100}, []float64{40}))
		assert.Nil(t, ElasticitySeries(nil, nil))
	})

	t.Run("one point per interior interval", func(t *testing.T) {
		adstocked := []float64{10, 20, 40, 80}
		response := []float64{5, 9, 15, 22}
		points := ElasticitySeries(adstocked, response)
		assert.Len(t, points, 3)
		for i, p := range points {
			assert.True(t, p.Defined, "point %d", i)
		}
	})
}

func TestSlopeSeries(t *testing.T) {
	t.Run("forward difference", func(t *testing.T) {
		slope := SlopeSeries([]float64{0, 10, 30}, []float64{0, 5, 10})
		require.Len(t, slope, 2)
		assert.InDelta(t, 0.5, slope[0], 1e-9)
		assert.InDelta(t, 0.25, slope[1], 1e-9)
	})

	t.Run("NaN on zero spend delta", func(t *testing.T) {
		slope := SlopeSeries([]float64{10, 10}, []float64{5, 5})
		require.Len(t, slope, 1)
		assert.True(t, math.IsNaN(slope[0]))
	})
}

func TestClassifyElasticity(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		expected ElasticityZone
	}{
		{"well above one", 2.5, ZoneHighEfficiency},
		{"just above one", 1.001, ZoneHighEfficiency},
		{"exactly one", 1.0, ZoneProportional},
		{"upper diminishing bound", 0.99, ZoneDiminishing},
		{"lower diminishing bound", 0.5, ZoneDiminishing},
		{"poor ROI", 0.3, ZonePoorROI},
		{"just above saturation band", 0.011, ZonePoorROI},
		{"inside saturation band", 0.005, ZoneSaturated},
		{"zero", 0.0, ZoneSaturated},
		{"small negative", -0.003, ZoneSaturated},
		{"negative", -0.5, ZonePoorROI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyElasticity(tt.value))
		})
	}
}

func TestAverageElasticity(t *testing.T) {
	t.Run("skips undefined points", func(t *testing.T) {
		points := []ElasticityPoint{
			{Value: 2.0, Defined: true},
			{Defined: false},
			{Value: 1.0, Defined: true},
		}
		avg, ok := AverageElasticity(points)
		require.True(t, ok)
		assert.InDelta(t, 1.5, avg, 1e-9)
	})

	t.Run("reports absence when nothing is defined", func(t *testing.T) {
		_, ok := AverageElasticity([]ElasticityPoint{{Defined: false}})
		assert.False(t, ok)

		_, ok = AverageElasticity(nil)
		assert.False(t, ok)
	})
}
