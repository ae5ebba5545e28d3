package responsecurve

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInflectionPoint(t *testing.T) {
	t.Run("closed form for steep curves", func(t *testing.T) {
		params := ModelParams{HalfLife: 7, Penetration: 100, Effectiveness: 1, HillPower: 2}

		lm, err := InflectionPoint(params)
		require.NoError(t, err)
		require.True(t, lm.Found())

		// x_A = k * ((p-1)/(p+1))^(1/p) = 100 * (1/3)^0.5
		assert.InDelta(t, 100*math.Sqrt(1.0/3.0), lm.X, 1e-9)
		assert.InDelta(t, Saturation(lm.X, 100, 2), lm.Y, 1e-9)
	})

	t.Run("not applicable at or below hill power 1", func(t *testing.T) {
		for _, p := range []float64{0.5, 1.0} {
			lm, err := InflectionPoint(ModelParams{HalfLife: 7, Penetration: 100, Effectiveness: 1, HillPower: p})
			require.NoError(t, err)
			assert.Equal(t, LandmarkNotApplicable, lm.Status)
			assert.False(t, lm.Found())
		}
	})

	t.Run("rejects invalid parameters", func(t *testing.T) {
		_, err := InflectionPoint(ModelParams{HalfLife: 7, Penetration: -1, Effectiveness: 1, HillPower: 2})
		var paramErr *ParameterError
		require.ErrorAs(t, err, &paramErr)
	})
}

func TestSaturationPoint(t *testing.T) {
	t.Run("closed form at 95 percent target", func(t *testing.T) {
		params := ModelParams{HalfLife: 7, Penetration: 100, Effectiveness: 1, HillPower: 2}

		lm, err := SaturationPoint(params, 0.95)
		require.NoError(t, err)
		require.True(t, lm.Found())

		// x_D = k * (0.95/0.05)^(1/p) = 100 * sqrt(19)
		assert.InDelta(t, 100*math.Sqrt(19), lm.X, 1e-6)
		assert.InDelta(t, 435.889894, lm.X, 1e-4)
		assert.InDelta(t, 0.95, lm.Y, 1e-9)

		// the located x really does produce the target response
		assert.InDelta(t, 0.95, Saturation(lm.X, params.Penetration, params.HillPower), 1e-9)
	})

	t.Run("rejects targets outside (0,1)", func(t *testing.T) {
		params := ModelParams{HalfLife: 7, Penetration: 100, Effectiveness: 1, HillPower: 2}
		for _, target := range []float64{0, 1, -0.5, 1.5} {
			_, err := SaturationPoint(params, target)
			var paramErr *ParameterError
			require.ErrorAs(t, err, &paramErr)
			assert.Equal(t, "saturation_target", paramErr.Param)
		}
	})
}

func TestDiminishingReturnPoint(t *testing.T) {
	adstocked := []float64{10, 20, 40, 80}
	response := []float64{2, 5, 9, 12}

	t.Run("first crossing below threshold wins", func(t *testing.T) {
		elasticity := []ElasticityPoint{
			{Value: 1.8, Defined: true},
			{Value: 0.9, Defined: true},
			{Value: 0.4, Defined: true},
		}

		lm := DiminishingReturnPoint(adstocked, response, elasticity)
		require.True(t, lm.Found())
		assert.Equal(t, 20.0, lm.X)
		assert.Equal(t, 5.0, lm.Y)
	})

	t.Run("skips undefined points", func(t *testing.T) {
		elasticity := []ElasticityPoint{
			{Defined: false},
			{Value: 1.2, Defined: true},
			{Value: 0.7, Defined: true},
		}

		lm := DiminishingReturnPoint(adstocked, response, elasticity)
		require.True(t, lm.Found())
		assert.Equal(t, 40.0, lm.X)
	})

	t.Run("beyond range when elasticity never drops", func(t *testing.T) {
		elasticity := []ElasticityPoint{
			{Value: 1.8, Defined: true},
			{Value: 1.2, Defined: true},
		}
		lm := DiminishingReturnPoint(adstocked, response, elasticity)
		assert.Equal(t, LandmarkBeyondRange, lm.Status)
	})

	t.Run("beyond range when nothing is defined", func(t *testing.T) {
		lm := DiminishingReturnPoint(adstocked, response, []ElasticityPoint{{Defined: false}})
		assert.Equal(t, LandmarkBeyondRange, lm.Status)
	})
}

func TestLandmarkJSON(t *testing.T) {
	t.Run("found landmark round-trips with coordinates", func(t *testing.T) {
		lm := Landmark{Status: LandmarkFound, X: 435.89, Y: 0.95}

		data, err := json.Marshal(lm)
		require.NoError(t, err)
		assert.JSONEq(t, `{"status":"found","x":435.89,"y":0.95}`, string(data))

		var decoded Landmark
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, lm, decoded)
	})

	t.Run("absent landmark omits coordinates", func(t *testing.T) {
		data, err := json.Marshal(Landmark{Status: LandmarkNotApplicable, X: 123, Y: 456})
		require.NoError(t, err)
		assert.JSONEq(t, `{"status":"not-applicable"}`, string(data))
	})

	t.Run("unknown status fails to decode", func(t *testing.T) {
		var lm Landmark
		err := json.Unmarshal([]byte(`{"status":"nearby"}`), &lm)
		assert.Error(t, err)
	})
}
