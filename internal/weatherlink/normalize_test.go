package weatherlink

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issCondition() RawCondition {
	return RawCondition{
		"data_structure_type": float64(1),
		"txid":                float64(3),
		"temp":                72.0,
		"hum":                 float64(55),
		"rainfall_daily":      float64(12),
		"rain_size":           float64(1),
	}
}

func TestNormalizeISSScenario(t *testing.T) {
	report := RawReport{Conditions: []RawCondition{issCondition()}}

	got := Normalize(report, NormalizeOptions{UseMetric: false})
	require.Len(t, got, 3)

	assert.Equal(t, "temp", got[0].Key)
	assert.Equal(t, 22.2, got[0].Value)
	assert.Equal(t, "°C", got[0].Unit)
	assert.Equal(t, 1, got[0].Precision)
	assert.Equal(t, CategoryTemperature, got[0].Descriptor.Category)

	assert.Equal(t, "hum", got[1].Key)
	assert.Equal(t, float64(55), got[1].Value)
	assert.Equal(t, "%", got[1].Unit)

	assert.Equal(t, "rainfall_daily", got[2].Key)
	assert.Equal(t, 0.12, got[2].Value)
	assert.Equal(t, "in", got[2].Unit)
	assert.Equal(t, AggregationTotal, got[2].Descriptor.Aggregation)

	for _, m := range got {
		assert.Equal(t, "txid3", m.Device.StableKey)
		assert.Equal(t, "ISS3", m.Device.Label)
		assert.Equal(t, KindISS, m.Device.Kind)
	}
}

func TestNormalizeSentinelSuppression(t *testing.T) {
	for _, sentinel := range []any{nil, "Unknown", "null"} {
		c := RawCondition{
			"data_structure_type": float64(1),
			"lsid":                float64(100),
			"temp":                sentinel,
			"hum":                 sentinel,
			"rainfall_daily":      sentinel,
			"wind_speed_last":     2.5,
		}
		got := Normalize(RawReport{Conditions: []RawCondition{c}}, NormalizeOptions{IncludeUnknownFields: true})
		require.Len(t, got, 1, "sentinel %v", sentinel)
		assert.Equal(t, "wind_speed_last", got[0].Key)
	}
}

func TestNormalizeEmptyReport(t *testing.T) {
	assert.Empty(t, Normalize(RawReport{}, NormalizeOptions{}))
	assert.Empty(t, Normalize(RawReport{Conditions: []RawCondition{}}, NormalizeOptions{UseMetric: true}))
}

func TestNormalizeIsDeterministic(t *testing.T) {
	report := RawReport{
		DeviceID: "001D0A1234",
		Conditions: []RawCondition{
			issCondition(),
			{"data_structure_type": float64(3), "lsid": float64(7), "bar_sea_level": 30.008, "bar_trend": -0.012},
			{"data_structure_type": float64(4), "lsid": float64(8), "temp_in": 70.1, "hum_in": 40.2, "firmware_extra": "x"},
		},
	}
	opts := NormalizeOptions{UseMetric: true, IncludeUnknownFields: true}

	first, err := json.Marshal(Normalize(report, opts))
	require.NoError(t, err)
	second, err := json.Marshal(Normalize(report, opts))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestNormalizeRegistryOrder(t *testing.T) {
	c := RawCondition{
		"data_structure_type": float64(1),
		"rainfall_year":       float64(1),
		"wind_speed_last":     float64(3),
		"temp":                float64(50),
		"solar_rad":           float64(200),
	}
	got := Normalize(RawReport{Conditions: []RawCondition{c}}, NormalizeOptions{})
	keys := make([]string, 0, len(got))
	for _, m := range got {
		keys = append(keys, m.Key)
	}
	assert.Equal(t, []string{"temp", "wind_speed_last", "rainfall_year", "solar_rad"}, keys)
}

func TestNormalizeUnknownFields(t *testing.T) {
	c := RawCondition{
		"data_structure_type": float64(99),
		"zeta":                float64(2),
		"alpha":               "on",
		"temp":                float64(32),
	}
	report := RawReport{Conditions: []RawCondition{c}}

	got := Normalize(report, NormalizeOptions{})
	require.Len(t, got, 1)
	assert.Equal(t, 0.0, got[0].Value)
	assert.Equal(t, KindGeneric, got[0].Device.Kind)
	assert.Equal(t, "Weatherlink Device dst99-0", got[0].Device.Label)

	got = Normalize(report, NormalizeOptions{IncludeUnknownFields: true})
	require.Len(t, got, 3)
	assert.Equal(t, "alpha", got[1].Key)
	assert.Equal(t, "on", got[1].Value)
	assert.Equal(t, "alpha", got[1].Descriptor.Name)
	assert.Equal(t, CategoryNone, got[1].Descriptor.Category)
	assert.Empty(t, got[1].Unit)
	assert.Equal(t, "zeta", got[2].Key)
}

func TestNormalizeUnknownRainSizePassesCountThrough(t *testing.T) {
	c := RawCondition{
		"data_structure_type": float64(1),
		"txid":                float64(1),
		"rain_size":           float64(9),
		"rain_storm":          float64(42),
	}
	got := Normalize(RawReport{Conditions: []RawCondition{c}}, NormalizeOptions{UseMetric: true})
	require.Len(t, got, 1)
	assert.Equal(t, float64(42), got[0].Value)
	assert.Equal(t, "tips", got[0].Unit)
	assert.Equal(t, 0, got[0].Precision)

	got = Normalize(RawReport{Conditions: []RawCondition{c}}, NormalizeOptions{})
	require.Len(t, got, 1)
	assert.Equal(t, "tips", got[0].Unit)
}

func TestNormalizeMissingRainSizeDefaultsToHundredthInch(t *testing.T) {
	c := RawCondition{"data_structure_type": float64(1), "rainfall_monthly": float64(100)}
	got := Normalize(RawReport{Conditions: []RawCondition{c}}, NormalizeOptions{})
	require.Len(t, got, 1)
	assert.Equal(t, 1.0, got[0].Value)
}

func TestNormalizeRainRateKeepsValueChangesUnit(t *testing.T) {
	c := RawCondition{"data_structure_type": float64(1), "rain_rate_last": float64(3)}

	imperial := Normalize(RawReport{Conditions: []RawCondition{c}}, NormalizeOptions{})
	metric := Normalize(RawReport{Conditions: []RawCondition{c}}, NormalizeOptions{UseMetric: true})
	require.Len(t, imperial, 1)
	require.Len(t, metric, 1)

	assert.Equal(t, float64(3), imperial[0].Value)
	assert.Equal(t, float64(3), metric[0].Value)
	assert.Equal(t, "in/h", imperial[0].Unit)
	assert.Equal(t, "mm/h", metric[0].Unit)
}

func TestNormalizeSharedLSIDCollapses(t *testing.T) {
	report := RawReport{Conditions: []RawCondition{
		{"data_structure_type": float64(1), "lsid": float64(5), "txid": float64(1), "temp": float64(40)},
		{"data_structure_type": float64(1), "lsid": float64(5), "txid": float64(2), "hum": float64(40)},
		{"data_structure_type": float64(1), "lsid": float64(6), "txid": float64(1), "hum": float64(41)},
		{"data_structure_type": float64(1), "txid": float64(5), "hum": float64(42)},
	}}
	got := Normalize(report, NormalizeOptions{})
	require.Len(t, got, 4)

	assert.Equal(t, got[0].Device.StableKey, got[1].Device.StableKey)
	assert.NotEqual(t, got[0].Device.StableKey, got[2].Device.StableKey)
	assert.NotEqual(t, got[0].Device.StableKey, got[3].Device.StableKey)
}
