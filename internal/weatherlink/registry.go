package weatherlink

import "fmt"

// Category is the physical quantity a field measures.
type Category string

const (
	CategoryTemperature            Category = "temperature"
	CategoryHumidity               Category = "humidity"
	CategoryPressure               Category = "pressure"
	CategoryPrecipitation          Category = "precipitation"
	CategoryPrecipitationIntensity Category = "precipitation_intensity"
	CategoryWindSpeed              Category = "wind_speed"
	CategoryWindDirection          Category = "wind_direction"
	CategoryIlluminance            Category = "illuminance"
	CategoryConcentration          Category = "concentration"
	CategoryNone                   Category = "none"
)

// Aggregation tells the platform how successive values relate to each other.
type Aggregation string

const (
	AggregationInstantaneous Aggregation = "measurement"
	AggregationTotal         Aggregation = "total"
	AggregationNone          Aggregation = ""
)

// FieldDescriptor is the static metadata for one known condition field.
type FieldDescriptor struct {
	Key         string      `json:"key"`
	Name        string      `json:"name"`
	Category    Category    `json:"category"`
	Icon        string      `json:"icon,omitempty"`
	Aggregation Aggregation `json:"aggregation,omitempty"`
	// RawUnit is the unit the device reports the value in.
	RawUnit string `json:"raw_unit,omitempty"`
	// Precision is the display precision when no conversion overrides it.
	Precision int `json:"precision"`
	// Tips marks rain counters reported as bucket tip counts.
	Tips bool `json:"-"`
}

func temperature(key, name, icon string) FieldDescriptor {
	return FieldDescriptor{Key: key, Name: name, Category: CategoryTemperature, Icon: icon, Aggregation: AggregationInstantaneous, RawUnit: "°F", Precision: 1}
}

func humidity(key, name string) FieldDescriptor {
	return FieldDescriptor{Key: key, Name: name, Category: CategoryHumidity, Icon: "mdi:water-percent", Aggregation: AggregationInstantaneous, RawUnit: "%"}
}

func windSpeed(key, name string) FieldDescriptor {
	return FieldDescriptor{Key: key, Name: name, Category: CategoryWindSpeed, Icon: "mdi:weather-windy", Aggregation: AggregationInstantaneous, RawUnit: "mph", Precision: 1}
}

func windDirection(key, name string) FieldDescriptor {
	return FieldDescriptor{Key: key, Name: name, Category: CategoryWindDirection, Icon: "mdi:compass-outline", Aggregation: AggregationInstantaneous, RawUnit: "°"}
}

func rainfall(key, name string) FieldDescriptor {
	return FieldDescriptor{Key: key, Name: name, Category: CategoryPrecipitation, Icon: "mdi:weather-rainy", Aggregation: AggregationTotal, RawUnit: "tips", Tips: true}
}

func rainRate(key, name string) FieldDescriptor {
	return FieldDescriptor{Key: key, Name: name, Category: CategoryPrecipitationIntensity, Icon: "mdi:weather-pouring", Aggregation: AggregationInstantaneous, RawUnit: "in/h", Precision: 2}
}

func pressure(key, name, icon string) FieldDescriptor {
	return FieldDescriptor{Key: key, Name: name, Category: CategoryPressure, Icon: icon, Aggregation: AggregationInstantaneous, RawUnit: "inHg", Precision: 3}
}

func particulate(key, name string) FieldDescriptor {
	return FieldDescriptor{Key: key, Name: name, Category: CategoryConcentration, Icon: "mdi:blur", Aggregation: AggregationInstantaneous, RawUnit: "µg/m³", Precision: 1}
}

func plain(key, name, icon, unit string, agg Aggregation, precision int) FieldDescriptor {
	return FieldDescriptor{Key: key, Name: name, Category: CategoryNone, Icon: icon, Aggregation: agg, RawUnit: unit, Precision: precision}
}

// registry lists every known field in the order measurements are emitted.
var registry = []FieldDescriptor{
	// ISS and AirLink climate
	temperature("temp", "Temperature", "mdi:thermometer"),
	humidity("hum", "Humidity"),
	temperature("dew_point", "Dew Point", "mdi:weather-fog"),
	temperature("wet_bulb", "Wet Bulb", "mdi:thermometer-water"),
	temperature("heat_index", "Heat Index", "mdi:sun-thermometer"),
	temperature("wind_chill", "Wind Chill", "mdi:snowflake-thermometer"),
	temperature("thw_index", "THW Index", "mdi:thermometer"),
	temperature("thsw_index", "THSW Index", "mdi:thermometer"),

	// ISS wind
	windSpeed("wind_speed_last", "Wind Speed"),
	windDirection("wind_dir_last", "Wind Direction"),
	windSpeed("wind_speed_avg_last_1_min", "Wind Speed Avg 1 Min"),
	windDirection("wind_dir_scalar_avg_last_1_min", "Wind Direction Avg 1 Min"),
	windSpeed("wind_speed_avg_last_2_min", "Wind Speed Avg 2 Min"),
	windDirection("wind_dir_scalar_avg_last_2_min", "Wind Direction Avg 2 Min"),
	windSpeed("wind_speed_hi_last_2_min", "Wind Gust 2 Min"),
	windDirection("wind_dir_at_hi_speed_last_2_min", "Wind Gust Direction 2 Min"),
	windSpeed("wind_speed_avg_last_10_min", "Wind Speed Avg 10 Min"),
	windDirection("wind_dir_scalar_avg_last_10_min", "Wind Direction Avg 10 Min"),
	windSpeed("wind_speed_hi_last_10_min", "Wind Gust 10 Min"),
	windDirection("wind_dir_at_hi_speed_last_10_min", "Wind Gust Direction 10 Min"),

	// ISS rain
	rainRate("rain_rate_last", "Rain Rate"),
	rainRate("rain_rate_hi", "Rain Rate High"),
	rainRate("rain_rate_hi_last_15_min", "Rain Rate High 15 Min"),
	rainfall("rainfall_last_15_min", "Rainfall Last 15 Min"),
	rainfall("rainfall_last_60_min", "Rainfall Last Hour"),
	rainfall("rainfall_last_24_hr", "Rainfall Last 24 Hours"),
	rainfall("rain_storm", "Rain Storm"),
	rainfall("rain_storm_last", "Last Rain Storm"),
	rainfall("rainfall_daily", "Daily Rainfall"),
	rainfall("rainfall_monthly", "Monthly Rainfall"),
	rainfall("rainfall_year", "Yearly Rainfall"),

	// ISS solar and diagnostics
	{Key: "solar_rad", Name: "Solar Radiation", Category: CategoryIlluminance, Icon: "mdi:white-balance-sunny", Aggregation: AggregationInstantaneous, RawUnit: "W/m²"},
	plain("uv_index", "UV Index", "mdi:sun-wireless", "UV index", AggregationInstantaneous, 1),
	plain("rx_state", "Reception State", "mdi:signal", "", AggregationNone, 0),
	plain("trans_battery_flag", "Transmitter Battery", "mdi:battery", "", AggregationNone, 0),

	// Soil and leaf station
	temperature("temp_1", "Soil Temperature 1", "mdi:thermometer"),
	temperature("temp_2", "Soil Temperature 2", "mdi:thermometer"),
	temperature("temp_3", "Soil Temperature 3", "mdi:thermometer"),
	temperature("temp_4", "Soil Temperature 4", "mdi:thermometer"),
	plain("moist_soil_1", "Soil Moisture 1", "mdi:water", "cb", AggregationInstantaneous, 0),
	plain("moist_soil_2", "Soil Moisture 2", "mdi:water", "cb", AggregationInstantaneous, 0),
	plain("moist_soil_3", "Soil Moisture 3", "mdi:water", "cb", AggregationInstantaneous, 0),
	plain("moist_soil_4", "Soil Moisture 4", "mdi:water", "cb", AggregationInstantaneous, 0),
	plain("wet_leaf_1", "Leaf Wetness 1", "mdi:leaf", "", AggregationInstantaneous, 1),
	plain("wet_leaf_2", "Leaf Wetness 2", "mdi:leaf", "", AggregationInstantaneous, 1),

	// Barometer
	pressure("bar_sea_level", "Barometric Pressure", "mdi:gauge"),
	pressure("bar_absolute", "Absolute Pressure", "mdi:gauge"),
	pressure("bar_trend", "Pressure Trend", "mdi:trending-up"),

	// Indoor
	temperature("temp_in", "Indoor Temperature", "mdi:home-thermometer"),
	humidity("hum_in", "Indoor Humidity"),
	temperature("dew_point_in", "Indoor Dew Point", "mdi:weather-fog"),
	temperature("heat_index_in", "Indoor Heat Index", "mdi:sun-thermometer"),

	// AirLink
	particulate("pm_1_last", "PM1"),
	particulate("pm_2p5_last", "PM2.5"),
	particulate("pm_10_last", "PM10"),
	particulate("pm_1", "PM1 Avg 1 Min"),
	particulate("pm_2p5", "PM2.5 Avg 1 Min"),
	particulate("pm_2p5_last_1_hour", "PM2.5 Avg 1 Hour"),
	particulate("pm_2p5_last_3_hours", "PM2.5 Avg 3 Hours"),
	particulate("pm_2p5_last_24_hours", "PM2.5 Avg 24 Hours"),
	particulate("pm_2p5_nowcast", "PM2.5 NowCast"),
	particulate("pm_10", "PM10 Avg 1 Min"),
	particulate("pm_10_last_1_hour", "PM10 Avg 1 Hour"),
	particulate("pm_10_last_3_hours", "PM10 Avg 3 Hours"),
	particulate("pm_10_last_24_hours", "PM10 Avg 24 Hours"),
	particulate("pm_10_nowcast", "PM10 NowCast"),
	plain("pct_pm_data_last_1_hour", "PM Data Completeness 1 Hour", "mdi:percent", "%", AggregationInstantaneous, 0),
	plain("pct_pm_data_last_3_hours", "PM Data Completeness 3 Hours", "mdi:percent", "%", AggregationInstantaneous, 0),
	plain("pct_pm_data_nowcast", "PM Data Completeness NowCast", "mdi:percent", "%", AggregationInstantaneous, 0),
	plain("pct_pm_data_last_24_hours", "PM Data Completeness 24 Hours", "mdi:percent", "%", AggregationInstantaneous, 0),
}

var registryIndex = buildIndex(registry)

func buildIndex(fields []FieldDescriptor) map[string]int {
	idx := make(map[string]int, len(fields))
	for i, f := range fields {
		if _, dup := idx[f.Key]; dup {
			panic(fmt.Sprintf("weatherlink: duplicate field %q in registry", f.Key))
		}
		idx[f.Key] = i
	}
	return idx
}

// Lookup returns the descriptor registered for key.
func Lookup(key string) (FieldDescriptor, bool) {
	i, ok := registryIndex[key]
	if !ok {
		return FieldDescriptor{}, false
	}
	return registry[i], true
}

// Describe returns the registered descriptor for key, or a generic one named
// after the key when the field is unknown.
func Describe(key string) FieldDescriptor {
	if d, ok := Lookup(key); ok {
		return d
	}
	return FieldDescriptor{Key: key, Name: key, Category: CategoryNone}
}

// Fields returns a copy of the registry in declaration order.
func Fields() []FieldDescriptor {
	out := make([]FieldDescriptor, len(registry))
	copy(out, registry)
	return out
}
