package weatherlink

import "math"

// rainBucket is the depth of one tip for a rain collector size code.
type rainBucket struct {
	mm          float64
	inch        float64
	mmPrecision int
}

const (
	defaultRainSize = 1
	inchPrecision   = 3
)

var rainBuckets = map[int]rainBucket{
	1: {mm: 0.254, inch: 0.01, mmPrecision: 2},
	2: {mm: 0.2, inch: 0.00787, mmPrecision: 2},
	3: {mm: 0.1, inch: 0.00394, mmPrecision: 2},
	4: {mm: 0.0254, inch: 0.001, mmPrecision: 3},
}

// RainSize returns the collector size code of c. Missing or sentinel values
// default to 1; values that are present but not integral yield 0, which no
// bucket matches.
func RainSize(c RawCondition) int {
	v, ok := c[KeyRainSize]
	if !ok || isSentinel(v) {
		return defaultRainSize
	}
	n, ok := c.Int(KeyRainSize)
	if !ok {
		return 0
	}
	return int(n)
}

// TipsToDepth converts a tip count to a depth in mm or inches. ok is false
// for an unknown size code, in which case the count is returned unchanged.
func TipsToDepth(tips float64, rainSize int, metric bool) (depth float64, precision int, ok bool) {
	b, found := rainBuckets[rainSize]
	if !found {
		return tips, 0, false
	}
	if metric {
		return Round(tips*b.mm, b.mmPrecision), b.mmPrecision, true
	}
	return Round(tips*b.inch, inchPrecision), inchPrecision, true
}

// FahrenheitToCelsius converts and rounds to one decimal.
func FahrenheitToCelsius(f float64) float64 {
	return Round((f-32)*5/9, 1)
}

// Round rounds v half away from zero to the given number of decimals.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	r := math.Round(v*p) / p
	if r == 0 {
		return 0 // drop negative zero
	}
	return r
}

// ResolvedUnit returns the published unit for a category. Temperatures are
// always published in Celsius. Categories without a fixed unit return "".
func ResolvedUnit(category Category, metric bool) string {
	switch category {
	case CategoryTemperature:
		return "°C"
	case CategoryHumidity:
		return "%"
	case CategoryPressure:
		return "inHg"
	case CategoryPrecipitation:
		if metric {
			return "mm"
		}
		return "in"
	case CategoryPrecipitationIntensity:
		if metric {
			return "mm/h"
		}
		return "in/h"
	case CategoryWindSpeed:
		return "mph"
	case CategoryWindDirection:
		return "°"
	case CategoryIlluminance:
		return "W/m²"
	case CategoryConcentration:
		return "µg/m³"
	}
	return ""
}

// UnitFor resolves the unit of d, falling back to its raw unit.
func UnitFor(d FieldDescriptor, opts NormalizeOptions) string {
	if u := ResolvedUnit(d.Category, opts.UseMetric); u != "" {
		return u
	}
	return d.RawUnit
}

// ConvertValue converts raw according to d and returns the unit the result is
// expressed in. rainSize is only consulted for tip counters. Anything not
// converted is returned as received, and a tip count or temperature that
// could not be converted keeps its raw unit.
func ConvertValue(d FieldDescriptor, raw any, rainSize int, opts NormalizeOptions) (value any, precision int, unit string) {
	f, numeric := toFloat(raw)

	switch {
	case d.Tips:
		if !numeric {
			return raw, d.Precision, d.RawUnit
		}
		depth, p, ok := TipsToDepth(f, rainSize, opts.UseMetric)
		if !ok {
			return raw, d.Precision, d.RawUnit
		}
		return depth, p, UnitFor(d, opts)
	case d.Category == CategoryTemperature:
		if !numeric {
			return raw, d.Precision, d.RawUnit
		}
		return FahrenheitToCelsius(f), 1, UnitFor(d, opts)
	}
	return raw, d.Precision, UnitFor(d, opts)
}
