package weatherlink

import (
	"math"
	"strconv"
)

// Structural keys carried by every condition record. They identify the record
// and never become measurements on their own.
const (
	KeyDataStructureType = "data_structure_type"
	KeyLSID              = "lsid"
	KeyTXID              = "txid"
	KeyRainSize          = "rain_size"
)

// RawReport is one fetched current_conditions envelope.
type RawReport struct {
	DeviceID   string
	Conditions []RawCondition
}

// RawCondition is a single entry of data.conditions, decoded as-is.
// Values are float64, string, bool or nil as produced by encoding/json.
type RawCondition map[string]any

// Has reports whether key is present, even with a null value.
func (c RawCondition) Has(key string) bool {
	_, ok := c[key]
	return ok
}

// Int returns the integer value of key. ok is false when the key is missing,
// null, not a whole number, or outside the int64 range.
func (c RawCondition) Int(key string) (int64, bool) {
	v, present := c[key]
	if !present {
		return 0, false
	}
	f, ok := toFloat(v)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// DataStructureType returns the record type, or 0 when absent.
func (c RawCondition) DataStructureType() int {
	t, _ := c.Int(KeyDataStructureType)
	return int(t)
}

// isSentinel reports whether v is one of the device's "no data" markers.
func isSentinel(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == "Unknown" || t == "null"
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
