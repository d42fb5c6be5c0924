package weatherlink

import "fmt"

// Manufacturer of every sub-device reported by a WeatherLink Live.
const Manufacturer = "Davis Instruments"

// DeviceKind is the sub-device family, derived from data_structure_type.
type DeviceKind int

const (
	KindGeneric    DeviceKind = 0
	KindISS        DeviceKind = 1
	KindMoisture   DeviceKind = 2
	KindBarometer  DeviceKind = 3
	KindIndoor     DeviceKind = 4
	KindAirQuality DeviceKind = 6
)

// KindOf maps a data_structure_type to its DeviceKind. Unknown values map to
// KindGeneric.
func KindOf(dataStructureType int) DeviceKind {
	switch k := DeviceKind(dataStructureType); k {
	case KindISS, KindMoisture, KindBarometer, KindIndoor, KindAirQuality:
		return k
	}
	return KindGeneric
}

// Model returns the product name used for device metadata.
func (k DeviceKind) Model() string {
	switch k {
	case KindISS:
		return "Integrated Sensor Suite"
	case KindMoisture:
		return "Soil/Leaf Moisture Station"
	case KindBarometer:
		return "WeatherLink Live Barometer"
	case KindIndoor:
		return "WeatherLink Live Temp/Hum"
	case KindAirQuality:
		return "AirLink"
	}
	return "Weatherlink Device"
}

func (k DeviceKind) String() string {
	switch k {
	case KindISS:
		return "iss"
	case KindMoisture:
		return "moisture"
	case KindBarometer:
		return "barometer"
	case KindIndoor:
		return "indoor"
	case KindAirQuality:
		return "air_quality"
	}
	return "generic"
}

func (k DeviceKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// DeviceIdentity identifies one sub-device within a station.
type DeviceIdentity struct {
	// StableKey is namespaced by its source so an lsid never collides with a
	// txid or a positional key carrying the same number.
	StableKey string     `json:"stable_key"`
	Label     string     `json:"label"`
	Kind      DeviceKind `json:"kind"`
}

// IdentityOf derives the identity of the condition at position index of its
// report. The key is lsid, then txid, then a positional fallback.
func IdentityOf(c RawCondition, index int) DeviceIdentity {
	dst := c.DataStructureType()
	kind := KindOf(dst)

	var key string
	if lsid, ok := c.Int(KeyLSID); ok {
		key = fmt.Sprintf("lsid%d", lsid)
	} else if txid, ok := c.Int(KeyTXID); ok {
		key = fmt.Sprintf("txid%d", txid)
	} else {
		key = fmt.Sprintf("dst%d-%d", dst, index)
	}

	return DeviceIdentity{
		StableKey: key,
		Label:     labelFor(c, kind, key),
		Kind:      kind,
	}
}

func labelFor(c RawCondition, kind DeviceKind, key string) string {
	switch kind {
	case KindISS:
		if txid, ok := c.Int(KeyTXID); ok {
			return fmt.Sprintf("ISS%d", txid)
		}
		return "ISS"
	case KindMoisture:
		if txid, ok := c.Int(KeyTXID); ok {
			return fmt.Sprintf("Soil/Leaf %d", txid)
		}
		return "Soil/Leaf"
	case KindBarometer:
		return "WLL Baro"
	case KindIndoor:
		return "WLL Temp/Hum"
	case KindAirQuality:
		return "Airlink"
	}
	return "Weatherlink Device " + key
}
