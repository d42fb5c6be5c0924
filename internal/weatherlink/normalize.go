package weatherlink

import "sort"

// NormalizeOptions carries the caller's unit preference into Normalize.
type NormalizeOptions struct {
	UseMetric bool
	// IncludeUnknownFields also emits keys missing from the registry, with a
	// generic descriptor, after all registered keys of the same condition.
	IncludeUnknownFields bool
}

// Measurement is one typed, converted value of one sub-device.
type Measurement struct {
	Device     DeviceIdentity  `json:"device"`
	Key        string          `json:"key"`
	Descriptor FieldDescriptor `json:"descriptor"`
	Value      any             `json:"value"`
	Unit       string          `json:"unit,omitempty"`
	Precision  int             `json:"precision"`
}

var structuralKeys = map[string]struct{}{
	KeyDataStructureType: {},
	KeyLSID:              {},
	KeyTXID:              {},
	KeyRainSize:          {},
}

// Normalize turns the conditions of report into measurements, in condition
// order and, within a condition, in registry order. It never fails: unknown
// record types, fields and rain sizes degrade to generic handling.
func Normalize(report RawReport, opts NormalizeOptions) []Measurement {
	var out []Measurement
	for i, c := range report.Conditions {
		out = append(out, normalizeCondition(c, i, opts)...)
	}
	return out
}

func normalizeCondition(c RawCondition, index int, opts NormalizeOptions) []Measurement {
	id := IdentityOf(c, index)
	rainSize := RainSize(c)

	var out []Measurement
	emit := func(d FieldDescriptor) {
		raw, ok := c[d.Key]
		if !ok || isSentinel(raw) {
			return
		}
		value, precision, unit := ConvertValue(d, raw, rainSize, opts)
		out = append(out, Measurement{
			Device:     id,
			Key:        d.Key,
			Descriptor: d,
			Value:      value,
			Unit:       unit,
			Precision:  precision,
		})
	}

	for _, d := range registry {
		emit(d)
	}

	if opts.IncludeUnknownFields {
		for _, key := range unknownKeys(c) {
			emit(Describe(key))
		}
	}
	return out
}

func unknownKeys(c RawCondition) []string {
	var keys []string
	for k := range c {
		if _, structural := structuralKeys[k]; structural {
			continue
		}
		if _, known := registryIndex[k]; known {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
