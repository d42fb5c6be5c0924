package station

import (
	"fmt"
	"time"

	"github.com/i474232898/weatherlink-live/internal/weatherlink"
)

// UniqueID is the platform-wide id of a measurement of a station.
func UniqueID(st Station, deviceKey, fieldKey string) string {
	return fmt.Sprintf("%s_%s_%s", st.HostKey(), deviceKey, fieldKey)
}

// BuildSnapshot groups measurements into devices and entities. Devices keep
// first-seen order. When two conditions share an identity and a field, the
// later value replaces the earlier one in place.
func BuildSnapshot(st Station, deviceID string, ms []weatherlink.Measurement, unitSystem string, at time.Time) Snapshot {
	via := deviceID
	if via == "" {
		via = st.Host
	}

	snap := Snapshot{
		DeviceID:   deviceID,
		UnitSystem: unitSystem,
		UpdatedAt:  at,
		Devices:    []Device{},
		Entities:   make([]Entity, 0, len(ms)),
	}

	seenDevices := make(map[string]struct{})
	entityPos := make(map[string]int, len(ms))

	for _, m := range ms {
		if _, ok := seenDevices[m.Device.StableKey]; !ok {
			seenDevices[m.Device.StableKey] = struct{}{}
			snap.Devices = append(snap.Devices, Device{
				ID:               m.Device.StableKey,
				Name:             m.Device.Label,
				Kind:             m.Device.Kind,
				Manufacturer:     weatherlink.Manufacturer,
				Model:            m.Device.Kind.Model(),
				ViaDevice:        via,
				ConfigurationURL: st.ConfigurationURL(),
			})
		}

		e := entityFor(st, m)
		if i, dup := entityPos[e.UniqueID]; dup {
			snap.Entities[i] = e
			continue
		}
		entityPos[e.UniqueID] = len(snap.Entities)
		snap.Entities = append(snap.Entities, e)
	}
	return snap
}

func entityFor(st Station, m weatherlink.Measurement) Entity {
	e := Entity{
		UniqueID:   UniqueID(st, m.Device.StableKey, m.Key),
		Name:       m.Device.Label + " " + m.Descriptor.Name,
		Key:        m.Key,
		DeviceID:   m.Device.StableKey,
		StateClass: string(m.Descriptor.Aggregation),
		Icon:       m.Descriptor.Icon,
		Unit:       m.Unit,
		Precision:  m.Precision,
		Value:      m.Value,
	}
	if m.Descriptor.Category != weatherlink.CategoryNone {
		e.DeviceClass = string(m.Descriptor.Category)
	}
	return e
}
