package station

import (
	"net/url"
	"strings"
	"time"

	"github.com/i474232898/weatherlink-live/internal/weatherlink"
	"github.com/i474232898/weatherlink-live/internal/weatherlink/davis"
)

// Station is one configured WeatherLink Live.
type Station struct {
	Name string `json:"name" validate:"required"`
	Host string `json:"host" validate:"required"`
}

// Endpoint returns the current_conditions URL of the station.
func (s Station) Endpoint() string {
	return davis.Endpoint(s.Host)
}

// ConfigurationURL is the device's own web page.
func (s Station) ConfigurationURL() string {
	if u, err := url.Parse(s.Host); err == nil && u.Scheme != "" && u.Host != "" {
		return u.Scheme + "://" + u.Host + "/"
	}
	return "http://" + strings.TrimSuffix(s.Host, "/") + "/"
}

// HostKey is the device address without scheme or path, used to namespace
// unique ids.
func (s Station) HostKey() string {
	host := strings.TrimSpace(s.Host)
	if u, err := url.Parse(host); err == nil && u.Scheme != "" && u.Host != "" {
		return u.Host
	}
	if i := strings.Index(host, "/"); i >= 0 {
		host = host[:i]
	}
	return host
}

// Device groups the entities of one sub-device.
type Device struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	Kind             weatherlink.DeviceKind `json:"kind"`
	Manufacturer     string                 `json:"manufacturer"`
	Model            string                 `json:"model"`
	ViaDevice        string                 `json:"via_device"`
	ConfigurationURL string                 `json:"configuration_url"`
}

// Entity is a published measurement, addressable by UniqueID.
type Entity struct {
	UniqueID    string `json:"unique_id"`
	Name        string `json:"name"`
	Key         string `json:"key"`
	DeviceID    string `json:"device_id"`
	DeviceClass string `json:"device_class,omitempty"`
	StateClass  string `json:"state_class,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Unit        string `json:"unit_of_measurement,omitempty"`
	Precision   int    `json:"suggested_display_precision"`
	Value       any    `json:"state"`
	// Available is filled in when the entity is read back from a Store.
	Available bool `json:"available"`
}

// Snapshot is everything derived from one successful poll.
type Snapshot struct {
	DeviceID   string    `json:"did,omitempty"`
	UnitSystem string    `json:"unit_system"`
	UpdatedAt  time.Time `json:"updated_at"`
	Devices    []Device  `json:"devices"`
	Entities   []Entity  `json:"entities"`
}

// State is the last known view of a station.
type State struct {
	Station     Station   `json:"station"`
	Available   bool      `json:"available"`
	LastAttempt time.Time `json:"last_attempt"`
	LastError   string    `json:"last_error,omitempty"`
	Snapshot
}

// Store keeps the last published state of every station.
type Store interface {
	ReplaceStation(st Station, snapshot Snapshot)
	MarkFailed(st Station, err error, at time.Time)
	GetStation(name string) (State, error)
	ListStations() []State
	GetEntity(uniqueID string) (Entity, error)
}
