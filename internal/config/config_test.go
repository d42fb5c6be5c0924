package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weatherlink-live/internal/station"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("WEATHERLINK_HOSTS", "192.168.1.20")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []station.Station{{Name: DefaultStationName, Host: "192.168.1.20"}}, cfg.Stations)
	assert.True(t, cfg.UseMetric)
	assert.Equal(t, time.Minute, cfg.PollInterval)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 2, cfg.FetchRetries)
	assert.False(t, cfg.IncludeUnknownFields)
	assert.Equal(t, 1.0, cfg.RefreshRateLimit)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "8080", cfg.Port)
}

func TestLoadStations(t *testing.T) {
	t.Setenv("WEATHERLINK_HOSTS", "10.0.0.2, 10.0.0.3")
	t.Setenv("WEATHERLINK_NAMES", "Roof, Barn")
	t.Setenv("UNIT_SYSTEM", "imperial")
	t.Setenv("POLL_INTERVAL", "30s")
	t.Setenv("INCLUDE_UNKNOWN_FIELDS", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []station.Station{
		{Name: "Roof", Host: "10.0.0.2"},
		{Name: "Barn", Host: "10.0.0.3"},
	}, cfg.Stations)
	assert.False(t, cfg.UseMetric)
	assert.Equal(t, 30*time.Second, cfg.PollInterval)
	assert.True(t, cfg.IncludeUnknownFields)
}

func TestLoadGeneratesNames(t *testing.T) {
	t.Setenv("WEATHERLINK_HOSTS", "a,b")

	cfg, err := Load()
	require.NoError(t, err)
	require.Len(t, cfg.Stations, 2)
	assert.Equal(t, "Weatherlink Live 2", cfg.Stations[1].Name)
}

func TestLoadErrors(t *testing.T) {
	tests := map[string]map[string]string{
		"no hosts":          {},
		"count mismatch":    {"WEATHERLINK_HOSTS": "a,b", "WEATHERLINK_NAMES": "one"},
		"empty host":        {"WEATHERLINK_HOSTS": "a,", "WEATHERLINK_NAMES": "one,two"},
		"bad unit system":   {"WEATHERLINK_HOSTS": "a", "UNIT_SYSTEM": "kelvin"},
		"bad interval":      {"WEATHERLINK_HOSTS": "a", "POLL_INTERVAL": "soon"},
		"negative interval": {"WEATHERLINK_HOSTS": "a", "POLL_INTERVAL": "-1m"},
		"bad log level":     {"WEATHERLINK_HOSTS": "a", "LOG_LEVEL": "loud"},
		"bad rate":          {"WEATHERLINK_HOSTS": "a", "REFRESH_RATE_LIMIT": "fast"},
	}

	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv("WEATHERLINK_HOSTS", "")
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
