package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/i474232898/weatherlink-live/internal/common"
	"github.com/i474232898/weatherlink-live/internal/station"
)

// DefaultStationName is used when no names are configured.
const DefaultStationName = "Weatherlink Live"

type AppConfig struct {
	// Stations to poll.
	Stations []station.Station `validate:"required,min=1,dive"`

	// UseMetric is the global unit preference applied to every poll.
	UseMetric bool

	// PollInterval controls how often every station is refreshed.
	PollInterval time.Duration `validate:"gt=0"`
	HTTPTimeout  time.Duration `validate:"gt=0"`
	FetchRetries int           `validate:"gte=0,lte=10"`

	IncludeUnknownFields bool

	// RefreshRateLimit caps manual refreshes per second across the API.
	RefreshRateLimit float64 `validate:"gt=0"`

	LogLevel  string `validate:"oneof=trace debug info warn warning error"`
	LogFormat string `validate:"oneof=json text"`

	Port string `validate:"required,numeric"`
}

var validate = validator.New()

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	metric, err := station.ParseUnitSystem(getenvDefault("UNIT_SYSTEM", station.UnitSystemMetric))
	if err != nil {
		return nil, fmt.Errorf("invalid UNIT_SYSTEM: %w", err)
	}
	cfg.UseMetric = metric

	if cfg.PollInterval, err = getenvDuration("POLL_INTERVAL", "1m"); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}

	cfg.FetchRetries = getenvInt("FETCH_RETRIES", 2)
	cfg.IncludeUnknownFields = common.ParseBool(os.Getenv("INCLUDE_UNKNOWN_FIELDS"))

	rate, err := strconv.ParseFloat(getenvDefault("REFRESH_RATE_LIMIT", "1"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_RATE_LIMIT: %w", err)
	}
	cfg.RefreshRateLimit = rate

	cfg.LogLevel = getenvDefault("LOG_LEVEL", "info")
	cfg.LogFormat = getenvDefault("LOG_FORMAT", "json")
	cfg.Port = getenvDefault("PORT", "8080")

	stations, err := loadStations()
	if err != nil {
		return nil, err
	}
	cfg.Stations = stations

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadStations() ([]station.Station, error) {
	hosts := common.SplitList(os.Getenv("WEATHERLINK_HOSTS"))
	names := common.SplitList(os.Getenv("WEATHERLINK_NAMES"))

	if len(names) == 0 {
		for i := range hosts {
			name := DefaultStationName
			if i > 0 {
				name = fmt.Sprintf("%s %d", DefaultStationName, i+1)
			}
			names = append(names, name)
		}
	}
	if len(hosts) != len(names) {
		return nil, fmt.Errorf("number of weatherlink names and hosts must be the same")
	}

	var stations []station.Station
	for i := range hosts {
		stations = append(stations, station.Station{
			Name: names[i],
			Host: hosts[i],
		})
	}

	return stations, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
