package station

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/i474232898/weatherlink-live/internal/weatherlink"
)

// ErrUnknownStation is returned for a station name that is not configured.
var ErrUnknownStation = errors.New("unknown station")

// Options tune a Service. Zero values select defaults.
type Options struct {
	Backoff              BackoffConfig
	IncludeUnknownFields bool
	Metrics              *Metrics
	Logger               *logrus.Logger
}

// Service polls stations, normalizes their reports and publishes the
// resulting entities to a Store.
type Service struct {
	store    Store
	fetcher  Fetcher
	units    *UnitPreference
	stations []Station
	byName   map[string]int
	breakers map[string]*gobreaker.CircuitBreaker

	backoff        BackoffConfig
	includeUnknown bool
	metrics        *Metrics
	logger         *logrus.Logger
}

// NewService creates a Service. Station names must be unique and non-empty.
func NewService(store Store, fetcher Fetcher, stations []Station, units *UnitPreference, opts Options) (*Service, error) {
	s := &Service{
		store:          store,
		fetcher:        fetcher,
		units:          units,
		byName:         make(map[string]int, len(stations)),
		breakers:       make(map[string]*gobreaker.CircuitBreaker, len(stations)),
		backoff:        opts.Backoff,
		includeUnknown: opts.IncludeUnknownFields,
		metrics:        opts.Metrics,
		logger:         opts.Logger,
	}
	if s.units == nil {
		s.units = NewUnitPreference(true)
	}
	if s.backoff == (BackoffConfig{}) {
		s.backoff = DefaultBackoff
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(prometheus.NewRegistry())
	}
	if s.logger == nil {
		s.logger = logrus.StandardLogger()
	}

	for _, st := range stations {
		if st.Name == "" || st.Host == "" {
			return nil, fmt.Errorf("station requires name and host: %+v", st)
		}
		if _, dup := s.byName[st.Name]; dup {
			return nil, fmt.Errorf("duplicate station name %q", st.Name)
		}
		s.byName[st.Name] = len(s.stations)
		s.stations = append(s.stations, st)
		s.breakers[st.Name] = newBreaker("weatherlink-" + st.Name)
	}
	return s, nil
}

// Stations returns the configured stations in configuration order.
func (s *Service) Stations() []Station {
	out := make([]Station, len(s.stations))
	copy(out, s.stations)
	return out
}

// Units exposes the unit preference shared by all polls.
func (s *Service) Units() *UnitPreference {
	return s.units
}

// Refresh polls one station and publishes the result. On failure the
// station is marked unavailable and the error is returned.
func (s *Service) Refresh(ctx context.Context, name string) error {
	i, ok := s.byName[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownStation, name)
	}
	st := s.stations[i]

	log := s.logger.WithFields(logrus.Fields{
		"station": st.Name,
		"host":    st.Host,
		"poll_id": uuid.NewString(),
	})
	begin := time.Now()

	report, err := fetchWithResilience(ctx, s.backoff, s.breakers[st.Name],
		func(ctx context.Context) (weatherlink.RawReport, error) {
			return s.fetcher.Fetch(ctx, st.Endpoint())
		},
		func(attempt int, delay time.Duration, err error) {
			log.WithError(err).WithFields(logrus.Fields{
				"attempt": attempt,
				"delay":   delay.String(),
			}).Debug("retrying weatherlink fetch")
		},
	)
	if err != nil {
		s.store.MarkFailed(st, err, time.Now().UTC())
		s.metrics.observe(st.Name, begin, err, 0)
		log.WithError(err).Warn("weatherlink update failed")
		return fmt.Errorf("refresh %s: %w", st.Name, err)
	}

	if len(report.Conditions) == 0 {
		log.Warn("weatherlink returned no conditions")
	}

	opts := weatherlink.NormalizeOptions{
		UseMetric:            s.units.Metric(),
		IncludeUnknownFields: s.includeUnknown,
	}
	measurements := weatherlink.Normalize(report, opts)
	snapshot := BuildSnapshot(st, report.DeviceID, measurements, s.units.System(), time.Now().UTC())
	s.store.ReplaceStation(st, snapshot)

	s.metrics.observe(st.Name, begin, nil, len(snapshot.Entities))
	log.WithFields(logrus.Fields{
		"conditions":   len(report.Conditions),
		"measurements": len(measurements),
		"devices":      len(snapshot.Devices),
	}).Debug("weatherlink update published")
	return nil
}

// RefreshAll polls every station concurrently and joins their errors.
func (s *Service) RefreshAll(ctx context.Context) error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	for _, st := range s.stations {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			if err := s.Refresh(ctx, name); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}(st.Name)
	}

	wg.Wait()
	return errors.Join(errs...)
}

// GetStation returns the last published state of a station.
func (s *Service) GetStation(name string) (State, error) {
	if _, ok := s.byName[name]; !ok {
		return State{}, fmt.Errorf("%w: %s", ErrUnknownStation, name)
	}
	return s.store.GetStation(name)
}

// ListStations returns the last published state of every station.
func (s *Service) ListStations() []State {
	return s.store.ListStations()
}

// GetEntity returns one published entity.
func (s *Service) GetEntity(uniqueID string) (Entity, error) {
	return s.store.GetEntity(uniqueID)
}
