package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/weatherlink-live/internal/station"
)

var (
	// ErrNotFound is returned when a station or entity has never been published.
	ErrNotFound = errors.New("not found")
)

// stationRecord holds the last poll outcome of one station.
type stationRecord struct {
	station     station.Station
	snapshot    station.Snapshot
	available   bool
	lastAttempt time.Time
	lastError   string
}

// MemoryStore is a concurrency-safe in-memory entity registry. It only keeps
// the latest snapshot per station.
type MemoryStore struct {
	mu sync.RWMutex

	// key: station name
	data map[string]*stationRecord
	// key: entity unique id, value: station name
	entities map[string]string
	// station names in first-seen order
	order []string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:     make(map[string]*stationRecord),
		entities: make(map[string]string),
	}
}

func (s *MemoryStore) record(st station.Station) *stationRecord {
	rec, ok := s.data[st.Name]
	if !ok {
		rec = &stationRecord{}
		s.data[st.Name] = rec
		s.order = append(s.order, st.Name)
	}
	rec.station = st
	return rec
}

// ReplaceStation publishes a new snapshot and marks the station available.
// Entities missing from the new snapshot are dropped.
func (s *MemoryStore) ReplaceStation(st station.Station, snapshot station.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.record(st)
	for _, e := range rec.snapshot.Entities {
		delete(s.entities, e.UniqueID)
	}

	rec.snapshot = snapshot
	rec.available = true
	rec.lastAttempt = snapshot.UpdatedAt
	rec.lastError = ""

	for _, e := range snapshot.Entities {
		s.entities[e.UniqueID] = st.Name
	}
}

// MarkFailed marks every entity of the station unavailable. The previous
// snapshot keeps the entity list, but its values are withheld until the next
// successful poll.
func (s *MemoryStore) MarkFailed(st station.Station, err error, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.record(st)
	rec.available = false
	rec.lastAttempt = at
	if err != nil {
		rec.lastError = err.Error()
	}
}

// GetStation returns the state of a station.
func (s *MemoryStore) GetStation(name string) (station.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.data[name]
	if !ok {
		return station.State{}, ErrNotFound
	}
	return rec.state(), nil
}

// ListStations returns every known station in first-seen order.
func (s *MemoryStore) ListStations() []station.State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]station.State, 0, len(s.order))
	for _, name := range s.order {
		result = append(result, s.data[name].state())
	}
	return result
}

// GetEntity returns a published entity with its current availability.
func (s *MemoryStore) GetEntity(uniqueID string) (station.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	name, ok := s.entities[uniqueID]
	if !ok {
		return station.Entity{}, ErrNotFound
	}
	rec := s.data[name]
	for _, e := range rec.snapshot.Entities {
		if e.UniqueID == uniqueID {
			return rec.published(e), nil
		}
	}
	return station.Entity{}, ErrNotFound
}

// state copies the record so callers never share slices with the store.
func (r *stationRecord) state() station.State {
	snap := r.snapshot
	snap.Devices = append([]station.Device(nil), r.snapshot.Devices...)
	snap.Entities = make([]station.Entity, len(r.snapshot.Entities))
	for i, e := range r.snapshot.Entities {
		snap.Entities[i] = r.published(e)
	}

	return station.State{
		Station:     r.station,
		Available:   r.available,
		LastAttempt: r.lastAttempt,
		LastError:   r.lastError,
		Snapshot:    snap,
	}
}

// published stamps e with the record's availability. An unavailable entity
// carries no value.
func (r *stationRecord) published(e station.Entity) station.Entity {
	e.Available = r.available
	if !r.available {
		e.Value = nil
	}
	return e
}
