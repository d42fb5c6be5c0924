package store

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weatherlink-live/internal/station"
)

var roof = station.Station{Name: "roof", Host: "10.0.0.5"}

func snapshotWith(ids ...string) station.Snapshot {
	snap := station.Snapshot{UpdatedAt: time.Now().UTC(), UnitSystem: station.UnitSystemMetric}
	for _, id := range ids {
		snap.Entities = append(snap.Entities, station.Entity{UniqueID: id, Value: 1.0})
	}
	return snap
}

func TestMemoryStoreReplaceAndGet(t *testing.T) {
	s := NewMemoryStore()
	s.ReplaceStation(roof, snapshotWith("a", "b"))

	st, err := s.GetStation("roof")
	require.NoError(t, err)
	assert.True(t, st.Available)
	require.Len(t, st.Entities, 2)
	assert.True(t, st.Entities[0].Available)

	e, err := s.GetEntity("b")
	require.NoError(t, err)
	assert.True(t, e.Available)
}

func TestMemoryStoreReplaceDropsStaleEntities(t *testing.T) {
	s := NewMemoryStore()
	s.ReplaceStation(roof, snapshotWith("a", "b"))
	s.ReplaceStation(roof, snapshotWith("b", "c"))

	_, err := s.GetEntity("a")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = s.GetEntity("c")
	assert.NoError(t, err)
}

func TestMemoryStoreMarkFailed(t *testing.T) {
	s := NewMemoryStore()
	s.ReplaceStation(roof, snapshotWith("a"))
	s.MarkFailed(roof, errors.New("boom"), time.Now().UTC())

	st, err := s.GetStation("roof")
	require.NoError(t, err)
	assert.False(t, st.Available)
	assert.Equal(t, "boom", st.LastError)
	require.Len(t, st.Entities, 1)
	assert.False(t, st.Entities[0].Available)
	assert.Nil(t, st.Entities[0].Value)

	e, err := s.GetEntity("a")
	require.NoError(t, err)
	assert.False(t, e.Available)
	assert.Nil(t, e.Value)

	states := s.ListStations()
	require.Len(t, states, 1)
	assert.Nil(t, states[0].Entities[0].Value)

	s.ReplaceStation(roof, snapshotWith("a"))
	e, err = s.GetEntity("a")
	require.NoError(t, err)
	assert.True(t, e.Available)
	assert.Equal(t, 1.0, e.Value)
}

func TestMemoryStoreFailedBeforeFirstSuccess(t *testing.T) {
	s := NewMemoryStore()
	s.MarkFailed(roof, errors.New("unreachable"), time.Now().UTC())

	states := s.ListStations()
	require.Len(t, states, 1)
	assert.False(t, states[0].Available)
	assert.Empty(t, states[0].Entities)
}

func TestMemoryStoreNotFound(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.GetStation("nope")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = s.GetEntity("nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	s.ReplaceStation(roof, snapshotWith("a"))

	st, _ := s.GetStation("roof")
	st.Entities[0].Value = 99.0

	e, err := s.GetEntity("a")
	require.NoError(t, err)
	assert.Equal(t, 1.0, e.Value)
}
