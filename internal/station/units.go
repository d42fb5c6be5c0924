package station

import (
	"fmt"
	"strings"
	"sync/atomic"
)

const (
	UnitSystemMetric   = "metric"
	UnitSystemImperial = "imperial"
)

// UnitPreference is the process-wide unit system, read on every poll.
type UnitPreference struct {
	metric atomic.Bool
}

func NewUnitPreference(metric bool) *UnitPreference {
	p := &UnitPreference{}
	p.metric.Store(metric)
	return p
}

func (p *UnitPreference) Metric() bool {
	return p.metric.Load()
}

func (p *UnitPreference) Set(metric bool) {
	p.metric.Store(metric)
}

// System returns "metric" or "imperial".
func (p *UnitPreference) System() string {
	if p.Metric() {
		return UnitSystemMetric
	}
	return UnitSystemImperial
}

// ParseUnitSystem reports whether s names the metric system.
func ParseUnitSystem(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case UnitSystemMetric:
		return true, nil
	case UnitSystemImperial:
		return false, nil
	}
	return false, fmt.Errorf("unknown unit system %q", s)
}
