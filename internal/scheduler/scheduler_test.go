package scheduler

import (
	"context"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRefresher struct {
	calls atomic.Int32
}

func (c *countingRefresher) RefreshAll(ctx context.Context) error {
	c.calls.Add(1)
	return nil
}

func TestSchedulerRunsImmediately(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	ref := &countingRefresher{}
	s := New(ref, time.Hour, time.Second, logger)
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool { return ref.calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestSchedulerDefaults(t *testing.T) {
	s := New(&countingRefresher{}, 0, 0, nil)
	assert.Equal(t, defaultInterval, s.interval)
	assert.Equal(t, defaultInterval, s.timeout)
}
