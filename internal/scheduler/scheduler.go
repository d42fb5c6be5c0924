package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
)

const defaultInterval = time.Minute

// Refresher polls every configured station once.
type Refresher interface {
	RefreshAll(ctx context.Context) error
}

// Scheduler periodically refreshes all stations.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   Refresher
	interval  time.Duration
	timeout   time.Duration
	logger    *logrus.Logger
}

// New creates a new Scheduler. Each run is bounded by timeout; a non-positive
// timeout defaults to the interval.
func New(service Refresher, interval, timeout time.Duration, logger *logrus.Logger) *Scheduler {
	if interval <= 0 {
		interval = defaultInterval
	}
	if timeout <= 0 {
		timeout = interval
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		service:   service,
		interval:  interval,
		timeout:   timeout,
		logger:    logger,
	}
}

// Start schedules the periodic job and starts the underlying scheduler. The
// first run happens immediately.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(s.interval).Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.logger.WithField("interval", s.interval.String()).Info("scheduler: started")
	return nil
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	begin := time.Now()
	if err := s.service.RefreshAll(ctx); err != nil {
		s.logger.WithError(err).Warn("scheduler: refresh completed with errors")
	}
	s.logger.WithField("took", time.Since(begin).String()).Debug("scheduler: refresh completed")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
