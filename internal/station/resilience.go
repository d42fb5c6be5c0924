package station

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weatherlink-live/internal/weatherlink"
	"github.com/i474232898/weatherlink-live/internal/weatherlink/davis"
)

// BackoffConfig controls exponential backoff between fetch attempts.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultBackoff retries twice, starting at 500ms.
var DefaultBackoff = BackoffConfig{
	MaxRetries:      2,
	InitialInterval: 500 * time.Millisecond,
	MaxInterval:     5 * time.Second,
}

var (
	ErrCircuitOpen   = errors.New("circuit breaker open")
	errInvalidConfig = errors.New("invalid backoff configuration")
)

// Fetcher retrieves one report from a device endpoint.
type Fetcher interface {
	Fetch(ctx context.Context, endpoint string) (weatherlink.RawReport, error)
}

func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
}

// retryable reports whether another attempt could succeed.
func retryable(err error) bool {
	if errors.Is(err, davis.ErrUnreachable) {
		return true
	}
	var fe *davis.FetchError
	if errors.As(err, &fe) && errors.Is(err, davis.ErrHTTPStatus) {
		return fe.StatusCode >= 500 || fe.StatusCode == http.StatusTooManyRequests
	}
	return false
}

// fetchWithResilience runs fetch through the circuit breaker, retrying
// transient failures with exponential backoff. onRetry, when set, is called
// before each wait.
func fetchWithResilience(
	ctx context.Context,
	cfg BackoffConfig,
	cb *gobreaker.CircuitBreaker,
	fetch func(context.Context) (weatherlink.RawReport, error),
	onRetry func(attempt int, delay time.Duration, err error),
) (weatherlink.RawReport, error) {
	if cfg.MaxRetries < 0 || cfg.InitialInterval <= 0 {
		return weatherlink.RawReport{}, errInvalidConfig
	}

	var attempt int
	for {
		if err := ctx.Err(); err != nil {
			return weatherlink.RawReport{}, err
		}

		result, err := cb.Execute(func() (interface{}, error) {
			return fetch(ctx)
		})
		if err == nil {
			report, ok := result.(weatherlink.RawReport)
			if !ok {
				return weatherlink.RawReport{}, fmt.Errorf("unexpected result type from circuit breaker")
			}
			return report, nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return weatherlink.RawReport{}, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}

		if !retryable(err) || attempt >= cfg.MaxRetries {
			return weatherlink.RawReport{}, err
		}

		delay := cfg.InitialInterval * time.Duration(math.Pow(2, float64(attempt)))
		if delay > cfg.MaxInterval && cfg.MaxInterval > 0 {
			delay = cfg.MaxInterval
		}
		if onRetry != nil {
			onRetry(attempt+1, delay, err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return weatherlink.RawReport{}, ctx.Err()
		case <-timer.C:
		}

		attempt++
	}
}
