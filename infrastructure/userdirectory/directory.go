package userdirectory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orderservice/config"
	"orderservice/domain/user"
	"orderservice/infrastructure/metrics"
	"orderservice/pkg/logger"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const breakerName = "user-directory"

// errSlowCall marks an answer that arrived after the slow-call threshold.
// The breaker counts it as a failure while the caller still uses the answer.
var errSlowCall = errors.New("slow call")

// userFetcher is the remote lookup the directory protects
type userFetcher interface {
	GetUser(ctx context.Context, userID string) (user.Snapshot, error)
}

// Directory implements user.Directory with a circuit breaker around the user service
type Directory struct {
	client  userFetcher
	breaker *gobreaker.CircuitBreaker[user.Snapshot]
	slow    time.Duration
	metrics *metrics.Metrics
}

func NewDirectory(client userFetcher, cfg config.BreakerConfig, m *metrics.Metrics) *Directory {
	d := &Directory{client: client, slow: cfg.SlowCallThreshold, metrics: m}

	minRequests := cfg.MinRequests
	if minRequests == 0 {
		minRequests = 1
	}
	d.breaker = gobreaker.NewCircuitBreaker[user.Snapshot](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errUserNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
			m.SetBreakerState(name, stateValue(to))
		},
	})
	m.SetBreakerState(breakerName, stateValue(gobreaker.StateClosed))
	return d
}

// Fetch never fails: any error, an open breaker or a missing user is reported as ok=false.
// Calls are not deduplicated.
func (d *Directory) Fetch(ctx context.Context, userID string) (user.Snapshot, bool) {
	log := logger.FromContext(ctx).With(zap.String("user_id", userID))

	snapshot, err := d.breaker.Execute(func() (user.Snapshot, error) {
		start := time.Now()
		s, err := d.client.GetUser(ctx, userID)
		if err == nil && d.slow > 0 {
			if elapsed := time.Since(start); elapsed > d.slow {
				return s, fmt.Errorf("%w: %s", errSlowCall, elapsed)
			}
		}
		return s, err
	})

	switch {
	case err == nil:
		d.metrics.DirectoryLookup(metrics.OutcomeFound)
		return snapshot, true
	case errors.Is(err, errSlowCall):
		log.Warn("User service answered slowly", zap.Error(err))
		d.metrics.DirectoryLookup(metrics.OutcomeSlow)
		return snapshot, true
	case errors.Is(err, errUserNotFound):
		log.Debug("User not found in user service")
		d.metrics.DirectoryLookup(metrics.OutcomeUnknown)
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		log.Debug("User service lookup short-circuited", zap.Error(err))
		d.metrics.DirectoryLookup(metrics.OutcomeRejected)
	default:
		log.Debug("User service lookup failed", zap.Error(err))
		d.metrics.DirectoryLookup(metrics.OutcomeFailed)
	}
	return user.Snapshot{}, false
}

// State reports the breaker state for health probes
func (d *Directory) State() gobreaker.State {
	return d.breaker.State()
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

var _ user.Directory = (*Directory)(nil)
