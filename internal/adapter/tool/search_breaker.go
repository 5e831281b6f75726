package tool

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"webresearch/internal/domain"
	"webresearch/internal/infra/config"
)

// Default circuit breaker settings.
const (
	defaultCBMaxFailures uint32        = 5
	defaultCBTimeout     time.Duration = 30 * time.Second
	defaultCBInterval    time.Duration = 60 * time.Second
)

// CircuitBreakerBackend wraps a SearchBackend with circuit breaker
// protection. When the wrapped backend fails repeatedly, the circuit
// opens and subsequent searches fail fast without reaching the provider,
// preventing hammering an instance that is already down.
type CircuitBreakerBackend struct {
	inner   SearchBackend
	breaker *gobreaker.CircuitBreaker[[]domain.SearchHit]
	logger  *slog.Logger
}

// NewCircuitBreakerBackend wraps inner with a circuit breaker.
// Zero-valued config fields fall back to defaults.
func NewCircuitBreakerBackend(inner SearchBackend, cfg config.BreakerConfig, logger *slog.Logger) *CircuitBreakerBackend {
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = defaultCBMaxFailures
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = defaultCBTimeout
	}
	interval := time.Duration(cfg.IntervalSeconds) * time.Second
	if interval == 0 {
		interval = defaultCBInterval
	}

	cb := gobreaker.NewCircuitBreaker[[]domain.SearchHit](gobreaker.Settings{
		Name:        "search:" + inner.Name(),
		MaxRequests: 1, // allow 1 probe in half-open state
		Interval:    interval,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
		IsSuccessful: func(err error) bool {
			return err == nil
		},
	})

	return &CircuitBreakerBackend{
		inner:   inner,
		breaker: cb,
		logger:  logger,
	}
}

// Search implements SearchBackend. Calls are routed through the circuit breaker.
func (b *CircuitBreakerBackend) Search(ctx context.Context, query string, count int) ([]domain.SearchHit, error) {
	hits, err := b.breaker.Execute(func() ([]domain.SearchHit, error) {
		return b.inner.Search(ctx, query, count)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, fmt.Errorf("backend %q circuit open: %w", b.inner.Name(), err)
		}
		return nil, err
	}
	return hits, nil
}

// Name implements SearchBackend.
func (b *CircuitBreakerBackend) Name() string { return b.inner.Name() }

// State returns the current circuit breaker state for monitoring.
func (b *CircuitBreakerBackend) State() gobreaker.State {
	return b.breaker.State()
}

var _ SearchBackend = (*CircuitBreakerBackend)(nil)
