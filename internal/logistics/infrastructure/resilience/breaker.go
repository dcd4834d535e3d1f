// Package resilience wraps outbound calls with named circuit breakers. The
// solve command routes its cache reads and writes through a Guard, so a
// failing Redis instance degrades by tripping open instead of piling up
// latency on every solve request; its repository calls are not guarded.
package resilience

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"
)

// ErrCircuitOpen is returned in place of the wrapped call's error while a
// breaker is open.
var ErrCircuitOpen = errors.New("resilience: circuit open")

// BreakerConfig configures one named circuit breaker.
type BreakerConfig struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// DefaultBreakerConfig returns sensible defaults for a dependency call
// (database query, cache round trip) in the solve path.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      3,
		Interval:         10 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// Guard wraps a named dependency call with a circuit breaker.
type Guard struct {
	breakers map[string]*gobreaker.CircuitBreaker[any]
	config   BreakerConfig
	logger   *slog.Logger
}

// NewGuard creates a new resilience Guard.
func NewGuard(config BreakerConfig, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{
		breakers: make(map[string]*gobreaker.CircuitBreaker[any]),
		config:   config,
		logger:   logger,
	}
}

func (g *Guard) breaker(name string) *gobreaker.CircuitBreaker[any] {
	if breaker, ok := g.breakers[name]; ok {
		return breaker
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: g.config.MaxRequests,
		Interval:    g.config.Interval,
		Timeout:     g.config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= g.config.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			g.logger.Info("circuit breaker state changed",
				"dependency", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	breaker := gobreaker.NewCircuitBreaker[any](settings)
	g.breakers[name] = breaker
	return breaker
}

// Call runs fn under the named breaker, translating an open circuit into
// ErrCircuitOpen.
func (g *Guard) Call(ctx context.Context, name string, fn func(ctx context.Context) (any, error)) (any, error) {
	breaker := g.breaker(name)
	result, err := breaker.Execute(func() (any, error) {
		return fn(ctx)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, ErrCircuitOpen
	}
	return result, err
}

// State reports the current state of a named breaker, or "none" if it has
// never been called.
func (g *Guard) State(name string) string {
	breaker, ok := g.breakers[name]
	if !ok {
		return "none"
	}
	return breaker.State().String()
}

// Reset discards a named breaker's accumulated counts.
func (g *Guard) Reset(name string) {
	delete(g.breakers, name)
}
