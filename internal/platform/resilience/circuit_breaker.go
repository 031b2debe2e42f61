package resilience

import (
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

// CircuitBreaker guards one remote endpoint. After FailureThreshold
// consecutive failures it rejects calls for OpenTimeout, then lets up to
// HalfOpenMaxReq trials through. The trials closing it again requires all
// of them to succeed; any failed trial reopens it.
type CircuitBreaker struct {
	cfg   CircuitBreakerConfig
	clock clockwork.Clock

	mu        sync.Mutex
	state     CircuitState
	failures  int
	openUntil time.Time
	trials    int
	passed    int
}

func NewCircuitBreaker(cfg CircuitBreakerConfig, clock clockwork.Clock) *CircuitBreaker {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &CircuitBreaker{
		cfg:   NormalizeCircuitBreakerConfig(cfg),
		clock: clock,
		state: CircuitStateClosed,
	}
}

// Allow reserves a call slot or returns ErrCircuitOpen. Every nil return
// must be followed by Record.
func (b *CircuitBreaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.advance()
	switch b.state {
	case CircuitStateOpen:
		return ErrCircuitOpen
	case CircuitStateHalfOpen:
		if b.trials >= b.cfg.HalfOpenMaxReq {
			return ErrCircuitOpen
		}
		b.trials++
	}
	return nil
}

// Record reports the outcome of a call admitted by Allow.
func (b *CircuitBreaker) Record(failed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.advance()
	switch b.state {
	case CircuitStateClosed:
		if !failed {
			b.failures = 0
			return
		}
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.open()
		}
	case CircuitStateHalfOpen:
		if failed {
			b.open()
			return
		}
		b.passed++
		if b.passed >= b.cfg.HalfOpenMaxReq {
			b.state = CircuitStateClosed
			b.failures = 0
		}
	case CircuitStateOpen:
		if failed {
			b.openUntil = b.clock.Now().Add(b.cfg.OpenTimeout)
		}
	}
}

func (b *CircuitBreaker) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.advance()
	return b.state
}

// advance moves an expired open breaker to half-open. Callers hold mu.
func (b *CircuitBreaker) advance() {
	if b.state == CircuitStateOpen && !b.clock.Now().Before(b.openUntil) {
		b.state = CircuitStateHalfOpen
		b.trials = 0
		b.passed = 0
	}
}

func (b *CircuitBreaker) open() {
	b.state = CircuitStateOpen
	b.openUntil = b.clock.Now().Add(b.cfg.OpenTimeout)
	b.trials = 0
	b.passed = 0
}
