package resilience

import (
	"sync"

	"github.com/jonboulle/clockwork"
)

// BreakerSet lazily keeps one CircuitBreaker per key, typically a relay
// prefix. A disabled set allows every call.
type BreakerSet struct {
	cfg   CircuitBreakerConfig
	clock clockwork.Clock

	mu       sync.Mutex
	breakers map[string]*CircuitBreaker
}

func NewBreakerSet(cfg CircuitBreakerConfig, clock clockwork.Clock) *BreakerSet {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &BreakerSet{
		cfg:      NormalizeCircuitBreakerConfig(cfg),
		clock:    clock,
		breakers: make(map[string]*CircuitBreaker),
	}
}

func (s *BreakerSet) Enabled() bool {
	return s != nil && s.cfg.Enabled
}

func (s *BreakerSet) Allow(key string) error {
	if !s.Enabled() {
		return nil
	}
	return s.get(key).Allow()
}

func (s *BreakerSet) Record(key string, failed bool) {
	if !s.Enabled() {
		return
	}
	s.get(key).Record(failed)
}

func (s *BreakerSet) State(key string) CircuitState {
	if !s.Enabled() {
		return CircuitStateClosed
	}
	return s.get(key).State()
}

func (s *BreakerSet) get(key string) *CircuitBreaker {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.breakers[key]
	if !ok {
		b = NewCircuitBreaker(s.cfg, s.clock)
		s.breakers[key] = b
	}
	return b
}
