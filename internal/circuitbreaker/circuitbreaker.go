// Package circuitbreaker stops calls to a failing store until it has had
// time to recover.
package circuitbreaker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrCircuitOpen is returned instead of calling a store whose circuit is open,
// or when the half-open probe slots are taken.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// State of a circuit.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

var stateNames = [...]string{
	StateClosed:   "closed",
	StateOpen:     "open",
	StateHalfOpen: "half-open",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Config tunes a CircuitBreaker. Zero thresholds are treated as 1.
type Config struct {
	Name string
	// FailureThreshold consecutive failures open a closed circuit.
	FailureThreshold int
	// SuccessThreshold consecutive successes close a half-open circuit.
	SuccessThreshold int
	// Timeout is how long the circuit stays open before probing.
	Timeout time.Duration
	// HalfOpenMaxRequests bounds concurrent probes while half-open.
	HalfOpenMaxRequests int
	// IsFailure reports whether err counts against the circuit. Nil counts
	// every error except context cancellation.
	IsFailure func(error) bool
	// OnStateChange runs after each transition, outside the lock.
	OnStateChange func(name string, from, to State)
}

// DefaultConfig returns the settings used when none are configured.
func DefaultConfig() Config {
	return Config{
		Name:                "circuit-breaker",
		FailureThreshold:    5,
		SuccessThreshold:    2,
		Timeout:             30 * time.Second,
		HalfOpenMaxRequests: 1,
	}
}

// CircuitBreaker guards calls with the closed, open and half-open cycle.
// Results of calls admitted before a transition are discarded.
type CircuitBreaker struct {
	cfg Config
	now func() time.Time

	mu          sync.Mutex
	state       State
	generation  uint64
	failures    int
	successes   int
	probes      int
	openedAt    time.Time
	lastFailure time.Time
}

// New returns a closed circuit.
func New(cfg Config) *CircuitBreaker {
	cfg.FailureThreshold = max(cfg.FailureThreshold, 1)
	cfg.SuccessThreshold = max(cfg.SuccessThreshold, 1)
	cfg.HalfOpenMaxRequests = max(cfg.HalfOpenMaxRequests, 1)
	return &CircuitBreaker{cfg: cfg, now: time.Now}
}

// Name returns the configured name.
func (cb *CircuitBreaker) Name() string {
	return cb.cfg.Name
}

type transition struct {
	from, to State
}

// Execute calls fn unless the circuit rejects it. A done ctx is returned
// without calling fn or touching the counters. A panic in fn counts as a
// failure and is re-raised.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func() error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	generation, err := cb.admit()
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			cb.record(generation, fmt.Errorf("panic: %v", r))
			panic(r)
		}
	}()

	err = fn()
	cb.record(generation, err)
	return err
}

func (cb *CircuitBreaker) admit() (uint64, error) {
	cb.mu.Lock()
	t := cb.refresh()
	state := cb.state
	if state == StateHalfOpen && cb.probes < cb.cfg.HalfOpenMaxRequests {
		cb.probes++
	} else if state == StateHalfOpen {
		state = StateOpen
	}
	generation := cb.generation
	cb.mu.Unlock()

	cb.notify(t)
	if state == StateOpen {
		return 0, ErrCircuitOpen
	}
	return generation, nil
}

func (cb *CircuitBreaker) record(generation uint64, err error) {
	cb.mu.Lock()
	if generation != cb.generation {
		cb.mu.Unlock()
		return
	}
	if cb.state == StateHalfOpen {
		cb.probes--
	}

	var t transition
	if err != nil && cb.countsAsFailure(err) {
		t = cb.onFailure()
	} else {
		t = cb.onSuccess()
	}
	cb.mu.Unlock()

	cb.notify(t)
}

func (cb *CircuitBreaker) countsAsFailure(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	return cb.cfg.IsFailure == nil || cb.cfg.IsFailure(err)
}

// refresh moves an expired open circuit to half-open. Callers hold mu.
func (cb *CircuitBreaker) refresh() transition {
	if cb.state == StateOpen && cb.now().Sub(cb.openedAt) >= cb.cfg.Timeout {
		return cb.setState(StateHalfOpen)
	}
	return transition{}
}

// onFailure runs under mu.
func (cb *CircuitBreaker) onFailure() transition {
	cb.failures++
	cb.successes = 0
	cb.lastFailure = cb.now()

	switch {
	case cb.state == StateHalfOpen:
		return cb.setState(StateOpen)
	case cb.state == StateClosed && cb.failures >= cb.cfg.FailureThreshold:
		log.Warn().
			Str("circuit_breaker", cb.cfg.Name).
			Int("failures", cb.failures).
			Msg("Circuit breaker opened")
		return cb.setState(StateOpen)
	}
	return transition{}
}

// onSuccess runs under mu.
func (cb *CircuitBreaker) onSuccess() transition {
	cb.failures = 0
	cb.successes++
	if cb.state == StateHalfOpen && cb.successes >= cb.cfg.SuccessThreshold {
		return cb.setState(StateClosed)
	}
	return transition{}
}

// setState starts a new generation. Callers hold mu.
func (cb *CircuitBreaker) setState(to State) transition {
	from := cb.state
	if from == to {
		return transition{}
	}
	cb.state = to
	cb.generation++
	cb.failures = 0
	cb.successes = 0
	cb.probes = 0
	if to == StateOpen {
		cb.openedAt = cb.now()
	}
	return transition{from: from, to: to}
}

func (cb *CircuitBreaker) notify(t transition) {
	if t.from == t.to {
		return
	}
	log.Info().
		Str("circuit_breaker", cb.cfg.Name).
		Stringer("from", t.from).
		Stringer("to", t.to).
		Msg("Circuit breaker state changed")
	if cb.cfg.OnStateChange != nil {
		cb.cfg.OnStateChange(cb.cfg.Name, t.from, t.to)
	}
}

// State returns the current state. An open circuit whose timeout elapsed
// reports half-open.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	t := cb.refresh()
	state := cb.state
	cb.mu.Unlock()

	cb.notify(t)
	return state
}

// IsOpen reports whether calls are currently rejected outright.
func (cb *CircuitBreaker) IsOpen() bool {
	return cb.State() == StateOpen
}

// Stats is a snapshot for health endpoints.
type Stats struct {
	Name         string    `json:"name"`
	State        string    `json:"state"`
	FailureCount int       `json:"failure_count"`
	SuccessCount int       `json:"success_count"`
	LastFailure  time.Time `json:"last_failure"`
	IsHealthy    bool      `json:"is_healthy"`
}

// GetStats returns the counters of the current generation.
func (cb *CircuitBreaker) GetStats() Stats {
	state := cb.State()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	return Stats{
		Name:         cb.cfg.Name,
		State:        state.String(),
		FailureCount: cb.failures,
		SuccessCount: cb.successes,
		LastFailure:  cb.lastFailure,
		IsHealthy:    state == StateClosed,
	}
}
