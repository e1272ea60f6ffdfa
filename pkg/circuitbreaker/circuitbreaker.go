package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// State is the breaker state
type State int

const (
	StateClosed   State = iota // calls pass through
	StateOpen                  // calls are rejected without running
	StateHalfOpen              // a limited number of trial calls pass through
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

var ErrCircuitBreakerOpen = errors.New("circuit breaker is open")

// Config breaker thresholds
type Config struct {
	// consecutive failures that open the breaker
	FailureThreshold int
	// half-open successes that close it again
	SuccessThreshold int
	// how long the breaker stays open before probing
	Timeout time.Duration
	// concurrent trial calls allowed while half-open
	HalfOpenMaxRequests int
	// called with the old and new state on every transition, outside the lock
	OnStateChange func(from, to State)
}

// CircuitBreaker guards calls to a flaky dependency
type CircuitBreaker struct {
	config Config
	now    func() time.Time

	state         State
	failureCount  int
	successCount  int
	halfOpenCount int
	lastStateTime time.Time

	mu sync.Mutex
}

func NewCircuitBreaker(config Config) *CircuitBreaker {
	return &CircuitBreaker{
		config:        config,
		now:           time.Now,
		state:         StateClosed,
		lastStateTime: time.Now(),
	}
}

// Execute runs fn unless the breaker is open. The error from fn is returned
// unchanged; ErrCircuitBreakerOpen is returned when fn was not run.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if err := cb.before(); err != nil {
		return err
	}
	err := fn()
	cb.after(err)
	return err
}

// State reports the current state, applying a pending open -> half-open move
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	from, to := cb.state, cb.advance()
	cb.mu.Unlock()
	cb.notify(from, to)
	return to
}

// Reset closes the breaker and clears all counters
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	from := cb.state
	cb.setState(StateClosed)
	cb.mu.Unlock()
	cb.notify(from, StateClosed)
}

func (cb *CircuitBreaker) before() error {
	cb.mu.Lock()
	from, state := cb.state, cb.advance()

	var err error
	switch state {
	case StateOpen:
		err = ErrCircuitBreakerOpen
	case StateHalfOpen:
		if cb.halfOpenCount >= cb.config.HalfOpenMaxRequests {
			err = ErrCircuitBreakerOpen
		} else {
			cb.halfOpenCount++
		}
	}
	cb.mu.Unlock()

	cb.notify(from, state)
	return err
}

func (cb *CircuitBreaker) after(err error) {
	cb.mu.Lock()
	from := cb.state

	if err != nil {
		cb.failureCount++
		switch cb.state {
		case StateHalfOpen:
			cb.setState(StateOpen)
		case StateClosed:
			if cb.failureCount >= cb.config.FailureThreshold {
				cb.setState(StateOpen)
			}
		}
	} else {
		cb.failureCount = 0
		if cb.state == StateHalfOpen {
			cb.successCount++
			cb.halfOpenCount--
			if cb.successCount >= cb.config.SuccessThreshold {
				cb.setState(StateClosed)
			}
		}
	}

	to := cb.state
	cb.mu.Unlock()
	cb.notify(from, to)
}

// advance moves open -> half-open once Timeout has elapsed. Caller holds mu.
func (cb *CircuitBreaker) advance() State {
	if cb.state == StateOpen && cb.now().Sub(cb.lastStateTime) >= cb.config.Timeout {
		cb.setState(StateHalfOpen)
	}
	return cb.state
}

// setState switches state and clears per-state counters. Caller holds mu.
func (cb *CircuitBreaker) setState(s State) {
	cb.state = s
	cb.lastStateTime = cb.now()
	cb.halfOpenCount = 0
	cb.successCount = 0
	if s == StateClosed {
		cb.failureCount = 0
	}
}

func (cb *CircuitBreaker) notify(from, to State) {
	if from != to && cb.config.OnStateChange != nil {
		cb.config.OnStateChange(from, to)
	}
}
