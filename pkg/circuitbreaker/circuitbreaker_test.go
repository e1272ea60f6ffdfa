package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errBoom = errors.New("boom")

func newTestBreaker(clock *time.Time, transitions *[]string) *CircuitBreaker {
	cb := NewCircuitBreaker(Config{
		FailureThreshold:    2,
		SuccessThreshold:    1,
		Timeout:             10 * time.Second,
		HalfOpenMaxRequests: 1,
		OnStateChange: func(from, to State) {
			*transitions = append(*transitions, from.String()+"->"+to.String())
		},
	})
	cb.now = func() time.Time { return *clock }
	cb.lastStateTime = *clock
	return cb
}

func TestBreakerOpensAfterThreshold(t *testing.T) {
	now := time.Unix(1000, 0)
	var transitions []string
	cb := newTestBreaker(&now, &transitions)

	assert.ErrorIs(t, cb.Execute(func() error { return errBoom }), errBoom)
	assert.Equal(t, StateClosed, cb.State())
	assert.ErrorIs(t, cb.Execute(func() error { return errBoom }), errBoom)
	assert.Equal(t, StateOpen, cb.State())

	ran := false
	err := cb.Execute(func() error { ran = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitBreakerOpen)
	assert.False(t, ran)
	assert.Equal(t, []string{"closed->open"}, transitions)
}

func TestBreakerRecoversThroughHalfOpen(t *testing.T) {
	now := time.Unix(1000, 0)
	var transitions []string
	cb := newTestBreaker(&now, &transitions)

	_ = cb.Execute(func() error { return errBoom })
	_ = cb.Execute(func() error { return errBoom })

	now = now.Add(11 * time.Second)
	assert.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, []string{"closed->open", "open->half_open", "half_open->closed"}, transitions)
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	now := time.Unix(1000, 0)
	var transitions []string
	cb := newTestBreaker(&now, &transitions)

	_ = cb.Execute(func() error { return errBoom })
	_ = cb.Execute(func() error { return errBoom })
	now = now.Add(11 * time.Second)

	assert.ErrorIs(t, cb.Execute(func() error { return errBoom }), errBoom)
	assert.Equal(t, StateOpen, cb.State())
}

func TestSuccessResetsFailureCount(t *testing.T) {
	now := time.Unix(1000, 0)
	var transitions []string
	cb := newTestBreaker(&now, &transitions)

	_ = cb.Execute(func() error { return errBoom })
	_ = cb.Execute(func() error { return nil })
	_ = cb.Execute(func() error { return errBoom })
	assert.Equal(t, StateClosed, cb.State())

	cb.Reset()
	assert.Equal(t, StateClosed, cb.State())
}
