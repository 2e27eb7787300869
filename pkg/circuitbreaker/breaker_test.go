package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBreaker(openTimeout time.Duration) *Breaker {
	return New("test", Config{
		FailureThreshold: 3,
		SuccessThreshold: 2,
		OpenTimeout:      openTimeout,
	})
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	b := newTestBreaker(time.Minute)

	for i := 0; i < 2; i++ {
		b.Record(false)
		assert.Equal(t, StateClosed, b.State())
	}

	b.Record(false)
	assert.Equal(t, StateOpen, b.State())
	assert.False(t, b.Allow())
}

func TestSuccessResetsFailureRun(t *testing.T) {
	b := newTestBreaker(time.Minute)

	b.Record(false)
	b.Record(false)
	b.Record(true)
	b.Record(false)
	b.Record(false)

	assert.Equal(t, StateClosed, b.State())
}

func TestHalfOpenClosesAfterSuccesses(t *testing.T) {
	b := newTestBreaker(10 * time.Millisecond)

	for i := 0; i < 3; i++ {
		b.Record(false)
	}
	require.Equal(t, StateOpen, b.State())

	time.Sleep(15 * time.Millisecond)
	require.True(t, b.Allow())
	require.Equal(t, StateHalfOpen, b.State())

	b.Record(true)
	assert.Equal(t, StateHalfOpen, b.State())
	b.Record(true)
	assert.Equal(t, StateClosed, b.State())
}

func TestHalfOpenFailureReopens(t *testing.T) {
	b := newTestBreaker(10 * time.Millisecond)

	for i := 0; i < 3; i++ {
		b.Record(false)
	}

	time.Sleep(15 * time.Millisecond)
	require.True(t, b.Allow())

	b.Record(false)
	assert.False(t, b.Allow())
}

func TestExecuteShortCircuitsWhenOpen(t *testing.T) {
	b := newTestBreaker(time.Minute)

	boom := errors.New("boom")
	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, b.Execute(func() error { return boom }), boom)
	}

	calls := 0
	err := b.Execute(func() error {
		calls++
		return nil
	})

	assert.ErrorIs(t, err, ErrOpen)
	assert.Equal(t, 0, calls)
}
