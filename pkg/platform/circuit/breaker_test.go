package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBreaker_InitialState(t *testing.T) {
	b := New("face_match")
	assert.False(t, b.IsOpen())
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, "face_match", b.Name())
	assert.Equal(t, "closed", b.State().String())
}

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	b := New("registry", WithFailureThreshold(3))

	useFallback, change := b.RecordFailure()
	assert.False(t, useFallback)
	assert.False(t, change.Opened)

	useFallback, change = b.RecordFailure()
	assert.False(t, useFallback)
	assert.False(t, change.Opened)

	useFallback, change = b.RecordFailure()
	assert.True(t, useFallback)
	assert.True(t, change.Opened)
	assert.True(t, b.IsOpen())
	assert.Equal(t, "open", b.State().String())
}

func TestBreaker_ClosesAfterSuccessThreshold(t *testing.T) {
	b := New("registry", WithFailureThreshold(1), WithSuccessThreshold(2))

	b.RecordFailure()
	assert.True(t, b.IsOpen())

	usePrimary, change := b.RecordSuccess()
	assert.False(t, usePrimary)
	assert.False(t, change.Closed)
	assert.True(t, b.IsOpen())

	usePrimary, change = b.RecordSuccess()
	assert.True(t, usePrimary)
	assert.True(t, change.Closed)
	assert.False(t, b.IsOpen())
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	b := New("forensics", WithFailureThreshold(3))

	b.RecordFailure()
	b.RecordFailure()
	b.RecordSuccess()

	b.RecordFailure()
	b.RecordFailure()
	assert.False(t, b.IsOpen())

	b.RecordFailure()
	assert.True(t, b.IsOpen())
}

func TestBreaker_FailureWhileOpenResetsSuccessStreak(t *testing.T) {
	b := New("forensics", WithFailureThreshold(1), WithSuccessThreshold(3))

	b.RecordFailure()
	b.RecordSuccess()
	b.RecordSuccess()
	useFallback, change := b.RecordFailure()
	assert.True(t, useFallback)
	assert.False(t, change.Opened, "already open, no transition")

	b.RecordSuccess()
	b.RecordSuccess()
	assert.True(t, b.IsOpen())
	b.RecordSuccess()
	assert.False(t, b.IsOpen())
}

func TestBreaker_Reset(t *testing.T) {
	b := New("consistency", WithFailureThreshold(1))
	b.RecordFailure()
	assert.True(t, b.IsOpen())

	b.Reset()
	assert.False(t, b.IsOpen())
	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_IgnoresNonPositiveThresholds(t *testing.T) {
	b := New("license", WithFailureThreshold(0), WithSuccessThreshold(-1))
	for i := 0; i < 4; i++ {
		b.RecordFailure()
	}
	assert.False(t, b.IsOpen(), "default threshold of 5 still applies")
	b.RecordFailure()
	assert.True(t, b.IsOpen())
}

func TestBreaker_AllowProbesAfterCooldown(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b := New("license",
		WithFailureThreshold(1),
		WithCooldown(10*time.Second),
		WithClock(func() time.Time { return now }),
	)

	assert.True(t, b.Allow())
	b.RecordFailure()
	assert.False(t, b.Allow(), "open breaker rejects inside cooldown")

	now = now.Add(10 * time.Second)
	assert.True(t, b.Allow(), "one probe after cooldown")
	assert.False(t, b.Allow(), "second probe waits for the next window")

	now = now.Add(11 * time.Second)
	assert.True(t, b.Allow())
}
