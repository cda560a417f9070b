package chart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevealer_FiveRecords(t *testing.T) {
	clock := &manualClock{}
	r := NewRevealer(clock, 100*time.Millisecond)

	gen := r.Start(5)
	assert.Equal(t, uint64(1), gen)
	assert.Equal(t, 0, r.Revealed())
	require.Equal(t, 1, clock.count())
	ticker := clock.last()
	assert.Equal(t, 100*time.Millisecond, ticker.interval)
	assert.NotNil(t, r.C())

	require.True(t, r.Tick())
	assert.Equal(t, 1, r.Revealed())

	for i := 2; i <= 5; i++ {
		require.True(t, r.Tick())
		assert.Equal(t, i, r.Revealed())
	}

	assert.True(t, r.Complete())
	assert.False(t, r.Running())
	assert.True(t, ticker.stopped.Load(), "ticker stops at the last record")
	assert.Nil(t, r.C(), "a finished run exposes no tick channel")

	assert.False(t, r.Tick(), "a sixth tick is not applied")
	assert.Equal(t, 5, r.Revealed())
}

func TestRevealer_RestartAfterCompletion(t *testing.T) {
	clock := &manualClock{}
	r := NewRevealer(clock, 0)
	assert.Equal(t, DefaultRevealInterval, r.Interval())

	r.Start(5)
	for r.Tick() {
	}
	require.True(t, r.Complete())

	gen := r.Start(5)
	assert.Equal(t, uint64(2), gen)
	assert.Equal(t, 0, r.Revealed())
	assert.False(t, r.Complete())
	assert.Equal(t, 2, clock.count(), "restart creates a fresh ticker")

	require.True(t, r.Tick())
	assert.Equal(t, 1, r.Revealed())
}

func TestRevealer_StartStopsPreviousTicker(t *testing.T) {
	clock := &manualClock{}
	r := NewRevealer(clock, time.Millisecond)

	r.Start(10)
	first := clock.last()
	r.Tick()
	r.Tick()

	r.Start(10)
	assert.True(t, first.stopped.Load(), "timers never overlap")
	assert.False(t, clock.last().stopped.Load())
	assert.Equal(t, 0, r.Revealed())
}

func TestRevealer_StopKeepsRevealed(t *testing.T) {
	clock := &manualClock{}
	r := NewRevealer(clock, time.Millisecond)

	r.Start(5)
	r.Tick()
	r.Tick()
	r.Stop()

	assert.True(t, clock.last().stopped.Load())
	assert.Equal(t, 2, r.Revealed())
	assert.False(t, r.Running())
	assert.False(t, r.Complete())
	assert.False(t, r.Tick())

	r.Stop()
	assert.Equal(t, 2, r.Revealed(), "stop is idempotent")
}

func TestRevealer_EmptySeriesCompletesImmediately(t *testing.T) {
	clock := &manualClock{}
	r := NewRevealer(clock, time.Millisecond)

	r.Start(0)
	assert.Equal(t, 0, clock.count(), "no ticker for an empty run")
	assert.Equal(t, 0, r.Revealed())
	assert.True(t, r.Complete())
	assert.Nil(t, r.C())
}

func TestRevealer_SingleRecordCompletesInOneTick(t *testing.T) {
	clock := &manualClock{}
	r := NewRevealer(clock, time.Millisecond)

	r.Start(1)
	require.True(t, r.Tick())
	assert.Equal(t, 1, r.Revealed())
	assert.True(t, r.Complete())
	assert.True(t, clock.last().stopped.Load())
}

func TestRevealer_SystemClockTicks(t *testing.T) {
	r := NewRevealer(nil, 5*time.Millisecond)
	r.Start(2)
	defer r.Stop()

	for r.Running() {
		select {
		case <-r.C():
			r.Tick()
		case <-time.After(time.Second):
			t.Fatal("system clock did not tick")
		}
	}
	assert.Equal(t, 2, r.Revealed())
}
