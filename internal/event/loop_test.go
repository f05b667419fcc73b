package event

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoopRunsPostedCallbacks(t *testing.T) {
	loop := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	done := make(chan struct{})
	loop.Post(func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("posted callback never ran")
	}
}

func TestLoopTimerFiresAndStops(t *testing.T) {
	loop := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	var fires atomic.Int32
	timer := loop.AddTimer(func() { fires.Add(1) })
	timer.Update(10 * time.Millisecond)

	require.Eventually(t, func() bool { return fires.Load() == 1 },
		2*time.Second, 5*time.Millisecond)

	// One-shot: no second fire.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), fires.Load())

	// Stop before fire suppresses; Stop is idempotent.
	timer.Update(20 * time.Millisecond)
	timer.Stop()
	timer.Stop()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), fires.Load())
}

func TestManualClockOrdersDeadlines(t *testing.T) {
	clock := NewManualClock()
	var order []string

	a := clock.AddTimer(func() { order = append(order, "a") })
	b := clock.AddTimer(func() { order = append(order, "b") })
	a.Update(20 * time.Millisecond)
	b.Update(10 * time.Millisecond)

	clock.Advance(30 * time.Millisecond)
	assert.Equal(t, []string{"b", "a"}, order)
	assert.Empty(t, clock.Pending())
}

func TestManualClockReArmInsideCallback(t *testing.T) {
	clock := NewManualClock()
	count := 0
	var tm Timer
	tm = clock.AddTimer(func() {
		count++
		if count < 3 {
			tm.Update(10 * time.Millisecond)
		}
	})
	tm.Update(10 * time.Millisecond)

	clock.Advance(100 * time.Millisecond)
	assert.Equal(t, 3, count)
}
