package dispatcher

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tickUntil drives the loop manually until cond holds or timeout expires.
func tickUntil(t *testing.T, d *Dispatcher, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		d.Tick()
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v", timeout)
}

func TestDispatcher_ScheduleEvent_FiresOnce(t *testing.T) {
	d := New(0)
	var fired atomic.Int32

	id := d.ScheduleEvent(5*time.Millisecond, func() { fired.Add(1) }, "once")
	require.NotZero(t, id)
	assert.Equal(t, 1, d.Pending())

	tickUntil(t, d, time.Second, func() bool { return fired.Load() == 1 })

	time.Sleep(10 * time.Millisecond)
	d.Tick()
	assert.Equal(t, int32(1), fired.Load())
	assert.Zero(t, d.Pending())
}

func TestDispatcher_ScheduleEvent_UniqueIDs(t *testing.T) {
	d := New(0)
	a := d.ScheduleEvent(time.Hour, func() {}, "a")
	b := d.ScheduleEvent(time.Hour, func() {}, "b")

	assert.NotEqual(t, a, b)
	d.Stop()
}

func TestDispatcher_StopEvent(t *testing.T) {
	d := New(0)
	var fired atomic.Bool

	id := d.ScheduleEvent(5*time.Millisecond, func() { fired.Store(true) }, "cancelled")
	d.StopEvent(id)
	d.StopEvent(id) // second stop is a no-op
	d.StopEvent(0)

	time.Sleep(15 * time.Millisecond)
	d.Tick()
	d.Tick()

	assert.False(t, fired.Load())
	assert.Zero(t, d.Pending())
}

func TestDispatcher_StopEvent_FromOwnCallback(t *testing.T) {
	d := New(0)
	var second atomic.Bool

	secondID := d.ScheduleEvent(20*time.Millisecond, func() { second.Store(true) }, "second")
	var first atomic.Bool
	d.ScheduleEvent(time.Millisecond, func() {
		first.Store(true)
		d.StopEvent(secondID)
	}, "first")

	tickUntil(t, d, time.Second, first.Load)
	time.Sleep(30 * time.Millisecond)
	d.Tick()

	assert.False(t, second.Load())
}

func TestDispatcher_AddEvent_FIFO(t *testing.T) {
	d := New(0)
	var order []int

	for i := range 3 {
		d.AddEvent(func() { order = append(order, i) }, "post")
	}
	d.AddEvent(func() {
		d.AddEvent(func() { order = append(order, 99) }, "nested")
	}, "outer")

	d.Tick()

	assert.Equal(t, []int{0, 1, 2, 99}, order)
}

func TestDispatcher_PanicDoesNotStopLoop(t *testing.T) {
	d := New(0)
	var after atomic.Bool

	d.AddEvent(func() { panic("boom") }, "panics")
	d.AddEvent(func() { after.Store(true) }, "after")

	assert.NotPanics(t, d.Tick)
	assert.True(t, after.Load())
}

func TestDispatcher_Run(t *testing.T) {
	d := New(time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	var fired atomic.Bool
	d.ScheduleEvent(2*time.Millisecond, func() {
		fired.Store(true)
		cancel()
	}, "stop-loop")

	errCh := make(chan error, 1)
	go func() { errCh <- d.Run(ctx) }()

	select {
	case err := <-errCh:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.True(t, fired.Load())
}

func TestDispatcher_Stop(t *testing.T) {
	d := New(0)
	var fired atomic.Int32

	d.ScheduleEvent(time.Millisecond, func() { fired.Add(1) }, "a")
	d.ScheduleEvent(time.Millisecond, func() { fired.Add(1) }, "b")
	d.AddEvent(func() { fired.Add(1) }, "posted")

	d.Stop()
	time.Sleep(5 * time.Millisecond)
	d.Tick()

	assert.Zero(t, fired.Load())
	assert.Zero(t, d.Pending())
}

func TestDispatcher_TimersRunOnOwnerTick(t *testing.T) {
	a, b := New(0), New(0)
	var firedB atomic.Bool

	b.ScheduleEvent(0, func() { firedB.Store(true) }, "owned-by-b")
	time.Sleep(2 * time.Millisecond)

	a.Tick()
	assert.False(t, firedB.Load(), "a must not run b's task")
	assert.Equal(t, 1, b.Pending())

	b.Tick()
	assert.True(t, firedB.Load())
	assert.Zero(t, b.Pending())
}

func TestDispatcher_StoppedWhileDue(t *testing.T) {
	a, b := New(0), New(0)
	var fired atomic.Bool

	id := b.ScheduleEvent(0, func() { fired.Store(true) }, "stopped-while-due")
	time.Sleep(2 * time.Millisecond)

	a.Tick() // heap fires, task waits on b
	b.StopEvent(id)
	b.Tick()

	assert.False(t, fired.Load())
	assert.Zero(t, b.Pending())
}

func TestDispatcher_StopLeavesOthersRunning(t *testing.T) {
	a, c := New(0), New(0)
	var firedA, firedC atomic.Bool

	a.ScheduleEvent(0, func() { firedA.Store(true) }, "a")
	c.ScheduleEvent(0, func() { firedC.Store(true) }, "c")
	a.Stop()
	time.Sleep(2 * time.Millisecond)

	a.Tick()
	assert.False(t, firedA.Load())
	assert.False(t, firedC.Load())

	c.Tick()
	assert.True(t, firedC.Load())
}

func TestDispatcher_Now(t *testing.T) {
	d := New(0)
	before := time.Now()
	now := d.Now()
	assert.False(t, now.Before(before))
}
