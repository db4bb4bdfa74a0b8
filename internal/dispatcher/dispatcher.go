// Package dispatcher is the cooperative game-loop scheduler.
//
// Delayed tasks are timed by the process-wide goTimer heap, posted tasks sit
// in a per-dispatcher FIFO. A due timer only moves its task onto the owning
// dispatcher's ready queue, so callbacks run on the goroutine that drives
// that dispatcher's Run (or Tick in tests), whichever dispatcher ticked the heap.
package dispatcher

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	timer "github.com/xiaonanln/goTimer"
)

// DefaultTickInterval is the loop resolution used when none is configured.
const DefaultTickInterval = 50 * time.Millisecond

// heapMu serializes timer.Tick and Timer.Cancel across dispatchers.
// goTimer locks its heap but not the callback field Cancel clears.
var heapMu sync.Mutex

// TaskID identifies a scheduled task. Zero means "no task".
type TaskID uint64

// Dispatcher runs delayed and posted callbacks on a single loop goroutine.
// ScheduleEvent, AddEvent and StopEvent are safe to call from any goroutine.
type Dispatcher struct {
	tickInterval time.Duration

	mu     sync.Mutex
	nextID TaskID
	tasks  map[TaskID]*timer.Timer
	due    []dueTask
	posted []task
}

type task struct {
	name string
	fn   func()
}

type dueTask struct {
	id TaskID
	task
}

// New creates a Dispatcher. tickInterval ≤ 0 selects DefaultTickInterval.
func New(tickInterval time.Duration) *Dispatcher {
	if tickInterval <= 0 {
		tickInterval = DefaultTickInterval
	}
	return &Dispatcher{
		tickInterval: tickInterval,
		tasks:        make(map[TaskID]*timer.Timer),
	}
}

// Now returns the wall clock the timers fire on.
func (d *Dispatcher) Now() time.Time {
	return time.Now()
}

// ScheduleEvent runs fn once after delay. The returned ID can be passed to StopEvent.
func (d *Dispatcher) ScheduleEvent(delay time.Duration, fn func(), name string) TaskID {
	if delay < 0 {
		delay = 0
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID++
	id := d.nextID
	d.tasks[id] = timer.AddCallback(delay, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if _, active := d.tasks[id]; active {
			d.due = append(d.due, dueTask{id: id, task: task{name: name, fn: fn}})
		}
	})
	return id
}

// AddEvent posts fn to run on the next loop turn, after due timers.
func (d *Dispatcher) AddEvent(fn func(), name string) {
	d.mu.Lock()
	d.posted = append(d.posted, task{name: name, fn: fn})
	d.mu.Unlock()
}

// StopEvent cancels a scheduled task. Unknown or fired IDs are ignored.
// A task already due but not yet run is dropped as well.
func (d *Dispatcher) StopEvent(id TaskID) {
	if id == 0 {
		return
	}

	d.mu.Lock()
	t, ok := d.tasks[id]
	delete(d.tasks, id)
	d.mu.Unlock()

	if ok {
		cancelTimers(t)
	}
}

// Pending returns number of scheduled tasks that have not run yet.
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.tasks)
}

// Tick advances the timer heap, then runs this dispatcher's due timers and
// posted callbacks. Callbacks posted while draining run in the same Tick.
func (d *Dispatcher) Tick() {
	heapMu.Lock()
	timer.Tick()
	heapMu.Unlock()

	for {
		d.mu.Lock()
		if len(d.due) == 0 && len(d.posted) == 0 {
			d.mu.Unlock()
			return
		}

		batch := make([]task, 0, len(d.due)+len(d.posted))
		for _, dt := range d.due {
			if _, active := d.tasks[dt.id]; !active {
				continue // stopped after it became due
			}
			delete(d.tasks, dt.id)
			batch = append(batch, dt.task)
		}
		batch = append(batch, d.posted...)
		d.due = nil
		d.posted = nil
		d.mu.Unlock()

		for _, t := range batch {
			runPanicless(t.name, t.fn)
		}
	}
}

// Run drives the loop until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.tickInterval)
	defer ticker.Stop()

	slog.Info("dispatcher started", "tickInterval", d.tickInterval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("dispatcher stopped")
			return ctx.Err()
		case <-ticker.C:
			d.Tick()
		}
	}
}

// Stop cancels every scheduled task and drops posted callbacks.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	stopped := make([]*timer.Timer, 0, len(d.tasks))
	for _, t := range d.tasks {
		stopped = append(stopped, t)
	}
	d.tasks = make(map[TaskID]*timer.Timer)
	d.due = nil
	d.posted = nil
	d.mu.Unlock()

	cancelTimers(stopped...)
	if len(stopped) > 0 {
		slog.Debug("dispatcher tasks cancelled", "count", len(stopped))
	}
}

func cancelTimers(timers ...*timer.Timer) {
	heapMu.Lock()
	defer heapMu.Unlock()
	for _, t := range timers {
		t.Cancel()
	}
}

func runPanicless(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("dispatcher task panicked", "task", name, "panic", fmt.Sprint(r))
		}
	}()
	fn()
}
