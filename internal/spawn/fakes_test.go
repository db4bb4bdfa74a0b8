package spawn

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/udisondev/otspawn/internal/dispatcher"
	"github.com/udisondev/otspawn/internal/model"
)

// fakeScheduler is a manual-clock dispatcher for tests.
type fakeScheduler struct {
	mu     sync.Mutex
	now    time.Time
	nextID dispatcher.TaskID
	tasks  []*fakeTask
	posted []func()
	names  []string // names of every scheduled task, in order
}

type fakeTask struct {
	id  dispatcher.TaskID
	due time.Time
	fn  func()
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (s *fakeScheduler) ScheduleEvent(delay time.Duration, fn func(), name string) dispatcher.TaskID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.tasks = append(s.tasks, &fakeTask{id: s.nextID, due: s.now.Add(delay), fn: fn})
	s.names = append(s.names, name)
	return s.nextID
}

func (s *fakeScheduler) AddEvent(fn func(), _ string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posted = append(s.posted, fn)
}

func (s *fakeScheduler) StopEvent(id dispatcher.TaskID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = slices.DeleteFunc(s.tasks, func(t *fakeTask) bool { return t.id == id })
}

func (s *fakeScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Pending returns number of scheduled tasks.
func (s *fakeScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// RunPosted drains posted callbacks.
func (s *fakeScheduler) RunPosted() {
	for {
		s.mu.Lock()
		if len(s.posted) == 0 {
			s.mu.Unlock()
			return
		}
		fn := s.posted[0]
		s.posted = s.posted[1:]
		s.mu.Unlock()
		fn()
	}
}

// Advance moves the clock by d, firing due tasks in due order.
func (s *fakeScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now.Add(d)
	s.mu.Unlock()

	for {
		s.mu.Lock()
		idx := -1
		for i, t := range s.tasks {
			if t.due.After(target) {
				continue
			}
			if idx < 0 || t.due.Before(s.tasks[idx].due) {
				idx = i
			}
		}
		if idx < 0 {
			s.now = target
			s.mu.Unlock()
			s.RunPosted()
			return
		}
		t := s.tasks[idx]
		s.tasks = slices.Delete(s.tasks, idx, idx+1)
		if t.due.After(s.now) {
			s.now = t.due
		}
		s.mu.Unlock()

		t.fn()
		s.RunPosted()
	}
}

// fakeWorld records placements and effects.
type fakeWorld struct {
	mu        sync.Mutex
	nextID    uint32
	occupied  map[model.Position]*model.Monster
	refuse    map[model.Position]bool
	observers map[model.Position]bool
	effects   []model.Position
	silent    []*model.Monster
	announced []*model.Monster
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{
		nextID:    0x40000000,
		occupied:  make(map[model.Position]*model.Monster),
		refuse:    make(map[model.Position]bool),
		observers: make(map[model.Position]bool),
	}
}

func (w *fakeWorld) NextMonsterID() uint32 {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nextID++
	return w.nextID
}

func (w *fakeWorld) place(m *model.Monster, pos model.Position) bool {
	if w.refuse[pos] || w.occupied[pos] != nil {
		return false
	}
	w.occupied[pos] = m
	m.SetPosition(pos)
	return true
}

func (w *fakeWorld) PlaceSilently(m *model.Monster, pos model.Position) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.place(m, pos) {
		return false
	}
	w.silent = append(w.silent, m)
	return true
}

func (w *fakeWorld) PlaceAnnounced(m *model.Monster, pos model.Position) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.place(m, pos) {
		return false
	}
	w.announced = append(w.announced, m)
	return true
}

func (w *fakeWorld) AddMagicEffect(pos model.Position, effect model.MagicEffect) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if effect == model.MagicEffectTeleport {
		w.effects = append(w.effects, pos)
	}
}

func (w *fakeWorld) HasObserver(pos model.Position) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.observers[pos]
}

// kill removes m from the world the way the world does on death.
func (w *fakeWorld) kill(m *model.Monster) {
	w.mu.Lock()
	delete(w.occupied, m.Position())
	w.mu.Unlock()
	m.OnRemoved()
}

func (w *fakeWorld) spawnedCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.silent) + len(w.announced)
}

func (w *fakeWorld) effectCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.effects)
}

// fakeTypes is a case-insensitive monster type registry.
type fakeTypes map[string]*model.MonsterType

func (f fakeTypes) MonsterType(name string) *model.MonsterType {
	return f[strings.ToLower(name)]
}

func (f fakeTypes) add(info model.MonsterTypeInfo) *model.MonsterType {
	mt := model.NewMonsterType(info, nil)
	f[strings.ToLower(mt.QualifiedName())] = mt
	return mt
}

type fakeZones map[model.Position]string

func (z fakeZones) MonsterVariantAt(pos model.Position) string { return z[pos] }

// sliceSource serves fixed areas.
type sliceSource struct {
	areas []AreaDef
	err   error
	calls int
}

func (s *sliceSource) Name() string { return "test" }

func (s *sliceSource) LoadAreas(context.Context) ([]AreaDef, error) {
	s.calls++
	return s.areas, s.err
}

// fixedCycle is a DayCycle with a settable value.
type fixedCycle struct{ day bool }

func (c *fixedCycle) IsDay() bool { return c.day }

type testEnv struct {
	sched *fakeScheduler
	world *fakeWorld
	types fakeTypes
	deps  Deps
}

func newTestEnv() *testEnv {
	env := &testEnv{
		sched: newFakeScheduler(),
		world: newFakeWorld(),
		types: fakeTypes{},
	}
	env.deps = Deps{
		Types:     env.types,
		World:     env.world,
		Scheduler: env.sched,
		Options:   DefaultOptions(),
	}
	return env
}
