package spawn

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/udisondev/otspawn/internal/dispatcher"
	"github.com/udisondev/otspawn/internal/model"
)

// Point is a spawn area: slots sharing a center and radius.
//
// Dispatcher callbacks and RemoveMonster (called from world removal on any
// goroutine) are serialized by mu. Listeners are notified after mu is released.
type Point struct {
	center model.Position
	radius int32

	deps      Deps
	listeners *listenerSet

	mu         sync.Mutex
	slots      []*Slot
	live       map[uint32]*model.Monster // slot id → spawned monster
	interval   time.Duration
	checkEvent dispatcher.TaskID
	destroyed  bool
	pending    []spawnEvent
}

// NewPoint creates an empty spawn point. radius -1 means unbounded.
func NewPoint(center model.Position, radius int32, deps Deps) *Point {
	return newPoint(center, radius, deps, nil)
}

func newPoint(center model.Position, radius int32, deps Deps, listeners *listenerSet) *Point {
	return &Point{
		center:    center,
		radius:    radius,
		deps:      deps,
		listeners: listeners,
		live:      make(map[uint32]*model.Monster),
		interval:  MaxSpawnInterval,
	}
}

// Center returns the area center.
func (p *Point) Center() model.Position { return p.center }

// Radius returns the area radius (-1 = unbounded).
func (p *Point) Radius() int32 { return p.radius }

// Interval returns the check interval (minimum of slot intervals).
func (p *Point) Interval() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.interval
}

// IsInSpawnZone reports whether pos lies inside the area.
func (p *Point) IsInSpawnZone(pos model.Position) bool {
	return IsInZone(p.center, p.radius, pos)
}

// SlotCount returns number of slots.
func (p *Point) SlotCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.slots)
}

// LiveCount returns number of tracked live monsters.
func (p *Point) LiveCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.live)
}

// Slot returns a copy of the slot with the given id.
func (p *Point) Slot(id uint32) (Slot, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := p.slotByIDLocked(id)
	if s == nil {
		return Slot{}, false
	}
	cp := *s
	cp.candidates = s.Candidates()
	return cp, true
}

// LiveMonster returns the monster tracked for slot id.
func (p *Point) LiveMonster(id uint32) (*model.Monster, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	m, ok := p.live[id]
	return m, ok
}

// IsCheckArmed reports whether a periodic check is scheduled.
func (p *Point) IsCheckArmed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.checkEvent != 0
}

// AddMonster adds a candidate to the slot at pos, creating the slot if needed.
// The name is qualified with the zone variant at pos. weight 0 counts as 1.
func (p *Point) AddMonster(name string, pos model.Position, dir model.Direction, interval time.Duration, weight uint32) error {
	qualified := name
	if p.deps.Zones != nil {
		if variant := p.deps.Zones.MonsterVariantAt(pos); variant != "" {
			qualified = model.QualifiedName(variant, name)
		}
	}

	mtype := p.deps.Types.MonsterType(qualified)
	if mtype == nil {
		return fmt.Errorf("resolving %q at %v: %w", qualified, pos, ErrUnknownMonster)
	}
	if weight == 0 {
		weight = 1
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.interval = min(p.interval, interval)

	slot := p.slotAtLocked(pos)
	if slot != nil {
		if err := slot.checkCandidate(mtype); err != nil {
			return err
		}
	} else {
		slot = &Slot{id: uint32(len(p.slots) + 1)}
		p.slots = append(p.slots, slot)
	}

	slot.candidates = append(slot.candidates, Candidate{Type: mtype, Weight: weight})
	slot.pos = pos
	slot.direction = dir
	slot.interval = interval
	slot.lastSpawn = time.Time{}
	return nil
}

// Startup runs the initial spawn of every slot. With delayed set the spawns
// are posted to the next dispatcher turn instead of running inline.
func (p *Point) Startup(delayed bool) {
	p.mu.Lock()
	defer p.unlock()

	if p.destroyed {
		return
	}

	if p.deps.Options.RandomSpawn {
		redistributeWeights(p.slots)
	}

	for _, slot := range p.slots {
		mtype := slot.PickMonsterType()
		if mtype == nil {
			continue
		}

		if delayed {
			id := slot.id
			p.deps.Scheduler.AddEvent(func() {
				p.continueSpawn(id, mtype, 0, true)
			}, "spawn.Point.startup")
			continue
		}
		p.scheduleSpawnLocked(slot, mtype, 0, true)
	}
}

// StartSpawnCheck arms the periodic check if it is not armed.
func (p *Point) StartSpawnCheck() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.startSpawnCheckLocked()
}

func (p *Point) startSpawnCheckLocked() {
	if p.checkEvent != 0 || p.destroyed {
		return
	}
	p.checkEvent = p.deps.Scheduler.ScheduleEvent(p.interval, p.check, "spawn.Point.check")
}

// check is the periodic dispatcher callback.
func (p *Point) check() {
	p.mu.Lock()
	defer p.unlock()

	if p.checkEvent == 0 || p.destroyed {
		return // stopped
	}
	p.checkEvent = 0
	p.cleanupLocked()

	now := p.deps.Scheduler.Now()
	limit := spawnCap(p.deps.Options)
	spawned := 0

	for _, slot := range p.slots {
		if _, ok := p.live[slot.id]; ok {
			continue
		}

		mtype := slot.PickMonsterType()
		if mtype == nil {
			continue
		}
		if !mtype.CanSpawnAt(slot.pos) {
			slot.lastSpawn = now
			continue
		}
		if mtype.IsBlockable() && p.deps.World.HasObserver(slot.pos) {
			slot.lastSpawn = now
			continue
		}
		if now.Before(slot.lastSpawn.Add(slot.interval)) {
			continue
		}

		if mtype.IsBlockable() {
			p.spawnMonsterLocked(slot, mtype, true)
		} else {
			p.scheduleSpawnLocked(slot, mtype, StagedSpawnBudget, false)
		}

		spawned++
		if spawned >= limit {
			break
		}
	}

	if len(p.live) < len(p.slots) {
		p.startSpawnCheckLocked()
	}
}

// scheduleSpawnLocked spawns once remaining is exhausted, otherwise shows a
// teleport effect and continues after StagedSpawnStep.
func (p *Point) scheduleSpawnLocked(slot *Slot, mtype *model.MonsterType, remaining time.Duration, startup bool) {
	if remaining <= 0 {
		if !p.spawnMonsterLocked(slot, mtype, startup) {
			if _, ok := p.live[slot.id]; !ok {
				p.startSpawnCheckLocked()
			}
		}
		return
	}

	p.deps.World.AddMagicEffect(slot.pos, model.MagicEffectTeleport)

	id := slot.id
	next := remaining - StagedSpawnStep
	p.deps.Scheduler.ScheduleEvent(StagedSpawnStep, func() {
		p.continueSpawn(id, mtype, next, startup)
	}, "spawn.Point.scheduleSpawn")
}

// continueSpawn is the dispatcher continuation of a staged spawn.
func (p *Point) continueSpawn(id uint32, mtype *model.MonsterType, remaining time.Duration, startup bool) {
	p.mu.Lock()
	defer p.unlock()

	if p.destroyed {
		return
	}
	slot := p.slotByIDLocked(id)
	if slot == nil {
		return
	}
	p.scheduleSpawnLocked(slot, mtype, remaining, startup)
}

// spawnMonsterLocked creates a monster for slot and places it into the world.
// startup placement is silent, otherwise observers see the monster appear.
func (p *Point) spawnMonsterLocked(slot *Slot, mtype *model.MonsterType, startup bool) bool {
	if _, ok := p.live[slot.id]; ok {
		return false
	}

	m := model.NewMonster(p.deps.World.NextMonsterID(), mtype)
	m.SetDirection(slot.direction)
	m.SetMasterPos(slot.pos)
	m.SetSpawn(p)

	var placed bool
	if startup {
		placed = p.deps.World.PlaceSilently(m, slot.pos)
	} else {
		placed = p.deps.World.PlaceAnnounced(m, slot.pos)
	}

	now := p.deps.Scheduler.Now()
	if !placed {
		m.SetSpawn(nil)
		slot.lastSpawn = now
		slog.Debug("monster placement failed",
			"monster", mtype.Name(),
			"pos", slot.pos,
			"slot", slot.id)
		return false
	}

	p.live[slot.id] = m
	slot.lastSpawn = now
	p.pending = append(p.pending, spawnEvent{monster: m, pos: slot.pos})

	slog.Debug("monster spawned",
		"objectID", m.ObjectID(),
		"monster", mtype.Name(),
		"pos", slot.pos,
		"slot", slot.id,
		"startup", startup)
	return true
}

// RemoveMonster stops tracking m. Unknown monsters are ignored.
func (p *Point) RemoveMonster(m *model.Monster) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for id, tracked := range p.live {
		if tracked == m {
			delete(p.live, id)
			return
		}
	}
}

// cleanupLocked drops entries whose monster is gone.
func (p *Point) cleanupLocked() {
	for id, m := range p.live {
		if m == nil || m.IsRemoved() {
			delete(p.live, id)
		}
	}
}

// SetMonsterVariant replaces every candidate with its variant type, keeping
// weights. Types without a variant keep the original.
func (p *Point) SetMonsterVariant(variant string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, slot := range p.slots {
		replaced := make([]Candidate, 0, len(slot.candidates))
		index := make(map[*model.MonsterType]int, len(slot.candidates))

		for _, c := range slot.candidates {
			mtype := p.deps.Types.MonsterType(model.QualifiedName(variant, c.Type.TypeName()))
			if mtype == nil {
				mtype = c.Type
			}
			if i, ok := index[mtype]; ok {
				replaced[i].Weight += c.Weight
				continue
			}
			index[mtype] = len(replaced)
			replaced = append(replaced, Candidate{Type: mtype, Weight: c.Weight})
		}
		slot.candidates = replaced
	}
}

// StopEvent cancels the armed check. Safe when nothing is armed.
func (p *Point) StopEvent() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.checkEvent != 0 {
		p.deps.Scheduler.StopEvent(p.checkEvent)
		p.checkEvent = 0
	}
}

// Destroy detaches live monsters from the point. Pending continuations
// become no-ops.
func (p *Point) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.destroyed = true
	for id, m := range p.live {
		if m != nil {
			m.SetSpawn(nil)
		}
		delete(p.live, id)
	}
	p.pending = nil
}

func (p *Point) slotAtLocked(pos model.Position) *Slot {
	for _, s := range p.slots {
		if s.pos == pos {
			return s
		}
	}
	return nil
}

func (p *Point) slotByIDLocked(id uint32) *Slot {
	if id == 0 || int(id) > len(p.slots) {
		return nil
	}
	return p.slots[id-1]
}

// unlock releases mu and delivers queued spawn events.
func (p *Point) unlock() {
	events := p.pending
	p.pending = nil
	p.mu.Unlock()

	for _, ev := range events {
		p.listeners.notify(ev)
	}
}
