package model

import (
	"sync"
	"sync/atomic"
)

// SpawnOwner is the spawn point that created a monster.
// The monster keeps it as a non-owning back-reference to report its removal.
type SpawnOwner interface {
	RemoveMonster(m *Monster)
	StartSpawnCheck()
}

// Monster is a spawned creature instance.
type Monster struct {
	objectID uint32
	mtype    *MonsterType

	mu        sync.RWMutex
	position  Position
	masterPos Position
	direction Direction
	spawn     SpawnOwner

	removed atomic.Bool
}

// NewMonster creates a new Monster instance of the given type.
func NewMonster(objectID uint32, mtype *MonsterType) *Monster {
	return &Monster{
		objectID: objectID,
		mtype:    mtype,
	}
}

// ObjectID returns unique object ID (immutable).
func (m *Monster) ObjectID() uint32 {
	return m.objectID
}

// Type returns the monster type.
func (m *Monster) Type() *MonsterType {
	return m.mtype
}

// Name returns monster name.
func (m *Monster) Name() string {
	return m.mtype.Name()
}

// Position returns current tile.
func (m *Monster) Position() Position {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.position
}

// SetPosition sets current tile. Called by the world on placement.
func (m *Monster) SetPosition(pos Position) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = pos
}

// MasterPos returns the spawn anchor the monster returns to.
func (m *Monster) MasterPos() Position {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.masterPos
}

// SetMasterPos sets the spawn anchor.
func (m *Monster) SetMasterPos(pos Position) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.masterPos = pos
}

// Direction returns facing direction.
func (m *Monster) Direction() Direction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.direction
}

// SetDirection sets facing direction.
func (m *Monster) SetDirection(dir Direction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.direction = dir
}

// Spawn returns the owning spawn point (nil if detached).
func (m *Monster) Spawn() SpawnOwner {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.spawn
}

// SetSpawn sets or clears (nil) the owning spawn point.
func (m *Monster) SetSpawn(owner SpawnOwner) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spawn = owner
}

// IsRemoved reports whether the monster has left the world.
func (m *Monster) IsRemoved() bool {
	return m.removed.Load()
}

// OnRemoved marks the monster as removed and notifies its spawn point once.
// The spawn point drops it from tracking and re-arms its periodic check.
func (m *Monster) OnRemoved() {
	if !m.removed.CompareAndSwap(false, true) {
		return
	}

	owner := m.Spawn()
	if owner == nil {
		return
	}
	owner.RemoveMonster(m)
	owner.StartSpawnCheck()
}
