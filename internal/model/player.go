package model

import "sync"

// Player is a connected character observing the world.
// Spawn logic only cares about where players stand and whether monsters ignore them.
type Player struct {
	objectID uint32
	name     string

	mu                sync.RWMutex
	position          Position
	ignoredByMonsters bool
}

// NewPlayer creates a new Player at pos.
func NewPlayer(objectID uint32, name string, pos Position) *Player {
	return &Player{
		objectID: objectID,
		name:     name,
		position: pos,
	}
}

// ObjectID returns unique object ID.
func (p *Player) ObjectID() uint32 {
	return p.objectID
}

// Name returns character name.
func (p *Player) Name() string {
	return p.name
}

// Position returns current tile.
func (p *Player) Position() Position {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.position
}

// SetPosition sets current tile. Use World.MovePlayer to keep regions in sync.
func (p *Player) SetPosition(pos Position) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.position = pos
}

// IgnoredByMonsters reports whether the player is invisible to spawn blocking (GM flag).
func (p *Player) IgnoredByMonsters() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ignoredByMonsters
}

// SetIgnoredByMonsters sets the GM ignore flag.
func (p *Player) SetIgnoredByMonsters(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ignoredByMonsters = v
}
