package world

import (
	"errors"
	"fmt"
	"sync"

	"github.com/udisondev/otspawn/internal/model"
)

// ErrInvalidPosition is returned when a position lies outside the map.
var ErrInvalidPosition = errors.New("invalid position")

// Options configures map bounds and observer range.
type Options struct {
	Width  uint16
	Height uint16

	// Observer range in tiles around a position (same floor).
	ObserverRangeX int32
	ObserverRangeY int32
}

// DefaultOptions returns the full 16-bit map with client viewport range.
func DefaultOptions() Options {
	return Options{
		Width:          65535,
		Height:         65535,
		ObserverRangeX: 8,
		ObserverRangeY: 6,
	}
}

// World is the tile map with creature placement and observer lookups.
// Safe for concurrent use.
type World struct {
	opts     Options
	notifier Notifier
	ids      *ObjectIDGenerator

	mu      sync.RWMutex
	regions map[regionKey]*Region
	tiles   map[model.Position]uint32 // tile → creature objectID
	blocked map[model.Position]struct{}

	monsters sync.Map // map[uint32]*model.Monster, objectID → monster
	players  sync.Map // map[uint32]*model.Player, objectID → player
}

// New creates an empty World. notifier may be nil (events are dropped).
func New(opts Options, notifier Notifier) *World {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &World{
		opts:     opts,
		notifier: notifier,
		ids:      NewObjectIDGenerator(),
		regions:  make(map[regionKey]*Region),
		tiles:    make(map[model.Position]uint32),
		blocked:  make(map[model.Position]struct{}),
	}
}

// IDGenerator returns the world object ID generator.
func (w *World) IDGenerator() *ObjectIDGenerator {
	return w.ids
}

// NextMonsterID allocates an object ID for a new monster.
func (w *World) NextMonsterID() uint32 {
	return w.ids.NextMonsterID()
}

// IsValidPosition reports whether pos lies inside the map.
func (w *World) IsValidPosition(pos model.Position) bool {
	return pos.X < w.opts.Width && pos.Y < w.opts.Height && pos.Z <= MaxFloor
}

// BlockTile marks a tile as not walkable (walls, water).
func (w *World) BlockTile(pos model.Position) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.blocked[pos] = struct{}{}
}

// UnblockTile clears a BlockTile mark.
func (w *World) UnblockTile(pos model.Position) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.blocked, pos)
}

// PlaceSilently puts the monster at pos or the first free adjacent tile
// without notifying observers.
func (w *World) PlaceSilently(m *model.Monster, pos model.Position) bool {
	return w.place(m, pos, true)
}

// PlaceAnnounced puts the monster exactly at pos and shows it to every
// player in view.
func (w *World) PlaceAnnounced(m *model.Monster, pos model.Position) bool {
	if !w.place(m, pos, false) {
		return false
	}

	placed := m.Position()
	w.forEachPlayerInView(placed, func(p *model.Player) bool {
		w.notifier.CreatureAppeared(p, m)
		return true
	})
	return true
}

// place reserves a tile and registers the monster in its region.
func (w *World) place(m *model.Monster, pos model.Position, extended bool) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	target, ok := w.freeTileLocked(pos, extended)
	if !ok {
		return false
	}

	w.tiles[target] = m.ObjectID()
	m.SetPosition(target)
	w.regionLocked(target).addMonster(m)
	w.monsters.Store(m.ObjectID(), m)
	return true
}

// neighbours in search order for extended placement
var neighbours = [8][2]int16{
	{0, -1}, {1, 0}, {0, 1}, {-1, 0},
	{-1, -1}, {1, -1}, {-1, 1}, {1, 1},
}

func (w *World) freeTileLocked(pos model.Position, extended bool) (model.Position, bool) {
	if w.isFreeLocked(pos) {
		return pos, true
	}
	if !extended {
		return model.Position{}, false
	}

	for _, d := range neighbours {
		candidate := pos.Offset(d[0], d[1])
		if candidate.DistanceX(pos) > 1 || candidate.DistanceY(pos) > 1 {
			continue // wrapped around map edge
		}
		if w.isFreeLocked(candidate) {
			return candidate, true
		}
	}
	return model.Position{}, false
}

func (w *World) isFreeLocked(pos model.Position) bool {
	if !w.IsValidPosition(pos) {
		return false
	}
	if _, blocked := w.blocked[pos]; blocked {
		return false
	}
	_, occupied := w.tiles[pos]
	return !occupied
}

// regionLocked returns region for pos, creating it on demand. Caller holds w.mu.
func (w *World) regionLocked(pos model.Position) *Region {
	key := keyFor(pos)
	region, ok := w.regions[key]
	if !ok {
		region = newRegion(key)
		w.regions[key] = region
	}
	return region
}

// region returns existing region for key or nil.
func (w *World) region(key regionKey) *Region {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.regions[key]
}

// RemoveMonster removes the monster from the world and tells its spawn point.
// Removing an unknown monster is a no-op apart from the removal notification.
func (w *World) RemoveMonster(m *model.Monster) {
	if _, ok := w.monsters.LoadAndDelete(m.ObjectID()); ok {
		pos := m.Position()

		w.mu.Lock()
		if id, occupied := w.tiles[pos]; occupied && id == m.ObjectID() {
			delete(w.tiles, pos)
		}
		if region, exists := w.regions[keyFor(pos)]; exists {
			region.removeMonster(m.ObjectID())
		}
		w.mu.Unlock()
	}

	m.OnRemoved()
}

// GetMonster returns monster by object ID.
func (w *World) GetMonster(objectID uint32) (*model.Monster, bool) {
	value, ok := w.monsters.Load(objectID)
	if !ok {
		return nil, false
	}
	return value.(*model.Monster), true
}

// MonsterAt returns the monster standing on pos.
func (w *World) MonsterAt(pos model.Position) (*model.Monster, bool) {
	w.mu.RLock()
	id, ok := w.tiles[pos]
	w.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return w.GetMonster(id)
}

// MonsterCount returns number of monsters in world (O(N)).
func (w *World) MonsterCount() int {
	count := 0
	w.monsters.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}

// AddPlayer adds player to world at its current position.
func (w *World) AddPlayer(p *model.Player) error {
	pos := p.Position()
	if !w.IsValidPosition(pos) {
		return fmt.Errorf("adding player %d at %v: %w", p.ObjectID(), pos, ErrInvalidPosition)
	}

	w.mu.Lock()
	w.regionLocked(pos).addPlayer(p)
	w.mu.Unlock()

	w.players.Store(p.ObjectID(), p)
	return nil
}

// MovePlayer moves player to pos, updating region membership.
func (w *World) MovePlayer(p *model.Player, pos model.Position) error {
	if !w.IsValidPosition(pos) {
		return fmt.Errorf("moving player %d to %v: %w", p.ObjectID(), pos, ErrInvalidPosition)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	old := p.Position()
	if region, ok := w.regions[keyFor(old)]; ok {
		region.removePlayer(p.ObjectID())
	}
	p.SetPosition(pos)
	w.regionLocked(pos).addPlayer(p)
	return nil
}

// RemovePlayer removes player from world.
func (w *World) RemovePlayer(p *model.Player) {
	if _, ok := w.players.LoadAndDelete(p.ObjectID()); !ok {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if region, ok := w.regions[keyFor(p.Position())]; ok {
		region.removePlayer(p.ObjectID())
	}
}

// PlayerCount returns number of players in world (O(N)).
func (w *World) PlayerCount() int {
	count := 0
	w.players.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}
