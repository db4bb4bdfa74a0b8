package world

import (
	"sync"
	"sync/atomic"

	"github.com/udisondev/otspawn/internal/model"
)

// Region represents a RegionSize×RegionSize block of tiles on one floor.
// Regions are created lazily on first use.
type Region struct {
	key regionKey

	players  sync.Map // map[uint32]*model.Player, objectID → player
	monsters sync.Map // map[uint32]*model.Monster, objectID → monster

	playerCount atomic.Int32
}

// newRegion creates a new empty region
func newRegion(key regionKey) *Region {
	return &Region{key: key}
}

// RX returns region X index
func (r *Region) RX() int32 {
	return r.key.rx
}

// RY returns region Y index
func (r *Region) RY() int32 {
	return r.key.ry
}

// Floor returns region floor
func (r *Region) Floor() uint8 {
	return r.key.z
}

func (r *Region) addPlayer(p *model.Player) {
	if _, loaded := r.players.LoadOrStore(p.ObjectID(), p); !loaded {
		r.playerCount.Add(1)
	}
}

func (r *Region) removePlayer(objectID uint32) {
	if _, ok := r.players.LoadAndDelete(objectID); ok {
		r.playerCount.Add(-1)
	}
}

func (r *Region) addMonster(m *model.Monster) {
	r.monsters.Store(m.ObjectID(), m)
}

func (r *Region) removeMonster(objectID uint32) {
	r.monsters.Delete(objectID)
}

// HasPlayers reports whether any player stands in the region (O(1)).
func (r *Region) HasPlayers() bool {
	return r.playerCount.Load() > 0
}

// ForEachPlayer iterates over players in this region.
// If fn returns false, iteration stops
func (r *Region) ForEachPlayer(fn func(*model.Player) bool) {
	r.players.Range(func(_, value any) bool {
		return fn(value.(*model.Player))
	})
}

// ForEachMonster iterates over monsters in this region.
func (r *Region) ForEachMonster(fn func(*model.Monster) bool) {
	r.monsters.Range(func(_, value any) bool {
		return fn(value.(*model.Monster))
	})
}
