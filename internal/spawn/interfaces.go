// Package spawn runs periodic monster spawning for map spawn areas.
//
// A Registry owns the spawn points of a map. Each Point owns slots (fixed
// tiles with weighted monster candidates), re-checks them on the shared
// dispatcher and places monsters into the world.
package spawn

import (
	"context"
	"time"

	"github.com/udisondev/otspawn/internal/dispatcher"
	"github.com/udisondev/otspawn/internal/model"
)

// Source yields declarative spawn areas (XML file, database).
type Source interface {
	Name() string
	LoadAreas(ctx context.Context) ([]AreaDef, error)
}

// AreaDef is one spawn area as read from a Source.
type AreaDef struct {
	Center  model.Position
	Radius  int32 // -1 = unbounded
	Entries []EntryDef
}

// EntryDef is one monster entry of an area. Offsets are relative to the area center.
type EntryDef struct {
	Name      string
	OffsetX   int16
	OffsetY   int16
	Direction model.Direction
	SpawnTime uint32 // seconds
	Weight    uint32 // 0 = default (1)
}

// MonsterTypes resolves monster types by (variant-qualified) name.
// Returns nil for unknown names.
type MonsterTypes interface {
	MonsterType(name string) *model.MonsterType
}

// World is the placement and observation service.
type World interface {
	NextMonsterID() uint32
	PlaceSilently(m *model.Monster, pos model.Position) bool
	PlaceAnnounced(m *model.Monster, pos model.Position) bool
	AddMagicEffect(pos model.Position, effect model.MagicEffect)
	// HasObserver ignores players flagged as ignored by monsters.
	HasObserver(pos model.Position) bool
}

// Scheduler is the cooperative dispatcher. Callbacks run one at a time.
type Scheduler interface {
	ScheduleEvent(delay time.Duration, fn func(), name string) dispatcher.TaskID
	AddEvent(fn func(), name string)
	StopEvent(id dispatcher.TaskID)
	Now() time.Time
}

// Zones answers which monster variant applies at a position.
type Zones interface {
	MonsterVariantAt(pos model.Position) string
}

// Options are the spawn settings from server configuration.
type Options struct {
	// SpawnRate speeds up spawn intervals and caps spawns per check cycle.
	SpawnRate int
	// SchedulePercent is the event schedule multiplier (100 = normal speed).
	SchedulePercent int
	// RandomSpawn merges candidate weights across slots of a point at startup.
	RandomSpawn bool
	// BoostedMonster spawns twice as often.
	BoostedMonster string
}

// DefaultOptions returns normal-speed spawning.
func DefaultOptions() Options {
	return Options{
		SpawnRate:       1,
		SchedulePercent: 100,
	}
}

// Deps are the collaborators shared by all points of a registry.
// Zones may be nil.
type Deps struct {
	Types     MonsterTypes
	World     World
	Scheduler Scheduler
	Zones     Zones
	Options   Options
}
