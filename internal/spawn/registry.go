package spawn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/udisondev/otspawn/internal/model"
)

// Registry owns all spawn points of a map.
type Registry struct {
	deps      Deps
	listeners *listenerSet

	mu         sync.Mutex
	points     []*Point
	loaded     bool
	started    bool
	sourceName string
}

// Stats is a snapshot of registry size.
type Stats struct {
	Points int
	Slots  int
	Live   int
}

// NewRegistry creates an empty Registry. deps.Types, deps.World and
// deps.Scheduler are required.
func NewRegistry(deps Deps) *Registry {
	return &Registry{
		deps:      deps,
		listeners: newListenerSet(),
	}
}

// Load builds spawn points from src. Loading an already loaded registry is a no-op.
// Invalid entries are logged and skipped; only a source failure is returned.
func (r *Registry) Load(ctx context.Context, src Source) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loaded {
		return nil
	}

	areas, err := src.LoadAreas(ctx)
	if err != nil {
		return fmt.Errorf("loading spawns from %s: %w", src.Name(), err)
	}

	var entries, skipped int
	points := make([]*Point, 0, len(areas))

	for _, area := range areas {
		if len(area.Entries) == 0 {
			slog.Warn("empty spawn", "center", area.Center, "radius", area.Radius)
			continue
		}

		point := newPoint(area.Center, area.Radius, r.deps, r.listeners)
		for _, e := range area.Entries {
			if r.addEntry(point, area, e) {
				entries++
			} else {
				skipped++
			}
		}
		points = append(points, point)
	}

	r.points = points
	r.loaded = true
	r.sourceName = src.Name()

	slog.Info("spawns loaded",
		"source", src.Name(),
		"points", len(points),
		"entries", entries,
		"skipped", skipped)
	return nil
}

// addEntry adds one area entry to point, applying interval bounds.
func (r *Registry) addEntry(point *Point, area AreaDef, e EntryDef) bool {
	pos := area.Center.Offset(e.OffsetX, e.OffsetY)

	interval, verdict := boundInterval(EffectiveInterval(e.SpawnTime, e.Name, r.deps.Options))
	switch verdict {
	case intervalDropped:
		slog.Warn("spawntime exceeds maximum, entry dropped",
			"monster", e.Name,
			"pos", pos,
			"maxSeconds", int(MaxSpawnInterval.Seconds()))
		return false
	case intervalClamped:
		slog.Warn("spawntime below minimum, clamped",
			"monster", e.Name,
			"pos", pos,
			"minSeconds", int(MinSpawnInterval.Seconds()))
	}

	if err := point.AddMonster(e.Name, pos, e.Direction, interval, e.Weight); err != nil {
		if errors.Is(err, ErrUnknownMonster) {
			slog.Error("can not find monster", "monster", e.Name, "pos", pos, "err", err)
		} else {
			slog.Error("rejecting spawn entry", "monster", e.Name, "pos", pos, "err", err)
		}
		return false
	}
	return true
}

// Startup spawns initial monsters of every point. No-op unless loaded and not started.
func (r *Registry) Startup() {
	r.mu.Lock()
	if !r.loaded || r.started {
		r.mu.Unlock()
		return
	}
	r.started = true
	points := append([]*Point(nil), r.points...)
	r.mu.Unlock()

	for _, p := range points {
		p.Startup(false)
	}

	s := r.Stats()
	slog.Info("spawns started", "points", s.Points, "slots", s.Slots, "live", s.Live)
}

// Clear stops and destroys every point and resets the registry.
// Safe to call repeatedly.
func (r *Registry) Clear() {
	r.mu.Lock()
	points := r.points
	r.points = nil
	r.loaded = false
	r.started = false
	r.sourceName = ""
	r.mu.Unlock()

	for _, p := range points {
		p.StopEvent()
		p.Destroy()
	}

	if len(points) > 0 {
		slog.Info("spawns cleared", "points", len(points))
	}
}

// SetMonsterVariant switches every point to the given monster variant.
func (r *Registry) SetMonsterVariant(variant string) {
	for _, p := range r.Points() {
		p.SetMonsterVariant(variant)
	}
}

// Points returns a snapshot of the loaded points.
func (r *Registry) Points() []*Point {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Point(nil), r.points...)
}

// IsLoaded reports whether Load succeeded since the last Clear.
func (r *Registry) IsLoaded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loaded
}

// IsStarted reports whether Startup ran since the last Clear.
func (r *Registry) IsStarted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.started
}

// SourceName returns the name of the loaded source.
func (r *Registry) SourceName() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sourceName
}

// Subscribe registers a spawn listener and returns its subscription id.
func (r *Registry) Subscribe(l Listener) string {
	return r.listeners.subscribe(l)
}

// Unsubscribe removes a listener. Returns false for unknown ids.
func (r *Registry) Unsubscribe(id string) bool {
	return r.listeners.unsubscribe(id)
}

// Stats counts points, slots and live monsters.
func (r *Registry) Stats() Stats {
	points := r.Points()
	s := Stats{Points: len(points)}
	for _, p := range points {
		s.Slots += p.SlotCount()
		s.Live += p.LiveCount()
	}
	return s
}

// IsInZone reports whether pos lies in the square of radius around center.
// radius -1 means unbounded.
func IsInZone(center model.Position, radius int32, pos model.Position) bool {
	if radius == -1 {
		return true
	}
	return pos.DistanceX(center) <= radius && pos.DistanceY(center) <= radius
}
