// Package zone indexes map zones and answers which zone variant applies
// to a tile.
package zone

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/otspawn/internal/model"
)

const gridSize int32 = 256 // tiles per grid cell side

type gridKey struct {
	gx, gy int32
}

// Manager holds all zones with a spatial grid for fast lookups.
// Read-only after construction.
type Manager struct {
	zones []*Zone
	byID  map[int32]*Zone
	grid  map[gridKey][]*Zone
}

// NewManager creates a Manager indexing the given zones.
// Zones with duplicate IDs are skipped with a warning.
func NewManager(zones []Zone) *Manager {
	m := &Manager{
		byID: make(map[int32]*Zone),
		grid: make(map[gridKey][]*Zone),
	}

	for i := range zones {
		z := zones[i]
		z.normalize()

		if _, dup := m.byID[z.ID]; dup {
			slog.Warn("skip zone with duplicate id", "id", z.ID, "name", z.Name)
			continue
		}

		m.zones = append(m.zones, &z)
		m.byID[z.ID] = &z
	}

	m.buildGrid()
	return m
}

type zonesFile struct {
	Zones []Zone `yaml:"zones"`
}

// Load reads zones from a YAML file. A missing file yields an empty Manager.
func Load(path string) (*Manager, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("zones file not found, no zone variants", "path", path)
			return NewManager(nil), nil
		}
		return nil, fmt.Errorf("reading zones %s: %w", path, err)
	}

	var f zonesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing zones %s: %w", path, err)
	}

	m := NewManager(f.Zones)
	slog.Info("zones loaded", "path", path, "zones", len(m.zones), "gridCells", len(m.grid))
	return m, nil
}

// ZonesAt returns all zones containing pos, in load order.
func (m *Manager) ZonesAt(pos model.Position) []*Zone {
	var result []*Zone
	for _, z := range m.grid[keyFor(pos)] {
		if z.Contains(pos) {
			result = append(result, z)
		}
	}
	return result
}

// ZoneByID returns a zone by its identifier, or nil if not found.
func (m *Manager) ZoneByID(id int32) *Zone {
	return m.byID[id]
}

// Count returns number of indexed zones.
func (m *Manager) Count() int {
	return len(m.zones)
}

// MonsterVariantAt returns the monster variant of the first zone at pos
// that defines one, or "".
func (m *Manager) MonsterVariantAt(pos model.Position) string {
	for _, z := range m.ZonesAt(pos) {
		if z.MonsterVariant != "" {
			return z.MonsterVariant
		}
	}
	return ""
}

// buildGrid registers each zone in every grid cell its box overlaps.
func (m *Manager) buildGrid() {
	for _, z := range m.zones {
		gxMin := int32(z.FromX) / gridSize
		gxMax := int32(z.ToX) / gridSize
		gyMin := int32(z.FromY) / gridSize
		gyMax := int32(z.ToY) / gridSize

		for gx := gxMin; gx <= gxMax; gx++ {
			for gy := gyMin; gy <= gyMax; gy++ {
				key := gridKey{gx: gx, gy: gy}
				m.grid[key] = append(m.grid[key], z)
			}
		}
	}
}

func keyFor(pos model.Position) gridKey {
	return gridKey{gx: int32(pos.X) / gridSize, gy: int32(pos.Y) / gridSize}
}
