package data

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/otspawn/internal/model"
)

// monsterDef is one monster type entry of the monsters file.
type monsterDef struct {
	Name          string `yaml:"name"`
	Variant       string `yaml:"variant"`
	Boss          bool   `yaml:"boss"`
	Blockable     bool   `yaml:"blockable"`
	RespawnPeriod string `yaml:"respawn_period"` // all, day, night
	Underground   bool   `yaml:"underground"`
}

type monstersFile struct {
	Monsters []monsterDef `yaml:"monsters"`
}

// MonsterRegistry holds monster types keyed by lower-case qualified name
// ("name" or "variant|name"). Read-only after load.
type MonsterRegistry struct {
	types map[string]*model.MonsterType
}

// NewMonsterRegistry builds a registry from type infos.
// Later duplicates of a qualified name are skipped with a warning.
func NewMonsterRegistry(infos []model.MonsterTypeInfo, cycle model.DayCycle) *MonsterRegistry {
	r := &MonsterRegistry{types: make(map[string]*model.MonsterType, len(infos))}

	for _, info := range infos {
		mt := model.NewMonsterType(info, cycle)
		key := strings.ToLower(mt.QualifiedName())
		if _, dup := r.types[key]; dup {
			slog.Warn("duplicate monster type", "name", mt.QualifiedName())
			continue
		}
		r.types[key] = mt
	}
	return r
}

// LoadMonsters reads monster types from a YAML file.
func LoadMonsters(path string, cycle model.DayCycle) (*MonsterRegistry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading monsters %s: %w", path, err)
	}

	var f monstersFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parsing monsters %s: %w", path, err)
	}

	infos := make([]model.MonsterTypeInfo, 0, len(f.Monsters))
	for i, d := range f.Monsters {
		if strings.TrimSpace(d.Name) == "" {
			return nil, fmt.Errorf("parsing monsters %s: entry %d has no name", path, i)
		}
		infos = append(infos, model.MonsterTypeInfo{
			Name:          d.Name,
			Variant:       d.Variant,
			Boss:          d.Boss,
			Blockable:     d.Blockable,
			RespawnPeriod: model.ParseRespawnPeriod(d.RespawnPeriod),
			Underground:   d.Underground,
		})
	}

	r := NewMonsterRegistry(infos, cycle)
	slog.Info("loaded monster types", "path", path, "count", r.Count())
	return r, nil
}

// MonsterType returns the type for a (variant-qualified) name, case-insensitive.
// Returns nil if not found.
func (r *MonsterRegistry) MonsterType(name string) *model.MonsterType {
	return r.types[strings.ToLower(name)]
}

// Count returns number of registered types.
func (r *MonsterRegistry) Count() int {
	return len(r.types)
}
