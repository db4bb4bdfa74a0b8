package config

import (
	"fmt"
	"time"

	"github.com/udisondev/otspawn/internal/spawn"
)

// Spawn source kinds.
const (
	SourceXML = "xml"
	SourceDB  = "db"
)

// SpawnConfig controls the spawn registry.
type SpawnConfig struct {
	Source          string `yaml:"source"` // xml | db
	File            string `yaml:"file"`   // spawn XML, used when source is xml
	Rate            int    `yaml:"rate"`
	SchedulePercent int    `yaml:"schedule_percent"`
	RandomSpawn     bool   `yaml:"random_spawn"`
	BoostedMonster  string `yaml:"boosted_monster"`
}

// DispatcherConfig controls the scheduler loop.
type DispatcherConfig struct {
	TickInterval time.Duration `yaml:"tick_interval"`
}

// StatsConfig controls spawn counter persistence.
type StatsConfig struct {
	FlushInterval time.Duration `yaml:"flush_interval"`
}

// WorldConfig controls observer ranges used by spawn gating.
type WorldConfig struct {
	ObserverRangeX int32 `yaml:"observer_range_x"`
	ObserverRangeY int32 `yaml:"observer_range_y"`
}

// Spawnd holds all configuration for the spawn daemon.
type Spawnd struct {
	LogLevel string `yaml:"log_level"`

	Spawn        SpawnConfig `yaml:"spawn"`
	MonstersFile string      `yaml:"monsters_file"`
	ZonesFile    string      `yaml:"zones_file"`

	Dispatcher DispatcherConfig `yaml:"dispatcher"`
	Stats      StatsConfig      `yaml:"stats"`
	World      WorldConfig      `yaml:"world"`

	// Database is used for the db spawn source and for stats.
	Database DatabaseConfig `yaml:"database"`
}

// DefaultSpawnd returns Spawnd config with sensible defaults.
func DefaultSpawnd() Spawnd {
	return Spawnd{
		LogLevel: "info",
		Spawn: SpawnConfig{
			Source:          SourceXML,
			File:            "data/spawns/world-monster.xml",
			Rate:            1,
			SchedulePercent: 100,
		},
		MonstersFile: "data/monsters.yaml",
		ZonesFile:    "data/zones.yaml",
		Dispatcher: DispatcherConfig{
			TickInterval: 50 * time.Millisecond,
		},
		Stats: StatsConfig{
			FlushInterval: 30 * time.Second,
		},
		World: WorldConfig{
			ObserverRangeX: 8,
			ObserverRangeY: 6,
		},
		Database: DefaultDatabase(),
	}
}

// LoadSpawnd loads spawn daemon config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadSpawnd(path string) (Spawnd, error) {
	cfg := DefaultSpawnd()
	if err := loadYAML(path, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the daemon cannot run with.
func (c Spawnd) Validate() error {
	switch c.Spawn.Source {
	case SourceXML:
		if c.Spawn.File == "" {
			return fmt.Errorf("spawn.file is required for source %q", SourceXML)
		}
	case SourceDB:
	default:
		return fmt.Errorf("unknown spawn.source %q", c.Spawn.Source)
	}

	if c.Spawn.SchedulePercent < 0 {
		return fmt.Errorf("spawn.schedule_percent must not be negative, got %d", c.Spawn.SchedulePercent)
	}
	if c.Dispatcher.TickInterval <= 0 {
		return fmt.Errorf("dispatcher.tick_interval must be positive, got %s", c.Dispatcher.TickInterval)
	}
	if c.Stats.FlushInterval <= 0 {
		return fmt.Errorf("stats.flush_interval must be positive, got %s", c.Stats.FlushInterval)
	}
	return nil
}

// SpawnOptions maps the spawn section to registry options.
func (c Spawnd) SpawnOptions() spawn.Options {
	return spawn.Options{
		SpawnRate:       c.Spawn.Rate,
		SchedulePercent: c.Spawn.SchedulePercent,
		RandomSpawn:     c.Spawn.RandomSpawn,
		BoostedMonster:  c.Spawn.BoostedMonster,
	}
}
