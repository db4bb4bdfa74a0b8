package model

import "strings"

// RespawnPeriod limits the part of the game day in which a monster may spawn.
type RespawnPeriod uint8

const (
	RespawnPeriodAll RespawnPeriod = iota
	RespawnPeriodDay
	RespawnPeriodNight
)

// ParseRespawnPeriod converts config value ("all", "day", "night") to RespawnPeriod.
// Unknown values fall back to RespawnPeriodAll.
func ParseRespawnPeriod(s string) RespawnPeriod {
	switch strings.ToLower(s) {
	case "day":
		return RespawnPeriodDay
	case "night":
		return RespawnPeriodNight
	default:
		return RespawnPeriodAll
	}
}

// DayCycle reports the current light period of the game world.
type DayCycle interface {
	IsDay() bool
}

// undergroundFloor is the last surface floor; floors below it ignore day and night.
const undergroundFloor = 7

// MonsterTypeInfo holds static monster type attributes loaded from data files.
type MonsterTypeInfo struct {
	Name          string
	Variant       string
	Boss          bool
	Blockable     bool
	RespawnPeriod RespawnPeriod
	Underground   bool
}

// MonsterType is an immutable monster template shared by all spawned instances.
// Candidate tables compare types by pointer identity.
type MonsterType struct {
	info  MonsterTypeInfo
	cycle DayCycle
}

// NewMonsterType creates a MonsterType. cycle may be nil (always day).
func NewMonsterType(info MonsterTypeInfo, cycle DayCycle) *MonsterType {
	return &MonsterType{info: info, cycle: cycle}
}

// Name returns the monster name shown to players.
func (t *MonsterType) Name() string {
	return t.info.Name
}

// TypeName returns the unqualified registry name.
func (t *MonsterType) TypeName() string {
	return t.info.Name
}

// Variant returns the zone variant tag this type belongs to ("" for the base type).
func (t *MonsterType) Variant() string {
	return t.info.Variant
}

// QualifiedName returns the registry key including variant prefix.
func (t *MonsterType) QualifiedName() string {
	return QualifiedName(t.info.Variant, t.info.Name)
}

// IsBoss reports whether the type must own its spawn slot exclusively.
func (t *MonsterType) IsBoss() bool {
	return t.info.Boss
}

// IsBlockable reports whether a nearby observer suppresses the spawn.
func (t *MonsterType) IsBlockable() bool {
	return t.info.Blockable
}

// RespawnPeriod returns the configured respawn period.
func (t *MonsterType) RespawnPeriod() RespawnPeriod {
	return t.info.RespawnPeriod
}

// CanSpawnAt reports whether the type may appear at pos right now.
// Day-only and night-only types are allowed outside their period only underground
// when flagged as such.
func (t *MonsterType) CanSpawnAt(pos Position) bool {
	if t.info.RespawnPeriod == RespawnPeriodAll || t.cycle == nil {
		return true
	}

	isDay := t.cycle.IsDay()
	if (isDay && t.info.RespawnPeriod == RespawnPeriodNight) ||
		(!isDay && t.info.RespawnPeriod == RespawnPeriodDay) {
		return pos.Z > undergroundFloor && t.info.Underground
	}
	return true
}

// QualifiedName joins a zone variant tag and a monster name ("variant|name").
func QualifiedName(variant, name string) string {
	if variant == "" {
		return name
	}
	return variant + "|" + name
}
