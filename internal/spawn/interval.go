package spawn

import (
	"strings"
	"time"
)

const (
	// MinSpawnInterval is the shortest slot interval; shorter ones are clamped.
	MinSpawnInterval = time.Second
	// MaxSpawnInterval is the longest slot interval; longer entries are dropped.
	MaxSpawnInterval = 24 * time.Hour

	// StagedSpawnStep is the delay between teleport effects of a staged spawn.
	StagedSpawnStep = 1400 * time.Millisecond
	// StagedSpawnBudget is the initial delay budget of a staged spawn.
	StagedSpawnBudget = 3 * StagedSpawnStep

	// boostedRate multiplies the spawn rate of the boosted monster.
	boostedRate = 2
)

// EffectiveInterval converts an entry spawn time (seconds) into the slot
// interval, applying spawn rate, boost and event schedule.
//
//	interval = spawntime × 1000 × 100 / max(1, rate × boost × schedulePercent) ms
func EffectiveInterval(spawnTimeSec uint32, name string, opts Options) time.Duration {
	boost := int64(1)
	if opts.BoostedMonster != "" && strings.EqualFold(name, opts.BoostedMonster) {
		boost = boostedRate
	}

	divisor := max(1, int64(opts.SpawnRate)*boost*int64(opts.SchedulePercent))
	ms := int64(spawnTimeSec) * 1000 * 100 / divisor
	return time.Duration(ms) * time.Millisecond
}

// intervalVerdict tells the loader what to do with a computed interval.
type intervalVerdict uint8

const (
	intervalOK intervalVerdict = iota
	intervalClamped
	intervalDropped
)

// boundInterval applies [MinSpawnInterval, MaxSpawnInterval] bounds.
func boundInterval(d time.Duration) (time.Duration, intervalVerdict) {
	switch {
	case d > MaxSpawnInterval:
		return 0, intervalDropped
	case d < MinSpawnInterval:
		return MinSpawnInterval, intervalClamped
	default:
		return d, intervalOK
	}
}

// spawnCap is the number of slots one check cycle may spawn.
func spawnCap(opts Options) int {
	return max(1, opts.SpawnRate)
}
