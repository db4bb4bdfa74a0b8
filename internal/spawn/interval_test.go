package spawn

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveInterval(t *testing.T) {
	tests := []struct {
		name      string
		spawnTime uint32
		monster   string
		opts      Options
		want      time.Duration
	}{
		{name: "normal rate", spawnTime: 10, monster: "Rat", opts: DefaultOptions(), want: 10 * time.Second},
		{name: "double rate", spawnTime: 60, monster: "Rat", opts: Options{SpawnRate: 2, SchedulePercent: 100}, want: 30 * time.Second},
		{name: "event schedule 150%", spawnTime: 60, monster: "Rat", opts: Options{SpawnRate: 1, SchedulePercent: 150}, want: 40 * time.Second},
		{name: "boosted monster", spawnTime: 60, monster: "rat", opts: Options{SpawnRate: 1, SchedulePercent: 100, BoostedMonster: "Rat"}, want: 30 * time.Second},
		{name: "other monster not boosted", spawnTime: 60, monster: "Bug", opts: Options{SpawnRate: 1, SchedulePercent: 100, BoostedMonster: "Rat"}, want: time.Minute},
		{name: "zero rate divisor floor", spawnTime: 1, monster: "Rat", opts: Options{}, want: 100 * time.Second},
		{name: "max seconds", spawnTime: 86400, monster: "Rat", opts: DefaultOptions(), want: 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EffectiveInterval(tt.spawnTime, tt.monster, tt.opts))
		})
	}
}

func TestBoundInterval(t *testing.T) {
	tests := []struct {
		in          time.Duration
		want        time.Duration
		wantVerdict intervalVerdict
	}{
		{in: 0, want: MinSpawnInterval, wantVerdict: intervalClamped},
		{in: 999 * time.Millisecond, want: MinSpawnInterval, wantVerdict: intervalClamped},
		{in: time.Second, want: time.Second, wantVerdict: intervalOK},
		{in: time.Hour, want: time.Hour, wantVerdict: intervalOK},
		{in: MaxSpawnInterval, want: MaxSpawnInterval, wantVerdict: intervalOK},
		{in: MaxSpawnInterval + time.Millisecond, want: 0, wantVerdict: intervalDropped},
	}

	for _, tt := range tests {
		got, verdict := boundInterval(tt.in)
		assert.Equal(t, tt.wantVerdict, verdict, "boundInterval(%v)", tt.in)
		if verdict != intervalDropped {
			assert.Equal(t, tt.want, got, "boundInterval(%v)", tt.in)
			assert.GreaterOrEqual(t, got, MinSpawnInterval)
			assert.LessOrEqual(t, got, MaxSpawnInterval)
		}
	}
}

func TestSpawnCap(t *testing.T) {
	assert.Equal(t, 1, spawnCap(Options{SpawnRate: 0}))
	assert.Equal(t, 1, spawnCap(Options{SpawnRate: 1}))
	assert.Equal(t, 3, spawnCap(Options{SpawnRate: 3}))
}
