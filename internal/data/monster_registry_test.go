package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/otspawn/internal/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadMonsters(t *testing.T) {
	path := writeFile(t, "monsters.yaml", `monsters:
  - name: Rat
    blockable: true
  - name: Rat
    variant: winter
  - name: Vampire
    respawn_period: night
    underground: true
  - name: Dragon Lord
    boss: true
  - name: rat
`)

	reg, err := LoadMonsters(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, reg.Count(), "case-insensitive duplicate skipped")

	rat := reg.MonsterType("RAT")
	require.NotNil(t, rat)
	assert.Equal(t, "Rat", rat.Name())
	assert.True(t, rat.IsBlockable())
	assert.Empty(t, rat.Variant())

	winter := reg.MonsterType("winter|rat")
	require.NotNil(t, winter)
	assert.Equal(t, "winter", winter.Variant())
	assert.Equal(t, "Rat", winter.TypeName())
	assert.NotSame(t, rat, winter)

	vampire := reg.MonsterType("Vampire")
	require.NotNil(t, vampire)
	assert.Equal(t, model.RespawnPeriodNight, vampire.RespawnPeriod())

	assert.True(t, reg.MonsterType("dragon lord").IsBoss())
	assert.Nil(t, reg.MonsterType("Ghost"))
}

func TestLoadMonsters_Errors(t *testing.T) {
	_, err := LoadMonsters(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadMonsters(writeFile(t, "bad.yaml", "monsters: {"), nil)
	require.Error(t, err)

	_, err = LoadMonsters(writeFile(t, "noname.yaml", "monsters:\n  - boss: true\n"), nil)
	require.Error(t, err)
}

type nightCycle struct{}

func (nightCycle) IsDay() bool { return false }

func TestNewMonsterRegistry_UsesCycle(t *testing.T) {
	reg := NewMonsterRegistry([]model.MonsterTypeInfo{
		{Name: "Sun Beetle", RespawnPeriod: model.RespawnPeriodDay},
	}, nightCycle{})

	beetle := reg.MonsterType("sun beetle")
	require.NotNil(t, beetle)
	assert.False(t, beetle.CanSpawnAt(model.NewPosition(100, 100, 7)))
}
