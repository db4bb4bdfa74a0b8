package spawn

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/udisondev/otspawn/internal/model"
)

func TestRedistributeWeights(t *testing.T) {
	rat := model.NewMonsterType(model.MonsterTypeInfo{Name: "Rat"}, nil)
	bug := model.NewMonsterType(model.MonsterTypeInfo{Name: "Bug"}, nil)

	a := &Slot{id: 1, candidates: []Candidate{{Type: rat, Weight: 1}}}
	b := &Slot{id: 2, candidates: []Candidate{{Type: rat, Weight: 1}}}
	c := &Slot{id: 3, candidates: []Candidate{{Type: bug, Weight: 1}}}

	redistributeWeights([]*Slot{a, b, c})

	for _, s := range []*Slot{a, b, c} {
		assert.Equal(t, uint32(2), s.Weight(rat), "slot %d rat", s.id)
		assert.Equal(t, uint32(1), s.Weight(bug), "slot %d bug", s.id)
	}
}

func TestRedistributeWeights_SkipsBosses(t *testing.T) {
	rat := model.NewMonsterType(model.MonsterTypeInfo{Name: "Rat"}, nil)
	bug := model.NewMonsterType(model.MonsterTypeInfo{Name: "Bug"}, nil)
	boss := model.NewMonsterType(model.MonsterTypeInfo{Name: "Ferumbras", Boss: true}, nil)

	a := &Slot{id: 1, candidates: []Candidate{{Type: rat, Weight: 1}}}
	b := &Slot{id: 2, candidates: []Candidate{{Type: bug, Weight: 2}}}
	bossSlot := &Slot{id: 3, candidates: []Candidate{{Type: boss, Weight: 1}}}

	redistributeWeights([]*Slot{a, bossSlot, b})

	assert.Equal(t, uint32(1), a.Weight(rat))
	assert.Equal(t, uint32(2), a.Weight(bug))
	assert.Equal(t, uint32(2), b.Weight(bug))
	assert.Equal(t, uint32(1), b.Weight(rat))

	assert.Len(t, bossSlot.candidates, 1)
	assert.Zero(t, bossSlot.Weight(rat))
	assert.Zero(t, a.Weight(boss))
}

func TestRedistributeWeights_SingleSlot(t *testing.T) {
	rat := model.NewMonsterType(model.MonsterTypeInfo{Name: "Rat"}, nil)
	a := &Slot{id: 1, candidates: []Candidate{{Type: rat, Weight: 4}}}

	redistributeWeights([]*Slot{a})

	assert.Equal(t, []Candidate{{Type: rat, Weight: 4}}, a.candidates)
}
