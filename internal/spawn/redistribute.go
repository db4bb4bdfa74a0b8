package spawn

import "github.com/udisondev/otspawn/internal/model"

type weightMerge struct {
	slot   *Slot
	mtype  *model.MonsterType
	weight uint32
}

// redistributeWeights shares candidates between every pair of non-boss slots.
// Merges are collected first and applied afterwards so weights read during
// collection are the loaded ones.
func redistributeWeights(slots []*Slot) {
	var merges []weightMerge

	for i, a := range slots {
		if a.HasBoss() {
			continue
		}
		for _, b := range slots[i+1:] {
			if b.HasBoss() {
				continue
			}
			merges = collectMerges(merges, a, b)
			merges = collectMerges(merges, b, a)
		}
	}

	for _, m := range merges {
		m.slot.mergeWeight(m.mtype, m.weight)
	}
}

// collectMerges records merging every non-boss candidate of from into to.
func collectMerges(merges []weightMerge, from, to *Slot) []weightMerge {
	for _, c := range from.candidates {
		if c.Type.IsBoss() {
			continue
		}
		merges = append(merges, weightMerge{slot: to, mtype: c.Type, weight: c.Weight})
	}
	return merges
}
