package spawn

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/udisondev/otspawn/internal/model"
)

var (
	// ErrUnknownMonster is returned when a monster name does not resolve to a type.
	ErrUnknownMonster = errors.New("unknown monster type")
	// ErrDuplicateCandidate is returned when a slot already holds the type.
	ErrDuplicateCandidate = errors.New("monster already in spawn slot")
	// ErrBossConflict is returned when a boss would share a slot.
	ErrBossConflict = errors.New("boss must be the only candidate of a spawn slot")
)

// Candidate is a monster type with its selection weight.
type Candidate struct {
	Type   *model.MonsterType
	Weight uint32
}

// Slot is one spawn tile with weighted candidates.
// A slot holding a boss holds nothing else.
type Slot struct {
	id         uint32
	pos        model.Position
	direction  model.Direction
	interval   time.Duration
	lastSpawn  time.Time
	candidates []Candidate
}

// ID returns the slot id (1-based, insertion order).
func (s *Slot) ID() uint32 { return s.id }

// Position returns the spawn tile.
func (s *Slot) Position() model.Position { return s.pos }

// Direction returns the facing direction of spawned monsters.
func (s *Slot) Direction() model.Direction { return s.direction }

// Interval returns the respawn cooldown.
func (s *Slot) Interval() time.Duration { return s.interval }

// LastSpawn returns the time of the last spawn or suppressed attempt.
func (s *Slot) LastSpawn() time.Time { return s.lastSpawn }

// Candidates returns a copy of the candidate table in insertion order.
func (s *Slot) Candidates() []Candidate { return slices.Clone(s.candidates) }

// Weight returns the weight of mtype, 0 if absent.
func (s *Slot) Weight(mtype *model.MonsterType) uint32 {
	if i := s.indexOf(mtype); i >= 0 {
		return s.candidates[i].Weight
	}
	return 0
}

// HasBoss reports whether any candidate is a boss.
func (s *Slot) HasBoss() bool {
	return slices.ContainsFunc(s.candidates, func(c Candidate) bool {
		return c.Type.IsBoss()
	})
}

func (s *Slot) indexOf(mtype *model.MonsterType) int {
	return slices.IndexFunc(s.candidates, func(c Candidate) bool {
		return c.Type == mtype
	})
}

// checkCandidate validates insertion of mtype against the boss rule.
func (s *Slot) checkCandidate(mtype *model.MonsterType) error {
	if s.indexOf(mtype) >= 0 {
		return fmt.Errorf("%s at %v: %w", mtype.Name(), s.pos, ErrDuplicateCandidate)
	}
	if mtype.IsBoss() && len(s.candidates) > 0 {
		return fmt.Errorf("boss %s added to slot with other monsters at %v: %w", mtype.Name(), s.pos, ErrBossConflict)
	}
	if s.HasBoss() {
		return fmt.Errorf("%s added to boss slot at %v: %w", mtype.Name(), s.pos, ErrBossConflict)
	}
	return nil
}

// mergeWeight adds weight to mtype, appending it when absent.
func (s *Slot) mergeWeight(mtype *model.MonsterType, weight uint32) {
	if i := s.indexOf(mtype); i >= 0 {
		s.candidates[i].Weight += weight
		return
	}
	s.candidates = append(s.candidates, Candidate{Type: mtype, Weight: weight})
}

// PickMonsterType selects a candidate with probability weight/total.
// A boss candidate is returned directly. Returns nil for an empty slot.
func (s *Slot) PickMonsterType() *model.MonsterType {
	if len(s.candidates) == 0 {
		return nil
	}

	var total uint64
	for _, c := range s.candidates {
		if c.Type.IsBoss() {
			return c.Type
		}
		total += uint64(c.Weight)
	}
	if total == 0 {
		return nil
	}

	ordered := slices.Clone(s.candidates)
	slices.SortStableFunc(ordered, func(a, b Candidate) int {
		switch {
		case a.Weight > b.Weight:
			return -1
		case a.Weight < b.Weight:
			return 1
		default:
			return 0
		}
	})

	r := rand.Uint64N(total)
	for _, c := range ordered {
		if r < uint64(c.Weight) {
			return c.Type
		}
		r -= uint64(c.Weight)
	}
	return nil
}
