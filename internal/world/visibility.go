package world

import "github.com/udisondev/otspawn/internal/model"

// forEachPlayerInView iterates over players on the same floor within observer
// range of pos. Only regions overlapping the range are visited.
// If fn returns false, iteration stops early.
func (w *World) forEachPlayerInView(pos model.Position, fn func(*model.Player) bool) {
	rangeX, rangeY := w.opts.ObserverRangeX, w.opts.ObserverRangeY

	minRX := (int32(pos.X) - rangeX) >> ShiftBy
	maxRX := (int32(pos.X) + rangeX) >> ShiftBy
	minRY := (int32(pos.Y) - rangeY) >> ShiftBy
	maxRY := (int32(pos.Y) + rangeY) >> ShiftBy

	for rx := minRX; rx <= maxRX; rx++ {
		for ry := minRY; ry <= maxRY; ry++ {
			region := w.region(regionKey{rx: rx, ry: ry, z: pos.Z})
			if region == nil || !region.HasPlayers() {
				continue
			}

			continueIterating := true
			region.ForEachPlayer(func(p *model.Player) bool {
				ppos := p.Position()
				if ppos.Z != pos.Z || ppos.DistanceX(pos) > rangeX || ppos.DistanceY(pos) > rangeY {
					return true
				}
				if !fn(p) {
					continueIterating = false
					return false
				}
				return true
			})

			if !continueIterating {
				return
			}
		}
	}
}

// HasObserver reports whether any player who is not ignored by monsters
// can see pos.
func (w *World) HasObserver(pos model.Position) bool {
	found := false
	w.forEachPlayerInView(pos, func(p *model.Player) bool {
		if p.IgnoredByMonsters() {
			return true
		}
		found = true
		return false
	})
	return found
}

// CountObservers counts players (including ignored ones) who can see pos.
func (w *World) CountObservers(pos model.Position) int {
	count := 0
	w.forEachPlayerInView(pos, func(*model.Player) bool {
		count++
		return true
	})
	return count
}

// AddMagicEffect shows effect at pos to every player in view.
func (w *World) AddMagicEffect(pos model.Position, effect model.MagicEffect) {
	w.forEachPlayerInView(pos, func(p *model.Player) bool {
		w.notifier.MagicEffect(p, pos, effect)
		return true
	})
}
