package world

import "github.com/udisondev/otspawn/internal/model"

// Grid constants
const (
	// ShiftBy - shift by N bits for 2^N tiles per region side (2^5 = 32)
	ShiftBy = 5

	// RegionSize in tiles
	RegionSize = 1 << ShiftBy

	// MaxFloor is the deepest floor index (0 = highest, 7 = ground level)
	MaxFloor = 15
)

// regionKey addresses one region on one floor.
type regionKey struct {
	rx, ry int32
	z      uint8
}

// CoordToRegionIndex converts tile coordinates to region index.
func CoordToRegionIndex(x, y uint16) (rx, ry int32) {
	return int32(x) >> ShiftBy, int32(y) >> ShiftBy
}

func keyFor(pos model.Position) regionKey {
	rx, ry := CoordToRegionIndex(pos.X, pos.Y)
	return regionKey{rx: rx, ry: ry, z: pos.Z}
}
