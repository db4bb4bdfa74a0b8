package model

import "fmt"

// Position представляет клетку карты (tile).
// Value type, передаётся по значению (immutable).
type Position struct {
	X uint16
	Y uint16
	Z uint8
}

// NewPosition создаёт Position с указанными координатами.
func NewPosition(x, y uint16, z uint8) Position {
	return Position{X: x, Y: y, Z: z}
}

// Offset returns the position shifted by (dx, dy) on the same floor.
// Coordinates wrap on uint16 overflow the same way spawn files expect.
func (p Position) Offset(dx, dy int16) Position {
	p.X = uint16(int32(p.X) + int32(dx))
	p.Y = uint16(int32(p.Y) + int32(dy))
	return p
}

// DistanceX returns absolute distance on the X axis.
func (p Position) DistanceX(other Position) int32 {
	return absInt32(int32(p.X) - int32(other.X))
}

// DistanceY returns absolute distance on the Y axis.
func (p Position) DistanceY(other Position) int32 {
	return absInt32(int32(p.Y) - int32(other.Y))
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d, %d)", p.X, p.Y, p.Z)
}

func absInt32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
