package model

// Direction is a creature facing.
type Direction uint8

const (
	North Direction = iota
	East
	South
	West
	SouthWest
	SouthEast
	NorthWest
	NorthEast
)

// IsValid reports whether d is one of the known directions.
func (d Direction) IsValid() bool {
	return d <= NorthEast
}

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	case SouthWest:
		return "southwest"
	case SouthEast:
		return "southeast"
	case NorthWest:
		return "northwest"
	case NorthEast:
		return "northeast"
	default:
		return "unknown"
	}
}
