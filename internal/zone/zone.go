package zone

import "github.com/udisondev/otspawn/internal/model"

// Zone is an axis-aligned box of tiles spanning a range of floors.
type Zone struct {
	ID    int32  `yaml:"id"`
	Name  string `yaml:"name"`
	FromX uint16 `yaml:"from_x"`
	FromY uint16 `yaml:"from_y"`
	ToX   uint16 `yaml:"to_x"`
	ToY   uint16 `yaml:"to_y"`
	MinZ  uint8  `yaml:"min_z"`
	MaxZ  uint8  `yaml:"max_z"`

	// MonsterVariant prefixes monster names spawned inside the zone ("" = none).
	MonsterVariant string `yaml:"monster_variant"`
}

// Contains reports whether pos lies inside the zone (bounds inclusive).
func (z *Zone) Contains(pos model.Position) bool {
	return pos.X >= z.FromX && pos.X <= z.ToX &&
		pos.Y >= z.FromY && pos.Y <= z.ToY &&
		pos.Z >= z.MinZ && pos.Z <= z.MaxZ
}

// normalize orders the corner coordinates.
func (z *Zone) normalize() {
	if z.FromX > z.ToX {
		z.FromX, z.ToX = z.ToX, z.FromX
	}
	if z.FromY > z.ToY {
		z.FromY, z.ToY = z.ToY, z.FromY
	}
	if z.MinZ > z.MaxZ {
		z.MinZ, z.MaxZ = z.MaxZ, z.MinZ
	}
}
