package model

// MagicEffect is a transient visual effect shown on a tile.
type MagicEffect uint8

const (
	MagicEffectNone     MagicEffect = 0
	MagicEffectPoff     MagicEffect = 3
	MagicEffectTeleport MagicEffect = 11
)
