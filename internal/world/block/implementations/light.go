package implementations

import (
	"github.com/annel0/paintblocks/internal/world/block"
)

// NewGlowstone создаёт светокамень
func NewGlowstone() *StoneBehavior {
	return &StoneBehavior{Base: block.NewBase(block.Props{
		ID:           block.GlowstoneBlockID,
		Name:         "Glowstone",
		Material:     block.MaterialGlass,
		Opaque:       true,
		Hardness:     0.3,
		Resistance:   1.5,
		LightOpacity: 255,
		LightValue:   15,
		Sound:        block.SoundGlass,
	})}
}

// NewRedstoneBlock создаёт блок редстоуна: постоянный слабый сигнал 15
func NewRedstoneBlock() *StoneBehavior {
	return &StoneBehavior{Base: block.NewBase(block.Props{
		ID:           block.RedstoneBlockBlockID,
		Name:         "Redstone Block",
		Material:     block.MaterialIron,
		Opaque:       true,
		Hardness:     5,
		Resistance:   30,
		LightOpacity: 255,
		Sound:        block.SoundMetal,
		WeakPower:    15,
	})}
}

// NewNetherrack создаёт адский камень: вечный огонь на верхней грани
func NewNetherrack() *StoneBehavior {
	return &StoneBehavior{Base: block.NewBase(block.Props{
		ID:           block.NetherrackBlockID,
		Name:         "Netherrack",
		Material:     block.MaterialRock,
		Opaque:       true,
		Hardness:     0.4,
		Resistance:   2,
		LightOpacity: 255,
		Sound:        block.SoundStone,
		FireSource:   true,
	})}
}
