package implementations

import (
	"github.com/annel0/paintblocks/internal/world/block"
)

// StoneBehavior реализует поведение блока камня
type StoneBehavior struct {
	block.Base
}

// NewStone создаёт камень
func NewStone() *StoneBehavior {
	return &StoneBehavior{Base: block.NewBase(block.Props{
		ID:           block.StoneBlockID,
		Name:         "Stone",
		Material:     block.MaterialRock,
		Opaque:       true,
		Hardness:     1.5,
		Resistance:   30,
		LightOpacity: 255,
		Sound:        block.SoundStone,
	})}
}

// Земля, песок, доски и шерсть отличаются от камня только таблицей свойств

// NewDirt создаёт землю
func NewDirt() *StoneBehavior {
	return &StoneBehavior{Base: block.NewBase(block.Props{
		ID:           block.DirtBlockID,
		Name:         "Dirt",
		Material:     block.MaterialGround,
		Opaque:       true,
		Hardness:     0.5,
		Resistance:   2.5,
		LightOpacity: 255,
		Sound:        block.SoundGround,
		Soil:         []block.PlantType{block.PlantPlains},
	})}
}

// NewSand создаёт песок
func NewSand() *StoneBehavior {
	return &StoneBehavior{Base: block.NewBase(block.Props{
		ID:           block.SandBlockID,
		Name:         "Sand",
		Material:     block.MaterialSand,
		Opaque:       true,
		Hardness:     0.5,
		Resistance:   2.5,
		LightOpacity: 255,
		Sound:        block.SoundSand,
		Soil:         []block.PlantType{block.PlantDesert},
	})}
}

// NewPlanks создаёт доски
func NewPlanks() *StoneBehavior {
	return &StoneBehavior{Base: block.NewBase(block.Props{
		ID:           block.PlanksBlockID,
		Name:         "Planks",
		Material:     block.MaterialWood,
		Opaque:       true,
		Hardness:     2,
		Resistance:   15,
		LightOpacity: 255,
		Sound:        block.SoundWood,
		Flammability: 20,
		FireSpread:   5,
	})}
}

// NewWool создаёт шерсть
func NewWool() *StoneBehavior {
	return &StoneBehavior{Base: block.NewBase(block.Props{
		ID:           block.WoolBlockID,
		Name:         "Wool",
		Material:     block.MaterialCloth,
		Opaque:       true,
		Hardness:     0.8,
		Resistance:   4,
		LightOpacity: 255,
		Sound:        block.SoundCloth,
		Flammability: 60,
		FireSpread:   30,
	})}
}
