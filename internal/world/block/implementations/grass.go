package implementations

import (
	"github.com/df-mc/dragonfly/server/block/cube"

	"github.com/annel0/paintblocks/internal/world/block"
)

const (
	grassColor   uint32 = 0xFF7CBD6B
	foliageColor uint32 = 0xFF48B518
)

// GrassBehavior реализует поведение травы
type GrassBehavior struct {
	block.Base
}

// NewGrass создаёт траву
func NewGrass() *GrassBehavior {
	return &GrassBehavior{Base: block.NewBase(block.Props{
		ID:           block.GrassBlockID,
		Name:         "Grass",
		Material:     block.MaterialGrass,
		Opaque:       true,
		Hardness:     0.6,
		Resistance:   3,
		LightOpacity: 255,
		Tint:         grassColor,
		Sound:        block.SoundPlant,
		Soil:         []block.PlantType{block.PlantPlains},
	})}
}

// ColorMultiplier окрашивает только верхний слой текстуры (tintIndex 0)
func (b *GrassBehavior) ColorMultiplier(_ block.State, _ block.Source, _ cube.Pos, tintIndex int) uint32 {
	if tintIndex != 0 {
		return 0xFFFFFFFF
	}
	return grassColor
}

// LeavesBehavior реализует поведение листвы
type LeavesBehavior struct {
	block.Base
}

// NewLeaves создаёт листву
func NewLeaves() *LeavesBehavior {
	return &LeavesBehavior{Base: block.NewBase(block.Props{
		ID:           block.LeavesBlockID,
		Name:         "Leaves",
		Material:     block.MaterialLeaves,
		Hardness:     0.2,
		Resistance:   1,
		LightOpacity: 1,
		Tint:         foliageColor,
		Sound:        block.SoundPlant,
		Flammability: 60,
		FireSpread:   30,
		Leaves:       true,
	})}
}

// IsSideSolid листва прозрачна, но её грани считаются сплошными для опоры
func (b *LeavesBehavior) IsSideSolid(block.State, block.Source, cube.Pos, cube.Face) bool {
	return true
}
