package implementations

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/annel0/paintblocks/internal/world/block"
)

// WaterBehavior реализует неподвижную воду
type WaterBehavior struct {
	block.Base
}

// NewWater создаёт воду
func NewWater() *WaterBehavior {
	return &WaterBehavior{Base: block.NewBase(block.Props{
		ID:           block.WaterBlockID,
		Name:         "Water",
		Material:     block.MaterialWater,
		Hardness:     100,
		Resistance:   500,
		LightOpacity: 3,
		NoCollision:  true,
		Soil:         []block.PlantType{block.PlantWater},
	})}
}

// RayTrace жидкость не выделяется лучом
func (b *WaterBehavior) RayTrace(block.State, block.World, cube.Pos, mgl64.Vec3, mgl64.Vec3) block.RayTraceResult {
	return block.RayTraceResult{}
}

// ShouldSideBeRendered грань между водой не рисуется
func (b *WaterBehavior) ShouldSideBeRendered(s block.State, src block.Source, pos cube.Pos, face cube.Face) bool {
	if src.Block(pos.Side(face)).ID == s.ID {
		return false
	}
	return b.Base.ShouldSideBeRendered(s, src, pos, face)
}
