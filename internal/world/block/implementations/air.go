package implementations

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/annel0/paintblocks/internal/world/block"
)

// AirBehavior реализует поведение пустого блока (воздуха)
type AirBehavior struct {
	block.Base
}

func (b *AirBehavior) ID() block.BlockID { return block.AirBlockID }

func (b *AirBehavior) Name() string { return "Air" }

func (b *AirBehavior) Material(block.State) block.Material { return block.MaterialAir }

// CollisionBoxes воздух не сталкивается
func (b *AirBehavior) CollisionBoxes(block.State, block.Source, cube.Pos) []cube.BBox { return nil }

func (b *AirBehavior) AddCollisionBoxes(_ block.State, _ block.World, _ cube.Pos, _ cube.BBox, boxes []cube.BBox, _ block.Entity) []cube.BBox {
	return boxes
}

// RayTrace луч проходит сквозь воздух
func (b *AirBehavior) RayTrace(block.State, block.World, cube.Pos, mgl64.Vec3, mgl64.Vec3) block.RayTraceResult {
	return block.RayTraceResult{}
}

func (b *AirBehavior) IsPassable(block.Source, cube.Pos) bool { return true }

func (b *AirBehavior) FaceShape(block.State, block.Source, cube.Pos, cube.Face) block.FaceShape {
	return block.FaceShapeUndefined
}
