package implementations

import (
	"github.com/df-mc/dragonfly/server/block/cube"

	"github.com/annel0/paintblocks/internal/world/block"
)

// GlassBehavior реализует прозрачные блоки: стекло и лёд
type GlassBehavior struct {
	block.Base
}

// NewGlass создаёт стекло
func NewGlass() *GlassBehavior {
	return &GlassBehavior{Base: block.NewBase(block.Props{
		ID:         block.GlassBlockID,
		Name:       "Glass",
		Material:   block.MaterialGlass,
		Hardness:   0.3,
		Resistance: 1.5,
		Sound:      block.SoundGlass,
	})}
}

// NewIce создаёт лёд
func NewIce() *GlassBehavior {
	return &GlassBehavior{Base: block.NewBase(block.Props{
		ID:           block.IceBlockID,
		Name:         "Ice",
		Material:     block.MaterialIce,
		Hardness:     0.5,
		Resistance:   2.5,
		LightOpacity: 3,
		Sound:        block.SoundGlass,
	})}
}

// ShouldSideBeRendered скрывает грани между соседними блоками одного типа
func (b *GlassBehavior) ShouldSideBeRendered(s block.State, src block.Source, pos cube.Pos, face cube.Face) bool {
	if src.Block(pos.Side(face)).ID == s.ID {
		return false
	}
	return b.Base.ShouldSideBeRendered(s, src, pos, face)
}
