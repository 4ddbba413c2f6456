package world

import (
	"github.com/df-mc/dragonfly/server/block/cube"

	"github.com/annel0/paintblocks/internal/world/block"
)

// readOnlyView реализует block.Source поверх WorldManager.
// Не реализует block.World, поэтому привести его к миру с записью нельзя.
type readOnlyView struct {
	wm *WorldManager
}

// Block возвращает состояние блока по мировым координатам
func (v readOnlyView) Block(pos cube.Pos) block.State {
	return v.wm.Block(pos)
}

// TileEntity возвращает сущность блока по мировым координатам
func (v readOnlyView) TileEntity(pos cube.Pos) (block.TileEntity, bool) {
	return v.wm.TileEntity(pos)
}
