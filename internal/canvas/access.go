package canvas

import (
	"github.com/annel0/paintblocks/internal/world/block"
	"github.com/df-mc/dragonfly/server/block/cube"
)

// UnpackingSource представление мира только на чтение, в котором каждый
// окрашенный холст выглядит как имитируемый им блок.
// Имитируемый блок получает этот источник и видит соседей-холсты
// такими, какими они нарисованы.
type UnpackingSource struct {
	src block.Source
}

// Unpacking оборачивает источник
func Unpacking(src block.Source) UnpackingSource {
	return UnpackingSource{src: src}
}

// Block возвращает имитируемый блок для окрашенных холстов и реальный блок для остальных позиций
func (u UnpackingSource) Block(pos cube.Pos) block.State {
	if t, ok := tileAt(u.src, pos); ok {
		if painted := t.PaintedBlockState(); !painted.IsAir() {
			return painted
		}
	}
	return u.src.Block(pos)
}

// TileEntity возвращает сущность блока. Сущности холстов отдаются как TileView.
func (u UnpackingSource) TileEntity(pos cube.Pos) (block.TileEntity, bool) {
	te, ok := u.src.TileEntity(pos)
	if t, isTile := te.(*Tile); ok && isTile {
		return TileView{t: t}, true
	}
	return te, ok
}

// TileView сущность холста только на чтение
type TileView struct {
	t *Tile
}

func (v TileView) Pos() cube.Pos { return v.t.Pos() }

// Invalidate ничего не делает: отвязать сущность может только мир
func (v TileView) Invalidate() {}

func (v TileView) Detached() bool                   { return v.t.Detached() }
func (v TileView) PaintedBlockState() block.State   { return v.t.PaintedBlockState() }
func (v TileView) CanvasState() map[cube.Face]Color { return v.t.CanvasState() }
func (v TileView) Derived() DerivedState            { return v.t.Derived() }

func tileAt(src block.Source, pos cube.Pos) (*Tile, bool) {
	te, ok := src.TileEntity(pos)
	if !ok {
		return nil, false
	}
	switch t := te.(type) {
	case *Tile:
		return t, true
	case TileView:
		return t.t, true
	}
	return nil, false
}
