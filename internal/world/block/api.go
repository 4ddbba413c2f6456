package block

import (
	"github.com/df-mc/dragonfly/server/block/cube"
)

// Source предоставляет блокам доступ к миру только на чтение.
// Используется в запросах рендера и физики, которые могут выполняться
// на снимке мира параллельно с симуляцией.
type Source interface {
	// Block возвращает состояние блока в позиции. Для пустых позиций — Air.
	Block(pos cube.Pos) State

	// TileEntity возвращает сущность блока в позиции, если она есть.
	TileEntity(pos cube.Pos) (TileEntity, bool)
}

// World полный доступ к миру. Передаётся только в запросы,
// которым разрешены побочные эффекты (приземление сущности и т.п.).
type World interface {
	Source

	// SetBlock устанавливает блок. Сущность блока создаётся через TileProvider.
	SetBlock(pos cube.Pos, s State)
}

// TileEntity сущность, привязанная к позиции блока
type TileEntity interface {
	Pos() cube.Pos
	// Invalidate вызывается миром при удалении блока
	Invalidate()
}

// TileProvider реализуется поведением блока, которому нужна сущность
type TileProvider interface {
	NewTileEntity(w World, pos cube.Pos, s State) TileEntity
}
