package implementations

import "github.com/annel0/paintblocks/internal/world/block"

// Регистрируем все типы блоков при импорте пакета
func init() {
	// Базовые блоки
	block.Register(&AirBehavior{})
	block.Register(NewStone())
	block.Register(NewGrass())
	block.Register(NewDirt())
	block.Register(NewSand())
	block.Register(NewWater())

	// Строительные блоки
	block.Register(NewPlanks())
	block.Register(NewGlass())
	block.Register(NewLeaves())
	block.Register(NewWool())
	block.Register(NewIce())
	block.Register(NewSlime())

	// Светящиеся и сигнальные
	block.Register(NewGlowstone())
	block.Register(NewRedstoneBlock())
	block.Register(NewNetherrack())
}
