package implementations

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/annel0/paintblocks/internal/world/block"
)

// SlimeBehavior реализует блок слизи: гасит урон от падения и подбрасывает сущность
type SlimeBehavior struct {
	block.Base
}

// NewSlime создаёт блок слизи
func NewSlime() *SlimeBehavior {
	return &SlimeBehavior{Base: block.NewBase(block.Props{
		ID:       block.SlimeBlockID,
		Name:     "Slime",
		Material: block.MaterialClay,
		Sound:    block.SoundSlime,
	})}
}

// OnFallenUpon падение на слизь безопасно
func (b *SlimeBehavior) OnFallenUpon(_ block.World, _ cube.Pos, e block.Entity, fallDistance float64) {
	e.Fall(fallDistance, 0)
}

// OnLanded отражает вертикальную скорость
func (b *SlimeBehavior) OnLanded(_ block.World, e block.Entity) {
	v := e.Velocity()
	if v[1] < 0 {
		e.SetVelocity(mgl64.Vec3{v[0], -v[1], v[2]})
	}
}

// OnEntityWalk замедляет идущую сущность
func (b *SlimeBehavior) OnEntityWalk(_ block.World, _ cube.Pos, e block.Entity) {
	v := e.Velocity()
	if v[1] < 0.1 && v[1] > -0.1 {
		e.SetVelocity(mgl64.Vec3{v[0] * 0.4, v[1], v[2] * 0.4})
	}
}
