package block

import (
	"fmt"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
)

// State состояние блока в мире: тип и компактные метаданные (как meta в чанке).
// State сравнимо по значению.
type State struct {
	ID   BlockID `json:"id"`
	Meta uint8   `json:"meta"`
}

// Air состояние пустой клетки. Служит и признаком «нет блока».
var Air = State{ID: AirBlockID}

// Of возвращает состояние блока по умолчанию
func Of(id BlockID) State {
	return State{ID: id}
}

// IsAir сообщает, является ли состояние воздухом
func (s State) IsAir() bool {
	return s == Air
}

// String возвращает отладочное представление состояния
func (s State) String() string {
	return fmt.Sprintf("%s#%d:%d", s.Behavior().Name(), s.ID, s.Meta)
}

// unknownBehavior отвечает за незарегистрированные ID
var unknownBehavior = NewBase(Props{Name: "Unknown", Material: MaterialRock, Opaque: true, LightOpacity: 255})

// Behavior возвращает поведение блока. Для незарегистрированных ID — поведение по умолчанию.
func (s State) Behavior() Behavior {
	if b, ok := Get(s.ID); ok {
		return b
	}
	return unknownBehavior
}

// Методы ниже перенаправляют запрос поведению блока с этим состоянием.

func (s State) Material() Material { return s.Behavior().Material(s) }
func (s State) IsOpaqueCube() bool { return s.Behavior().IsOpaqueCube(s) }

func (s State) LightOpacity(src Source, pos cube.Pos) int {
	return s.Behavior().LightOpacity(s, src, pos)
}

func (s State) LightValue(src Source, pos cube.Pos) int {
	return s.Behavior().LightValue(s, src, pos)
}

func (s State) PackedLightmapCoords(src Source, pos cube.Pos) int {
	return s.Behavior().PackedLightmapCoords(s, src, pos)
}

func (s State) ColorMultiplier(src Source, pos cube.Pos, tintIndex int) uint32 {
	return s.Behavior().ColorMultiplier(s, src, pos, tintIndex)
}

func (s State) Hardness(w World, pos cube.Pos) float64 {
	return s.Behavior().Hardness(s, w, pos)
}

func (s State) PlayerRelativeHardness(p Player, w World, pos cube.Pos) float64 {
	return s.Behavior().PlayerRelativeHardness(s, p, w, pos)
}

func (s State) SoundType(w World, pos cube.Pos, e Entity) SoundType {
	return s.Behavior().SoundType(s, w, pos, e)
}

func (s State) WeakPower(src Source, pos cube.Pos, face cube.Face) int {
	return s.Behavior().WeakPower(s, src, pos, face)
}

func (s State) StrongPower(src Source, pos cube.Pos, face cube.Face) int {
	return s.Behavior().StrongPower(s, src, pos, face)
}

func (s State) ComparatorInput(w World, pos cube.Pos) int {
	return s.Behavior().ComparatorInput(s, w, pos)
}

func (s State) BoundingBox(src Source, pos cube.Pos) cube.BBox {
	return s.Behavior().BoundingBox(s, src, pos)
}

func (s State) CollisionBoxes(src Source, pos cube.Pos) []cube.BBox {
	return s.Behavior().CollisionBoxes(s, src, pos)
}

func (s State) SelectedBox(w World, pos cube.Pos) cube.BBox {
	return s.Behavior().SelectedBox(s, w, pos)
}

func (s State) AddCollisionBoxes(w World, pos cube.Pos, entityBox cube.BBox, boxes []cube.BBox, e Entity) []cube.BBox {
	return s.Behavior().AddCollisionBoxes(s, w, pos, entityBox, boxes, e)
}

func (s State) RayTrace(w World, pos cube.Pos, start, end mgl64.Vec3) RayTraceResult {
	return s.Behavior().RayTrace(s, w, pos, start, end)
}

func (s State) ShouldSideBeRendered(src Source, pos cube.Pos, face cube.Face) bool {
	return s.Behavior().ShouldSideBeRendered(s, src, pos, face)
}

func (s State) DoesSideBlockRendering(src Source, pos cube.Pos, face cube.Face) bool {
	return s.Behavior().DoesSideBlockRendering(s, src, pos, face)
}

func (s State) IsSideSolid(src Source, pos cube.Pos, face cube.Face) bool {
	return s.Behavior().IsSideSolid(s, src, pos, face)
}

func (s State) FaceShape(src Source, pos cube.Pos, face cube.Face) FaceShape {
	return s.Behavior().FaceShape(s, src, pos, face)
}

func (s State) CanSustainLeaves(src Source, pos cube.Pos) bool {
	return s.Behavior().CanSustainLeaves(s, src, pos)
}

func (s State) CanSustainPlant(src Source, pos cube.Pos, face cube.Face, plant Plantable) bool {
	return s.Behavior().CanSustainPlant(s, src, pos, face, plant)
}
