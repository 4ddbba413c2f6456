package block

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/block/cube/trace"
	"github.com/go-gl/mathgl/mgl64"
)

// FullCube бокс полного блока в локальных координатах
var FullCube = cube.Box(0, 0, 0, 1, 1, 1)

// Props статическая таблица свойств блока, из которой Base отвечает на запросы
type Props struct {
	ID           BlockID
	Name         string
	Material     Material
	Opaque       bool
	Hardness     float64
	Resistance   float64
	LightOpacity int
	LightValue   int
	Tint         uint32 // 0 — без окраски
	Sound        SoundType
	WeakPower    int
	StrongPower  int
	Flammability int
	FireSpread   int
	Burning      bool
	FireSource   bool // горит вечно на верхней грани
	Fertile      bool
	Leaves       bool // удерживает листву
	Soil         []PlantType
	EnchantPower float64
	NoCollision  bool
}

// Base реализует Behavior по таблице Props.
// Конкретные блоки встраивают Base и переопределяют отличающиеся методы.
type Base struct {
	Props Props
}

// NewBase создаёт базовое поведение
func NewBase(p Props) Base {
	if p.Sound.Name == "" {
		p.Sound = SoundStone
	}
	return Base{Props: p}
}

func (b Base) ID() BlockID  { return b.Props.ID }
func (b Base) Name() string { return b.Props.Name }

func (b Base) Material(State) Material { return b.Props.Material }
func (b Base) IsOpaqueCube(State) bool { return b.Props.Opaque }

func (b Base) LightOpacity(State, Source, cube.Pos) int { return b.Props.LightOpacity }
func (b Base) LightValue(State, Source, cube.Pos) int   { return b.Props.LightValue }

func (b Base) PackedLightmapCoords(s State, src Source, pos cube.Pos) int {
	return PackLight(0, b.LightValue(s, src, pos))
}

func (b Base) ColorMultiplier(State, Source, cube.Pos, int) uint32 {
	if b.Props.Tint == 0 {
		return 0xFFFFFFFF
	}
	return b.Props.Tint
}

func (b Base) Hardness(State, World, cube.Pos) float64 { return b.Props.Hardness }

// PlayerRelativeHardness доля прочности, снимаемая игроком за тик
func (b Base) PlayerRelativeHardness(s State, p Player, w World, pos cube.Pos) float64 {
	return RelativeHardness(b.Hardness(s, w, pos), s, p)
}

// RelativeHardness формула скорости добычи для прочности hardness
func RelativeHardness(hardness float64, s State, p Player) float64 {
	if hardness < 0 {
		return 0
	}
	if hardness == 0 {
		return 1
	}
	if p.CanHarvest(s) {
		return p.DigSpeed(s) / hardness / 30
	}
	return p.DigSpeed(s) / hardness / 100
}

func (b Base) ExplosionResistance(World, cube.Pos, Entity, Explosion) float64 {
	return b.Props.Resistance
}

func (b Base) EnchantPowerBonus(World, cube.Pos) float64 { return b.Props.EnchantPower }

func (b Base) SoundType(State, World, cube.Pos, Entity) SoundType { return b.Props.Sound }

func (b Base) WeakPower(State, Source, cube.Pos, cube.Face) int   { return b.Props.WeakPower }
func (b Base) StrongPower(State, Source, cube.Pos, cube.Face) int { return b.Props.StrongPower }
func (b Base) ComparatorInput(State, World, cube.Pos) int         { return 0 }

func (b Base) BoundingBox(State, Source, cube.Pos) cube.BBox { return FullCube }

func (b Base) CollisionBoxes(State, Source, cube.Pos) []cube.BBox {
	if b.Props.NoCollision {
		return nil
	}
	return []cube.BBox{FullCube}
}

func (b Base) SelectedBox(_ State, _ World, pos cube.Pos) cube.BBox {
	return FullCube.Translate(pos.Vec3())
}

func (b Base) AddCollisionBoxes(s State, w World, pos cube.Pos, entityBox cube.BBox, boxes []cube.BBox, _ Entity) []cube.BBox {
	for _, box := range b.CollisionBoxes(s, w, pos) {
		boxes = AddBoxIfIntersects(pos, entityBox, boxes, box)
	}
	return boxes
}

func (b Base) RayTrace(_ State, _ World, pos cube.Pos, start, end mgl64.Vec3) RayTraceResult {
	return RayTraceBox(pos, start, end, FullCube)
}

func (b Base) ShouldSideBeRendered(_ State, src Source, pos cube.Pos, face cube.Face) bool {
	neighbour := pos.Side(face)
	return !src.Block(neighbour).DoesSideBlockRendering(src, neighbour, face.Opposite())
}

func (b Base) DoesSideBlockRendering(s State, _ Source, _ cube.Pos, _ cube.Face) bool {
	return b.IsOpaqueCube(s)
}

func (b Base) IsSideSolid(s State, _ Source, _ cube.Pos, _ cube.Face) bool {
	return b.IsOpaqueCube(s)
}

func (b Base) FaceShape(s State, _ Source, _ cube.Pos, _ cube.Face) FaceShape {
	if b.IsOpaqueCube(s) {
		return FaceShapeSolid
	}
	return FaceShapeUndefined
}

func (b Base) IsPassable(Source, cube.Pos) bool { return !b.Props.Material.BlocksMovement() }

func (b Base) CanSustainLeaves(State, Source, cube.Pos) bool { return b.Props.Leaves }

func (b Base) CanSustainPlant(_ State, _ Source, _ cube.Pos, face cube.Face, plant Plantable) bool {
	if face != cube.FaceUp || plant == nil {
		return false
	}
	for _, t := range b.Props.Soil {
		if t == plant.PlantType() {
			return true
		}
	}
	return false
}

func (b Base) IsFertile(World, cube.Pos) bool { return b.Props.Fertile }

func (b Base) Flammability(Source, cube.Pos, cube.Face) int    { return b.Props.Flammability }
func (b Base) FireSpreadSpeed(Source, cube.Pos, cube.Face) int { return b.Props.FireSpread }

func (b Base) IsFlammable(src Source, pos cube.Pos, face cube.Face) bool {
	return b.Flammability(src, pos, face) > 0
}

func (b Base) IsBurning(Source, cube.Pos) bool { return b.Props.Burning }

func (b Base) IsFireSource(_ World, _ cube.Pos, face cube.Face) bool {
	return b.Props.FireSource && face == cube.FaceUp
}

// OnFallenUpon по умолчанию наносит обычный урон от падения
func (b Base) OnFallenUpon(_ World, _ cube.Pos, e Entity, fallDistance float64) {
	e.Fall(fallDistance, 1)
}

// OnLanded по умолчанию гасит вертикальную скорость
func (b Base) OnLanded(_ World, e Entity) {
	v := e.Velocity()
	e.SetVelocity(mgl64.Vec3{v[0], 0, v[2]})
}

func (b Base) OnEntityWalk(World, cube.Pos, Entity) {}

// AddBoxIfIntersects добавляет локальный бокс, смещённый в pos, если он пересекает entityBox
func AddBoxIfIntersects(pos cube.Pos, entityBox cube.BBox, boxes []cube.BBox, box cube.BBox) []cube.BBox {
	world := box.Translate(pos.Vec3())
	if entityBox.IntersectsWith(world) {
		boxes = append(boxes, world)
	}
	return boxes
}

// RayTraceBox пересекает луч с локальным боксом блока в позиции pos
func RayTraceBox(pos cube.Pos, start, end mgl64.Vec3, box cube.BBox) RayTraceResult {
	res, ok := trace.BBoxIntercept(box.Translate(pos.Vec3()), start, end)
	if !ok {
		return RayTraceResult{}
	}
	return RayTraceResult{Hit: true, Pos: pos, Face: res.Face(), Point: res.Position()}
}
