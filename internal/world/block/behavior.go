package block

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
)

// Behavior определяет поведение блока: полный набор физических,
// визуальных и интерактивных запросов, которые мир задаёт блоку.
// Методы, принимающие Source, не должны изменять мир.
type Behavior interface {
	ID() BlockID
	Name() string

	// Свойства
	Material(s State) Material
	IsOpaqueCube(s State) bool
	LightOpacity(s State, src Source, pos cube.Pos) int
	LightValue(s State, src Source, pos cube.Pos) int
	PackedLightmapCoords(s State, src Source, pos cube.Pos) int
	ColorMultiplier(s State, src Source, pos cube.Pos, tintIndex int) uint32
	Hardness(s State, w World, pos cube.Pos) float64
	PlayerRelativeHardness(s State, p Player, w World, pos cube.Pos) float64
	ExplosionResistance(w World, pos cube.Pos, exploder Entity, explosion Explosion) float64
	EnchantPowerBonus(w World, pos cube.Pos) float64
	SoundType(s State, w World, pos cube.Pos, e Entity) SoundType

	// Сигналы
	WeakPower(s State, src Source, pos cube.Pos, face cube.Face) int
	StrongPower(s State, src Source, pos cube.Pos, face cube.Face) int
	ComparatorInput(s State, w World, pos cube.Pos) int

	// Геометрия. Боксы в локальных координатах блока, кроме SelectedBox и AddCollisionBoxes.
	BoundingBox(s State, src Source, pos cube.Pos) cube.BBox
	CollisionBoxes(s State, src Source, pos cube.Pos) []cube.BBox
	SelectedBox(s State, w World, pos cube.Pos) cube.BBox
	AddCollisionBoxes(s State, w World, pos cube.Pos, entityBox cube.BBox, boxes []cube.BBox, e Entity) []cube.BBox
	RayTrace(s State, w World, pos cube.Pos, start, end mgl64.Vec3) RayTraceResult

	// Грани
	ShouldSideBeRendered(s State, src Source, pos cube.Pos, face cube.Face) bool
	DoesSideBlockRendering(s State, src Source, pos cube.Pos, face cube.Face) bool
	IsSideSolid(s State, src Source, pos cube.Pos, face cube.Face) bool
	FaceShape(s State, src Source, pos cube.Pos, face cube.Face) FaceShape
	IsPassable(src Source, pos cube.Pos) bool

	// Растения
	CanSustainLeaves(s State, src Source, pos cube.Pos) bool
	CanSustainPlant(s State, src Source, pos cube.Pos, face cube.Face, plant Plantable) bool
	IsFertile(w World, pos cube.Pos) bool

	// Огонь
	Flammability(src Source, pos cube.Pos, face cube.Face) int
	FireSpreadSpeed(src Source, pos cube.Pos, face cube.Face) int
	IsFlammable(src Source, pos cube.Pos, face cube.Face) bool
	IsBurning(src Source, pos cube.Pos) bool
	IsFireSource(w World, pos cube.Pos, face cube.Face) bool

	// Сущности
	OnFallenUpon(w World, pos cube.Pos, e Entity, fallDistance float64)
	OnLanded(w World, e Entity)
	OnEntityWalk(w World, pos cube.Pos, e Entity)
}

// Entity сущность, взаимодействующая с блоком
type Entity interface {
	Position() mgl64.Vec3
	Velocity() mgl64.Vec3
	SetVelocity(v mgl64.Vec3)
	// Fall применяет урон от падения с указанным множителем
	Fall(distance, damageMultiplier float64)
}

// Player игрок, добывающий блок
type Player interface {
	Entity
	DigSpeed(s State) float64
	CanHarvest(s State) bool
}

// Explosion описывает взрыв для расчёта сопротивления
type Explosion struct {
	Center mgl64.Vec3
	Size   float64
}

// PlantType тип почвы, требуемой растением
type PlantType uint8

const (
	PlantPlains PlantType = iota
	PlantDesert
	PlantCave
	PlantWater
	PlantNether
	PlantCrop
)

// Plantable растение, проверяющее опору
type Plantable interface {
	PlantType() PlantType
}

// FaceShape форма грани для присоединения соседних блоков
type FaceShape uint8

const (
	FaceShapeSolid FaceShape = iota
	FaceShapeBowl
	FaceShapeCenterSmall
	FaceShapeMiddlePoleThin
	FaceShapeCenterBig
	FaceShapeMiddlePoleThick
	FaceShapeMiddlePole
	FaceShapeUndefined
)

// SoundType набор звуков блока
type SoundType struct {
	Name   string
	Volume float64
	Pitch  float64
}

var (
	SoundStone  = SoundType{Name: "stone", Volume: 1, Pitch: 1}
	SoundWood   = SoundType{Name: "wood", Volume: 1, Pitch: 1}
	SoundGround = SoundType{Name: "gravel", Volume: 1, Pitch: 1}
	SoundPlant  = SoundType{Name: "grass", Volume: 1, Pitch: 1}
	SoundMetal  = SoundType{Name: "metal", Volume: 1, Pitch: 1.5}
	SoundGlass  = SoundType{Name: "glass", Volume: 1, Pitch: 1}
	SoundCloth  = SoundType{Name: "cloth", Volume: 1, Pitch: 1}
	SoundSand   = SoundType{Name: "sand", Volume: 1, Pitch: 1}
	SoundSnow   = SoundType{Name: "snow", Volume: 1, Pitch: 1}
	SoundSlime  = SoundType{Name: "slime", Volume: 1, Pitch: 1}
)

// SoundByName ищет набор звуков по имени (для конфигурации)
func SoundByName(name string) (SoundType, bool) {
	for _, s := range []SoundType{SoundStone, SoundWood, SoundGround, SoundPlant, SoundMetal,
		SoundGlass, SoundCloth, SoundSand, SoundSnow, SoundSlime} {
		if s.Name == name {
			return s, true
		}
	}
	return SoundType{}, false
}

// RayTraceResult результат пересечения луча с блоком
type RayTraceResult struct {
	Hit   bool
	Pos   cube.Pos
	Face  cube.Face
	Point mgl64.Vec3
}

// PackLight упаковывает небесный и блочный свет в координаты карты освещения
func PackLight(sky, blockLight int) int {
	return sky<<20 | blockLight<<4
}
