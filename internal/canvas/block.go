package canvas

import (
	"github.com/annel0/paintblocks/internal/world/block"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
)

// RenderLayer слой отрисовки блока
type RenderLayer uint8

const (
	LayerSolid RenderLayer = iota
	LayerCutout
	LayerTranslucent
)

// Settings собственные свойства холста, используемые, когда делегировать некому
type Settings struct {
	Hardness     float64
	Resistance   float64
	LightOpacity int
	LightValue   int
	Sound        block.SoundType
}

// DefaultSettings свойства холста по умолчанию
func DefaultSettings() Settings {
	return Settings{
		Hardness:   0.6,
		Resistance: 3,
		Sound:      block.SoundCloth,
	}
}

const (
	canvasFireSpread = 200
	noTint           = 0xFFFFFFFF
)

// Block поведение холста. Почти каждый запрос перенаправляется имитируемому блоку,
// а при невозможности делегирования отвечает собственное значение холста.
type Block struct {
	block.Base
	engine *Engine
}

var (
	_ block.Behavior     = (*Block)(nil)
	_ block.TileProvider = (*Block)(nil)
)

// NewBlock создаёт поведение холста с идентификатором id
func NewBlock(id block.BlockID, name string, s Settings, e *Engine) *Block {
	if e == nil {
		e = NewEngine()
	}
	return &Block{
		Base: block.NewBase(block.Props{
			ID:           id,
			Name:         name,
			Material:     BaseMaterial,
			Hardness:     s.Hardness,
			Resistance:   s.Resistance,
			LightOpacity: s.LightOpacity,
			LightValue:   s.LightValue,
			Sound:        s.Sound,
		}),
		engine: e,
	}
}

// Engine возвращает движок делегирования блока
func (b *Block) Engine() *Engine { return b.engine }

// NewTileEntity создаёт сущность холста при установке блока
func (b *Block) NewTileEntity(w block.World, pos cube.Pos, _ block.State) block.TileEntity {
	return newTile(w, pos)
}

// ExtendedState собирает полное состояние клетки: сохранённую часть из meta
// и вычисляемую из сущности. Без сущности вычисляемая часть пуста.
func (b *Block) ExtendedState(src block.Source, pos cube.Pos, s block.State) CellState {
	state := CellState{
		Persisted: DecodeMeta(s.Meta),
		Derived:   DerivedState{Paint: map[cube.Face]Color{}, Painted: block.Air},
	}
	if t, ok := tileAt(src, pos); ok {
		state.Derived = t.Derived()
	}
	return state
}

// Material возвращает категорию, сохранённую в meta
func (b *Block) Material(s block.State) block.Material {
	return CodeToMaterial(DecodeMeta(s.Meta).Material)
}

func (b *Block) IsOpaqueCube(block.State) bool { return false }
func (b *Block) IsFullCube() bool              { return false }
func (b *Block) CanProvidePower() bool         { return true }
func (b *Block) HasComparatorInput() bool      { return true }

// CanRenderInLayer холст рисуется в вырезанном и полупрозрачном слоях
func (b *Block) CanRenderInLayer(layer RenderLayer) bool {
	return layer == LayerCutout || layer == LayerTranslucent
}

// Свет

func (b *Block) LightOpacity(s block.State, src block.Source, pos cube.Pos) int {
	return Forward(b.engine, src, pos, "light_opacity", func(p block.State, src block.Source, pos cube.Pos) int {
		return p.LightOpacity(src, pos)
	}, b.Props.LightOpacity)
}

func (b *Block) LightValue(s block.State, src block.Source, pos cube.Pos) int {
	return Forward(b.engine, src, pos, "light_value", func(p block.State, src block.Source, pos cube.Pos) int {
		return p.LightValue(src, pos)
	}, b.Props.LightValue)
}

func (b *Block) PackedLightmapCoords(s block.State, src block.Source, pos cube.Pos) int {
	return ForwardFunc(b.engine, src, pos, "packed_lightmap", func(p block.State, src block.Source, pos cube.Pos) int {
		return p.PackedLightmapCoords(src, pos)
	}, func() int {
		return b.Base.PackedLightmapCoords(s, src, pos)
	})
}

func (b *Block) ColorMultiplier(s block.State, src block.Source, pos cube.Pos, tintIndex int) uint32 {
	return Forward(b.engine, src, pos, "color_multiplier", func(p block.State, src block.Source, pos cube.Pos) uint32 {
		return p.ColorMultiplier(src, pos, tintIndex)
	}, noTint)
}

// Сигналы

func (b *Block) WeakPower(s block.State, src block.Source, pos cube.Pos, face cube.Face) int {
	return Forward(b.engine, src, pos, "weak_power", func(p block.State, src block.Source, pos cube.Pos) int {
		return p.WeakPower(src, pos, face)
	}, 0)
}

func (b *Block) StrongPower(s block.State, src block.Source, pos cube.Pos, face cube.Face) int {
	return Forward(b.engine, src, pos, "strong_power", func(p block.State, src block.Source, pos cube.Pos) int {
		return p.StrongPower(src, pos, face)
	}, 0)
}

func (b *Block) ComparatorInput(s block.State, w block.World, pos cube.Pos) int {
	return ForwardWorld(b.engine, w, pos, "comparator_input", func(p block.State, w block.World, pos cube.Pos) int {
		return p.ComparatorInput(w, pos)
	}, 0)
}

// Добыча и взрывы

func (b *Block) Hardness(s block.State, w block.World, pos cube.Pos) float64 {
	return ForwardWorld(b.engine, w, pos, "hardness", func(p block.State, w block.World, pos cube.Pos) float64 {
		return p.Hardness(w, pos)
	}, b.Props.Hardness)
}

func (b *Block) PlayerRelativeHardness(s block.State, pl block.Player, w block.World, pos cube.Pos) float64 {
	return ForwardWorldFunc(b.engine, w, pos, "relative_hardness", func(p block.State, w block.World, pos cube.Pos) float64 {
		return p.PlayerRelativeHardness(pl, w, pos)
	}, func() float64 {
		return block.RelativeHardness(b.Props.Hardness, s, pl)
	})
}

func (b *Block) ExplosionResistance(w block.World, pos cube.Pos, exploder block.Entity, ex block.Explosion) float64 {
	return ForwardWorld(b.engine, w, pos, "explosion_resistance", func(p block.State, w block.World, pos cube.Pos) float64 {
		return p.Behavior().ExplosionResistance(w, pos, exploder, ex)
	}, b.Props.Resistance)
}

func (b *Block) EnchantPowerBonus(w block.World, pos cube.Pos) float64 {
	return ForwardWorld(b.engine, w, pos, "enchant_power", func(p block.State, w block.World, pos cube.Pos) float64 {
		return p.Behavior().EnchantPowerBonus(w, pos)
	}, 0)
}

func (b *Block) SoundType(s block.State, w block.World, pos cube.Pos, e block.Entity) block.SoundType {
	return ForwardWorld(b.engine, w, pos, "sound_type", func(p block.State, w block.World, pos cube.Pos) block.SoundType {
		return p.SoundType(w, pos, e)
	}, b.Props.Sound)
}

// Геометрия

func (b *Block) BoundingBox(s block.State, src block.Source, pos cube.Pos) cube.BBox {
	return Forward(b.engine, src, pos, "bounding_box", func(p block.State, src block.Source, pos cube.Pos) cube.BBox {
		return p.BoundingBox(src, pos)
	}, block.FullCube)
}

func (b *Block) CollisionBoxes(s block.State, src block.Source, pos cube.Pos) []cube.BBox {
	return ForwardFunc(b.engine, src, pos, "collision_boxes", func(p block.State, src block.Source, pos cube.Pos) []cube.BBox {
		return p.CollisionBoxes(src, pos)
	}, func() []cube.BBox {
		return []cube.BBox{block.FullCube}
	})
}

func (b *Block) SelectedBox(s block.State, w block.World, pos cube.Pos) cube.BBox {
	return ForwardWorldFunc(b.engine, w, pos, "selected_box", func(p block.State, w block.World, pos cube.Pos) cube.BBox {
		return p.SelectedBox(w, pos)
	}, func() cube.BBox {
		return block.FullCube.Translate(pos.Vec3())
	})
}

func (b *Block) AddCollisionBoxes(s block.State, w block.World, pos cube.Pos, entityBox cube.BBox, boxes []cube.BBox, e block.Entity) []cube.BBox {
	return ForwardWorldFunc(b.engine, w, pos, "collision_list", func(p block.State, w block.World, pos cube.Pos) []cube.BBox {
		return p.AddCollisionBoxes(w, pos, entityBox, boxes, e)
	}, func() []cube.BBox {
		return block.AddBoxIfIntersects(pos, entityBox, boxes, block.FullCube)
	})
}

func (b *Block) RayTrace(s block.State, w block.World, pos cube.Pos, start, end mgl64.Vec3) block.RayTraceResult {
	return ForwardWorldFunc(b.engine, w, pos, "ray_trace", func(p block.State, w block.World, pos cube.Pos) block.RayTraceResult {
		return p.RayTrace(w, pos, start, end)
	}, func() block.RayTraceResult {
		return block.RayTraceBox(pos, start, end, block.FullCube)
	})
}

// Грани

func (b *Block) ShouldSideBeRendered(s block.State, src block.Source, pos cube.Pos, face cube.Face) bool {
	return Forward(b.engine, src, pos, "side_rendered", func(p block.State, src block.Source, pos cube.Pos) bool {
		return p.ShouldSideBeRendered(src, pos, face)
	}, true)
}

func (b *Block) DoesSideBlockRendering(s block.State, src block.Source, pos cube.Pos, face cube.Face) bool {
	return Forward(b.engine, src, pos, "side_blocks_rendering", func(p block.State, src block.Source, pos cube.Pos) bool {
		return p.DoesSideBlockRendering(src, pos, face)
	}, true)
}

func (b *Block) IsSideSolid(s block.State, src block.Source, pos cube.Pos, face cube.Face) bool {
	return Forward(b.engine, src, pos, "side_solid", func(p block.State, src block.Source, pos cube.Pos) bool {
		return p.IsSideSolid(src, pos, face)
	}, true)
}

func (b *Block) FaceShape(s block.State, src block.Source, pos cube.Pos, face cube.Face) block.FaceShape {
	return Forward(b.engine, src, pos, "face_shape", func(p block.State, src block.Source, pos cube.Pos) block.FaceShape {
		return p.FaceShape(src, pos, face)
	}, block.FaceShapeSolid)
}

func (b *Block) IsPassable(src block.Source, pos cube.Pos) bool {
	return Forward(b.engine, src, pos, "passable", func(p block.State, src block.Source, pos cube.Pos) bool {
		return p.Behavior().IsPassable(src, pos)
	}, false)
}

// Растения

func (b *Block) CanSustainLeaves(s block.State, src block.Source, pos cube.Pos) bool {
	return Forward(b.engine, src, pos, "sustain_leaves", func(p block.State, src block.Source, pos cube.Pos) bool {
		return p.CanSustainLeaves(src, pos)
	}, false)
}

func (b *Block) CanSustainPlant(s block.State, src block.Source, pos cube.Pos, face cube.Face, plant block.Plantable) bool {
	return Forward(b.engine, src, pos, "sustain_plant", func(p block.State, src block.Source, pos cube.Pos) bool {
		return p.CanSustainPlant(src, pos, face, plant)
	}, false)
}

func (b *Block) IsFertile(w block.World, pos cube.Pos) bool {
	return ForwardWorld(b.engine, w, pos, "fertile", func(p block.State, w block.World, pos cube.Pos) bool {
		return p.Behavior().IsFertile(w, pos)
	}, false)
}

// Огонь

func (b *Block) Flammability(src block.Source, pos cube.Pos, face cube.Face) int {
	return Forward(b.engine, src, pos, "flammability", func(p block.State, src block.Source, pos cube.Pos) int {
		return p.Behavior().Flammability(src, pos, face)
	}, b.Props.Flammability)
}

func (b *Block) FireSpreadSpeed(src block.Source, pos cube.Pos, face cube.Face) int {
	return Forward(b.engine, src, pos, "fire_spread", func(p block.State, src block.Source, pos cube.Pos) int {
		return p.Behavior().FireSpreadSpeed(src, pos, face)
	}, canvasFireSpread)
}

func (b *Block) IsFlammable(src block.Source, pos cube.Pos, face cube.Face) bool {
	return Forward(b.engine, src, pos, "flammable", func(p block.State, src block.Source, pos cube.Pos) bool {
		return p.Behavior().IsFlammable(src, pos, face)
	}, true)
}

func (b *Block) IsBurning(src block.Source, pos cube.Pos) bool {
	return Forward(b.engine, src, pos, "burning", func(p block.State, src block.Source, pos cube.Pos) bool {
		return p.Behavior().IsBurning(src, pos)
	}, false)
}

func (b *Block) IsFireSource(w block.World, pos cube.Pos, face cube.Face) bool {
	return ForwardWorld(b.engine, w, pos, "fire_source", func(p block.State, w block.World, pos cube.Pos) bool {
		return p.Behavior().IsFireSource(w, pos, face)
	}, false)
}

// Сущности. Обратные вызовы ничего не возвращают, поэтому делегируются как запросы struct{}.

func (b *Block) OnFallenUpon(w block.World, pos cube.Pos, e block.Entity, fallDistance float64) {
	ForwardWorldFunc(b.engine, w, pos, "fallen_upon", func(p block.State, w block.World, pos cube.Pos) struct{} {
		p.Behavior().OnFallenUpon(w, pos, e, fallDistance)
		return struct{}{}
	}, func() struct{} {
		b.Base.OnFallenUpon(w, pos, e, fallDistance)
		return struct{}{}
	})
}

// OnLanded находит холст под сущностью и делегирует приземление
func (b *Block) OnLanded(w block.World, e block.Entity) {
	at := e.Position()
	pos := cube.PosFromVec3(mgl64.Vec3{at[0], at[1] - 0.2, at[2]})
	ForwardWorldFunc(b.engine, w, pos, "landed", func(p block.State, w block.World, pos cube.Pos) struct{} {
		p.Behavior().OnLanded(w, e)
		return struct{}{}
	}, func() struct{} {
		b.Base.OnLanded(w, e)
		return struct{}{}
	})
}

func (b *Block) OnEntityWalk(w block.World, pos cube.Pos, e block.Entity) {
	ForwardWorld(b.engine, w, pos, "entity_walk", func(p block.State, w block.World, pos cube.Pos) struct{} {
		p.Behavior().OnEntityWalk(w, pos, e)
		return struct{}{}
	}, struct{}{})
}
