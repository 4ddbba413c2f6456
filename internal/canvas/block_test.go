package canvas

import (
	"testing"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/paintblocks/internal/world/block"
)

func canvasAt(t *testing.T, f *fixture, pos cube.Pos) (*Block, block.State) {
	t.Helper()
	s := f.world.Block(pos)
	b, ok := s.Behavior().(*Block)
	require.True(t, ok, "в %v должен быть холст", pos)
	return b, s
}

func TestBlock_Statics(t *testing.T) {
	b := NewBlock(block.CanvasBlockID, "Canvas", DefaultSettings(), nil)
	s := block.Of(block.CanvasBlockID)

	assert.False(t, b.IsOpaqueCube(s))
	assert.False(t, b.IsFullCube())
	assert.True(t, b.CanProvidePower())
	assert.True(t, b.HasComparatorInput())
	assert.True(t, b.CanRenderInLayer(LayerCutout))
	assert.True(t, b.CanRenderInLayer(LayerTranslucent))
	assert.False(t, b.CanRenderInLayer(LayerSolid))
	assert.NotNil(t, b.Engine())
}

func TestBlock_FallbacksWithoutImpersonation(t *testing.T) {
	f := newFixture(t)
	pos := cube.Pos{0, 64, 0}
	f.world.SetBlock(pos, block.Of(block.CanvasBlockID))
	b, s := canvasAt(t, f, pos)
	settings := DefaultSettings()
	e := &testEntity{vel: mgl64.Vec3{1, -2, 3}}

	assert.Equal(t, 0, b.LightOpacity(s, f.world, pos))
	assert.Equal(t, 0, b.LightValue(s, f.world, pos))
	assert.Equal(t, block.PackLight(0, 0), b.PackedLightmapCoords(s, f.world, pos))
	assert.Equal(t, uint32(0xFFFFFFFF), b.ColorMultiplier(s, f.world, pos, 0))
	assert.Equal(t, 0, b.WeakPower(s, f.world, pos, cube.FaceUp))
	assert.Equal(t, 0, b.StrongPower(s, f.world, pos, cube.FaceUp))
	assert.Equal(t, 0, b.ComparatorInput(s, f.world, pos))
	assert.Equal(t, settings.Hardness, b.Hardness(s, f.world, pos))
	assert.Equal(t, settings.Resistance, b.ExplosionResistance(f.world, pos, nil, block.Explosion{}))
	assert.Equal(t, 0.0, b.EnchantPowerBonus(f.world, pos))
	assert.Equal(t, settings.Sound, b.SoundType(s, f.world, pos, nil))

	assert.Equal(t, block.FullCube, b.BoundingBox(s, f.world, pos))
	assert.Equal(t, []cube.BBox{block.FullCube}, b.CollisionBoxes(s, f.world, pos))
	assert.Equal(t, block.FullCube.Translate(pos.Vec3()), b.SelectedBox(s, f.world, pos))

	assert.True(t, b.ShouldSideBeRendered(s, f.world, pos, cube.FaceNorth))
	assert.True(t, b.DoesSideBlockRendering(s, f.world, pos, cube.FaceNorth))
	assert.True(t, b.IsSideSolid(s, f.world, pos, cube.FaceNorth))
	assert.Equal(t, block.FaceShapeSolid, b.FaceShape(s, f.world, pos, cube.FaceNorth))
	assert.False(t, b.IsPassable(f.world, pos))
	assert.False(t, b.CanSustainLeaves(s, f.world, pos))
	assert.False(t, b.CanSustainPlant(s, f.world, pos, cube.FaceUp, nil))
	assert.False(t, b.IsFertile(f.world, pos))

	assert.Equal(t, 0, b.Flammability(f.world, pos, cube.FaceUp))
	assert.Equal(t, 200, b.FireSpreadSpeed(f.world, pos, cube.FaceUp))
	assert.True(t, b.IsFlammable(f.world, pos, cube.FaceUp))
	assert.False(t, b.IsBurning(f.world, pos))
	assert.False(t, b.IsFireSource(f.world, pos, cube.FaceUp))

	b.OnFallenUpon(f.world, pos, e, 5)
	assert.Equal(t, []float64{5}, e.falls)
	assert.Equal(t, 1.0, e.multiplier)

	e.pos = mgl64.Vec3{0.5, 65, 0.5}
	b.OnLanded(f.world, e)
	assert.Equal(t, mgl64.Vec3{1, 0, 3}, e.vel)

	assert.Empty(t, f.faults.queries)
}

func TestBlock_RelativeHardnessFallback(t *testing.T) {
	f := newFixture(t)
	pos := cube.Pos{}
	f.world.SetBlock(pos, block.Of(block.CanvasBlockID))
	b, s := canvasAt(t, f, pos)

	p := &testPlayer{speed: 1.2, harvest: true}
	assert.InDelta(t, 1.2/0.6/30, b.PlayerRelativeHardness(s, p, f.world, pos), 1e-9)
}

func TestBlock_DelegatesToImpersonatedBlock(t *testing.T) {
	f := newFixture(t)

	glowPos := cube.Pos{0, 0, 0}
	f.world.SetBlock(glowPos, block.Of(block.GlowstoneBlockID))
	require.True(t, f.painter.Wrap(f.world, glowPos))
	b, s := canvasAt(t, f, glowPos)
	assert.Equal(t, 15, b.LightValue(s, f.world, glowPos))
	assert.Equal(t, 255, b.LightOpacity(s, f.world, glowPos))
	assert.Equal(t, block.PackLight(0, 15), b.PackedLightmapCoords(s, f.world, glowPos))
	assert.Equal(t, block.SoundGlass, b.SoundType(s, f.world, glowPos, nil))

	redPos := cube.Pos{2, 0, 0}
	f.world.SetBlock(redPos, block.Of(block.RedstoneBlockBlockID))
	require.True(t, f.painter.Wrap(f.world, redPos))
	b, s = canvasAt(t, f, redPos)
	assert.Equal(t, 15, b.WeakPower(s, f.world, redPos, cube.FaceUp))
	assert.Equal(t, 0, b.StrongPower(s, f.world, redPos, cube.FaceUp))

	firePos := cube.Pos{4, 0, 0}
	f.world.SetBlock(firePos, block.Of(block.NetherrackBlockID))
	require.True(t, f.painter.Wrap(f.world, firePos))
	b, _ = canvasAt(t, f, firePos)
	assert.True(t, b.IsFireSource(f.world, firePos, cube.FaceUp))
	assert.False(t, b.IsFireSource(f.world, firePos, cube.FaceDown))
	assert.False(t, b.IsFlammable(f.world, firePos, cube.FaceUp))

	woolPos := cube.Pos{6, 0, 0}
	f.world.SetBlock(woolPos, block.Of(block.WoolBlockID))
	require.True(t, f.painter.Wrap(f.world, woolPos))
	b, s = canvasAt(t, f, woolPos)
	assert.Equal(t, 60, b.Flammability(f.world, woolPos, cube.FaceUp))
	assert.Equal(t, 30, b.FireSpreadSpeed(f.world, woolPos, cube.FaceUp))
	assert.Equal(t, 0.8, b.Hardness(s, f.world, woolPos))
	assert.Equal(t, 4.0, b.ExplosionResistance(f.world, woolPos, nil, block.Explosion{}))

	assert.Empty(t, f.faults.queries)
}

func TestBlock_GrassTintForwarded(t *testing.T) {
	f := newFixture(t)
	pos := cube.Pos{}
	f.world.SetBlock(pos, block.Of(block.GrassBlockID))
	require.True(t, f.painter.Wrap(f.world, pos))
	b, s := canvasAt(t, f, pos)

	want := block.Of(block.GrassBlockID).ColorMultiplier(f.world, pos, 0)
	assert.Equal(t, want, b.ColorMultiplier(s, f.world, pos, 0))
	assert.NotEqual(t, uint32(0xFFFFFFFF), want)
}

func TestBlock_GlassNeighboursSeeEachOther(t *testing.T) {
	f := newFixture(t)
	left := cube.Pos{0, 0, 0}
	right := cube.Pos{1, 0, 0}
	for _, pos := range []cube.Pos{left, right} {
		f.world.SetBlock(pos, block.Of(block.GlassBlockID))
		require.True(t, f.painter.Wrap(f.world, pos))
	}

	b, s := canvasAt(t, f, left)
	assert.Equal(t, block.CanvasGlassBlockID, s.ID)
	assert.False(t, b.ShouldSideBeRendered(s, f.world, left, cube.FaceEast), "грань между стёклами скрыта")
	assert.True(t, b.ShouldSideBeRendered(s, f.world, left, cube.FaceWest))
}

func TestBlock_EntityCallbacksDelegated(t *testing.T) {
	f := newFixture(t)
	pos := cube.Pos{0, 10, 0}
	f.world.SetBlock(pos, block.Of(block.SlimeBlockID))
	require.True(t, f.painter.Wrap(f.world, pos))
	b, _ := canvasAt(t, f, pos)

	e := &testEntity{pos: mgl64.Vec3{0.5, 11, 0.5}, vel: mgl64.Vec3{0, -1, 0}}
	b.OnLanded(f.world, e)
	assert.Equal(t, mgl64.Vec3{0, 1, 0}, e.vel, "слизь подбрасывает сущность")

	b.OnFallenUpon(f.world, pos, e, 20)
	assert.Equal(t, 0.0, e.multiplier)

	e.vel = mgl64.Vec3{1, 0, 1}
	b.OnEntityWalk(f.world, pos, e)
	assert.InDelta(t, 0.4, e.vel[0], 1e-9)
}

func TestBlock_GeometryDelegated(t *testing.T) {
	f := newFixture(t)
	pos := cube.Pos{0, 0, 0}
	f.world.SetBlock(pos, block.Of(block.WaterBlockID))
	require.True(t, f.painter.Wrap(f.world, pos))
	b, s := canvasAt(t, f, pos)

	assert.Empty(t, b.CollisionBoxes(s, f.world, pos), "вода не сталкивается")
	assert.True(t, b.IsPassable(f.world, pos))

	hit := b.RayTrace(s, f.world, pos, mgl64.Vec3{0.5, 5, 0.5}, mgl64.Vec3{0.5, -5, 0.5})
	assert.False(t, hit.Hit)
}

// Каждая категория запросов переживает ошибку имитируемого блока
func TestBlock_FaultContainmentPerCategory(t *testing.T) {
	f := newFixture(t)
	pos := cube.Pos{8, 8, 8}
	f.world.SetBlock(pos, block.Of(cursedBlockID))
	require.True(t, f.painter.Wrap(f.world, pos))
	b, s := canvasAt(t, f, pos)
	assert.Equal(t, block.CanvasBlockID, s.ID, "проклятый блок непрозрачен")

	entityBox := cube.Box(0, 0, 0, 100, 100, 100)
	e := &testEntity{pos: mgl64.Vec3{8.5, 9, 8.5}, vel: mgl64.Vec3{0, -1, 0}}

	assert.NotPanics(t, func() {
		// Свет
		assert.Equal(t, 0, b.LightOpacity(s, f.world, pos))
		assert.Equal(t, 0, b.LightValue(s, f.world, pos))
		// Столкновения
		assert.Equal(t, []cube.BBox{block.FullCube}, b.CollisionBoxes(s, f.world, pos))
		assert.Equal(t, block.FullCube, b.BoundingBox(s, f.world, pos))
		assert.Equal(t, []cube.BBox{block.FullCube.Translate(pos.Vec3())},
			b.AddCollisionBoxes(s, f.world, pos, entityBox, nil, e))
		assert.True(t, b.RayTrace(s, f.world, pos, mgl64.Vec3{8.5, 20, 8.5}, mgl64.Vec3{8.5, 0, 8.5}).Hit)
		assert.True(t, b.IsSideSolid(s, f.world, pos, cube.FaceUp))
		assert.False(t, b.IsPassable(f.world, pos))
		// Сигналы
		assert.Equal(t, 0, b.WeakPower(s, f.world, pos, cube.FaceUp))
		assert.Equal(t, 0, b.StrongPower(s, f.world, pos, cube.FaceUp))
		assert.Equal(t, 0, b.ComparatorInput(s, f.world, pos))
		// Огонь
		assert.Equal(t, 0, b.Flammability(f.world, pos, cube.FaceUp))
		assert.Equal(t, 200, b.FireSpreadSpeed(f.world, pos, cube.FaceUp))
		assert.True(t, b.IsFlammable(f.world, pos, cube.FaceUp))
		// Звук
		assert.Equal(t, DefaultSettings().Sound, b.SoundType(s, f.world, pos, e))
		// Сущности
		b.OnLanded(f.world, e)
	})

	assert.Equal(t, mgl64.Vec3{0, 0, 0}, e.vel, "приземление по умолчанию гасит скорость")
	assert.Len(t, f.faults.queries, 16)
	for _, err := range f.faults.errs {
		assert.ErrorIs(t, err, ErrDelegateFault)
	}
}

func TestBlock_ExtendedState(t *testing.T) {
	f := newFixture(t)
	pos := cube.Pos{}
	f.world.SetBlock(pos, block.Of(block.PlanksBlockID))
	require.True(t, f.painter.Wrap(f.world, pos))
	require.True(t, f.painter.RecolorBlock(f.world, pos, cube.FaceSouth, 0x0000FF))
	b, s := canvasAt(t, f, pos)

	state := b.ExtendedState(f.world, pos, s)
	assert.Equal(t, Classify(block.MaterialWood), state.Persisted.Material)
	assert.Equal(t, DefaultOrientation, state.Persisted.Orientation)
	assert.Equal(t, block.Of(block.PlanksBlockID), state.Derived.Painted)
	assert.Equal(t, map[cube.Face]Color{cube.FaceSouth: Opaque(0x0000FF)}, state.Derived.Paint)

	// Без сущности вычисляемая часть пуста
	bare := b.ExtendedState(stubSource{}, pos, s)
	assert.False(t, bare.IsPainted())
	assert.Empty(t, bare.Derived.Paint)
	assert.Equal(t, block.MaterialWood, bare.Material())
}
