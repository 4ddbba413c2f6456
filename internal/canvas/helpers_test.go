package canvas

import (
	"errors"
	"testing"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/annel0/paintblocks/internal/world"
	"github.com/annel0/paintblocks/internal/world/block"
	// Импортируем реализации блоков для регистрации в init()
	_ "github.com/annel0/paintblocks/internal/world/block/implementations"
)

const (
	cursedBlockID        block.BlockID = 950
	brokenOpacityBlockID block.BlockID = 951
)

var errCursed = errors.New("cursed block")

// cursedBlock непрозрачный блок, падающий на каждом запросе поведения.
// Обёртка проходит, а все делегированные запросы завершаются паникой.
type cursedBlock struct {
	block.Base
}

func (b *cursedBlock) LightOpacity(block.State, block.Source, cube.Pos) int { panic(errCursed) }
func (b *cursedBlock) LightValue(block.State, block.Source, cube.Pos) int   { panic(errCursed) }
func (b *cursedBlock) CollisionBoxes(block.State, block.Source, cube.Pos) []cube.BBox {
	panic(errCursed)
}
func (b *cursedBlock) BoundingBox(block.State, block.Source, cube.Pos) cube.BBox { panic(errCursed) }
func (b *cursedBlock) AddCollisionBoxes(block.State, block.World, cube.Pos, cube.BBox, []cube.BBox, block.Entity) []cube.BBox {
	panic(errCursed)
}
func (b *cursedBlock) RayTrace(block.State, block.World, cube.Pos, mgl64.Vec3, mgl64.Vec3) block.RayTraceResult {
	panic(errCursed)
}
func (b *cursedBlock) WeakPower(block.State, block.Source, cube.Pos, cube.Face) int { panic(errCursed) }
func (b *cursedBlock) StrongPower(block.State, block.Source, cube.Pos, cube.Face) int {
	panic(errCursed)
}
func (b *cursedBlock) ComparatorInput(block.State, block.World, cube.Pos) int { panic(errCursed) }
func (b *cursedBlock) Flammability(block.Source, cube.Pos, cube.Face) int     { panic(errCursed) }
func (b *cursedBlock) FireSpreadSpeed(block.Source, cube.Pos, cube.Face) int  { panic(errCursed) }
func (b *cursedBlock) IsFlammable(block.Source, cube.Pos, cube.Face) bool     { panic(errCursed) }
func (b *cursedBlock) SoundType(block.State, block.World, cube.Pos, block.Entity) block.SoundType {
	panic("no sound")
}
func (b *cursedBlock) IsSideSolid(block.State, block.Source, cube.Pos, cube.Face) bool {
	panic(errCursed)
}
func (b *cursedBlock) IsPassable(block.Source, cube.Pos) bool { panic(errCursed) }
func (b *cursedBlock) OnLanded(block.World, block.Entity)     { panic(errCursed) }

// brokenOpacityBlock падает уже при проверке прозрачности
type brokenOpacityBlock struct {
	block.Base
}

func (b *brokenOpacityBlock) IsOpaqueCube(block.State) bool { panic("opacity") }

func init() {
	block.Register(&cursedBlock{Base: block.NewBase(block.Props{
		ID: cursedBlockID, Name: "Cursed", Material: block.MaterialIron, Opaque: true,
	})})
	block.Register(&brokenOpacityBlock{Base: block.NewBase(block.Props{
		ID: brokenOpacityBlockID, Name: "BrokenOpacity", Material: block.MaterialRock, Opaque: true,
	})})
}

// faultLog собирает ошибки делегирования
type faultLog struct {
	queries []string
	errs    []error
}

func (f *faultLog) hook(_ cube.Pos, query string, err error) {
	f.queries = append(f.queries, query)
	f.errs = append(f.errs, err)
}

// recordingListener запоминает уведомления Painter
type recordingListener struct {
	wrapped []block.State
	painted []Color
}

func (l *recordingListener) CanvasWrapped(_ cube.Pos, painted block.State) {
	l.wrapped = append(l.wrapped, painted)
}

func (l *recordingListener) CanvasPainted(_ cube.Pos, _ cube.Face, color Color) {
	l.painted = append(l.painted, color)
}

type fixture struct {
	world   *world.WorldManager
	painter *Painter
	faults  *faultLog
}

// newFixture регистрирует оба варианта холста с новым движком
func newFixture(t *testing.T, opts ...PainterOption) *fixture {
	t.Helper()
	faults := &faultLog{}
	engine := NewEngine(WithFaultHook(faults.hook))
	p := Register(Variants{Solid: block.CanvasBlockID, Glass: block.CanvasGlassBlockID}, DefaultSettings(), engine, opts...)
	return &fixture{world: world.NewWorldManager(), painter: p, faults: faults}
}

func (f *fixture) tile(t *testing.T, pos cube.Pos) *Tile {
	t.Helper()
	tile, ok := tileAt(f.world, pos)
	if !ok {
		t.Fatalf("нет сущности холста в %v", pos)
	}
	return tile
}

// testEntity сущность для обратных вызовов
type testEntity struct {
	pos        mgl64.Vec3
	vel        mgl64.Vec3
	falls      []float64
	multiplier float64
}

func (e *testEntity) Position() mgl64.Vec3     { return e.pos }
func (e *testEntity) Velocity() mgl64.Vec3     { return e.vel }
func (e *testEntity) SetVelocity(v mgl64.Vec3) { e.vel = v }
func (e *testEntity) Fall(distance, damageMultiplier float64) {
	e.falls = append(e.falls, distance)
	e.multiplier = damageMultiplier
}

// testPlayer игрок с постоянной скоростью добычи
type testPlayer struct {
	testEntity
	speed   float64
	harvest bool
}

func (p *testPlayer) DigSpeed(block.State) float64 { return p.speed }
func (p *testPlayer) CanHarvest(block.State) bool  { return p.harvest }
