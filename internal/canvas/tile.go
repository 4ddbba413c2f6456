package canvas

import (
	"maps"
	"sync"

	"github.com/annel0/paintblocks/internal/world/block"
	"github.com/df-mc/dragonfly/server/block/cube"
)

// Tile сущность блока холста. Хранит вычисляемую часть состояния:
// имитируемый блок и краску по граням.
type Tile struct {
	pos   cube.Pos
	world block.World // nil после Invalidate

	mu      sync.RWMutex
	painted block.State
	paint   map[cube.Face]Color
}

func newTile(w block.World, pos cube.Pos) *Tile {
	return &Tile{
		pos:     pos,
		world:   w,
		painted: block.Air,
		paint:   make(map[cube.Face]Color),
	}
}

// Pos возвращает позицию сущности
func (t *Tile) Pos() cube.Pos { return t.pos }

// Invalidate отвязывает сущность от мира. Вызывается миром при удалении блока.
func (t *Tile) Invalidate() {
	t.mu.Lock()
	t.world = nil
	t.mu.Unlock()
}

// World возвращает мир, к которому привязана сущность, или nil
func (t *Tile) World() block.World {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.world
}

// Detached сообщает, отвязана ли сущность от мира
func (t *Tile) Detached() bool {
	return t.World() == nil
}

// PaintedBlockState возвращает имитируемый блок или block.Air
func (t *Tile) PaintedBlockState() block.State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.painted
}

// SetPaintedBlock задаёт имитируемый блок.
// Холст не может имитировать холст: такое состояние сбрасывается в block.Air.
func (t *Tile) SetPaintedBlock(s block.State) {
	if !impersonable(s) {
		s = block.Air
	}
	t.mu.Lock()
	t.painted = s
	t.mu.Unlock()
}

// ApplyPaint окрашивает грань. Возвращает false для недопустимой грани.
func (t *Tile) ApplyPaint(color Color, face cube.Face) bool {
	if !validFace(face) {
		return false
	}
	t.mu.Lock()
	t.paint[face] = color
	t.mu.Unlock()
	return true
}

// CanvasState возвращает копию карты краски по граням
func (t *Tile) CanvasState() map[cube.Face]Color {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return maps.Clone(t.paint)
}

// Derived возвращает снимок вычисляемой части состояния
func (t *Tile) Derived() DerivedState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return DerivedState{Paint: maps.Clone(t.paint), Painted: t.painted}
}

// TileData сериализуемое представление сущности холста
type TileData struct {
	Painted block.State       `json:"painted"`
	Paint   map[string]uint32 `json:"paint,omitempty"`
}

// Save возвращает сериализуемый снимок сущности
func (t *Tile) Save() TileData {
	t.mu.RLock()
	defer t.mu.RUnlock()

	data := TileData{Painted: t.painted}
	if len(t.paint) > 0 {
		data.Paint = make(map[string]uint32, len(t.paint))
		for face, c := range t.paint {
			data.Paint[face.String()] = uint32(c)
		}
	}
	return data
}

// Load восстанавливает сущность из снимка. Неизвестные блоки и грани отбрасываются,
// так что имитируемый блок всегда либо block.Air, либо допустимый блок каталога.
func (t *Tile) Load(data TileData) {
	painted := data.Painted
	if !impersonable(painted) {
		painted = block.Air
	}

	paint := make(map[cube.Face]Color, len(data.Paint))
	for name, c := range data.Paint {
		if face, ok := FaceByName(name); ok {
			paint[face] = Color(c)
		}
	}

	t.mu.Lock()
	t.painted = painted
	t.paint = paint
	t.mu.Unlock()
}

func impersonable(s block.State) bool {
	if s.IsAir() || !block.IsValidBlockID(s.ID) {
		return false
	}
	_, isCanvas := s.Behavior().(*Block)
	return !isCanvas
}

// FaceByName ищет грань по имени (down, up, north, south, west, east)
func FaceByName(name string) (cube.Face, bool) {
	for _, f := range cube.Faces() {
		if f.String() == name {
			return f, true
		}
	}
	return 0, false
}
