package canvas

import (
	"maps"

	"github.com/annel0/paintblocks/internal/world/block"
	"github.com/df-mc/dragonfly/server/block/cube"
)

// DefaultOrientation ориентация холста, поставленного без направления
const DefaultOrientation = cube.FaceNorth

const (
	materialMask     = 0x0F
	orientationShift = 4
	orientationMask  = 0x07
)

// PersistedState часть состояния холста, хранимая в meta блока.
// Переживает сохранение и загрузку мира.
type PersistedState struct {
	Material    MaterialCode
	Orientation cube.Face
}

// Meta упаковывает состояние: младшие 4 бита код вещества, биты 4..6 ориентация
func (p PersistedState) Meta() uint8 {
	return uint8(p.Material)&materialMask | (uint8(p.Orientation)&orientationMask)<<orientationShift
}

// DecodeMeta распаковывает сохранённое состояние.
// Недопустимая ориентация заменяется ориентацией по умолчанию.
func DecodeMeta(meta uint8) PersistedState {
	o := cube.Face((meta >> orientationShift) & orientationMask)
	if o > cube.FaceEast {
		o = DefaultOrientation
	}
	return PersistedState{
		Material:    MaterialCode(meta & materialMask),
		Orientation: o,
	}
}

// DerivedState часть состояния, вычисляемая при каждом обращении
// из сущности блока. В meta не хранится.
type DerivedState struct {
	// Paint цвет по граням. Отсутствие ключа — грань не окрашена.
	Paint map[cube.Face]Color
	// Painted имитируемый блок. block.Air — имитации нет.
	Painted block.State
}

// CellState полное состояние клетки холста: сохраняемая и вычисляемая части
type CellState struct {
	Persisted PersistedState
	Derived   DerivedState
}

// IsPainted сообщает, имитирует ли холст какой-либо блок
func (c CellState) IsPainted() bool {
	return !c.Derived.Painted.IsAir()
}

// Material вещество, о котором сообщает холст
func (c CellState) Material() block.Material {
	return CodeToMaterial(c.Persisted.Material)
}

// CreateBlankState состояние нового холста: собственное вещество, без краски и имитации
func CreateBlankState(orientation cube.Face) CellState {
	return CellState{
		Persisted: PersistedState{
			Material:    Classify(BaseMaterial),
			Orientation: orientation,
		},
		Derived: DerivedState{
			Paint:   map[cube.Face]Color{},
			Painted: block.Air,
		},
	}
}

// WithImpersonation возвращает копию состояния, имитирующую блок painted.
// Код вещества пересчитывается по веществу имитируемого блока.
// Это единственная операция, меняющая код вещества после создания.
func WithImpersonation(state CellState, painted block.State, material block.Material) CellState {
	next := state.clone()
	next.Persisted.Material = Classify(material)
	next.Derived.Painted = painted
	return next
}

// ApplyPaint возвращает копию состояния с гранью face, окрашенной в color.
// Исходное состояние не меняется.
func ApplyPaint(state CellState, face cube.Face, color Color) (CellState, bool) {
	if !validFace(face) {
		return state, false
	}
	next := state.clone()
	next.Derived.Paint[face] = color
	return next, true
}

func (c CellState) clone() CellState {
	next := c
	next.Derived.Paint = make(map[cube.Face]Color, len(c.Derived.Paint))
	maps.Copy(next.Derived.Paint, c.Derived.Paint)
	return next
}

func validFace(face cube.Face) bool {
	return face >= cube.FaceDown && face <= cube.FaceEast
}
