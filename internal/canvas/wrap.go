package canvas

import (
	"errors"
	"fmt"

	"github.com/annel0/paintblocks/internal/logging"
	"github.com/annel0/paintblocks/internal/world/block"
	"github.com/df-mc/dragonfly/server/block/cube"
)

// ErrNotCanvas возвращается, когда в позиции нет холста
var ErrNotCanvas = errors.New("position is not a canvas")

// Listener получает уведомления об успешных изменениях холстов
type Listener interface {
	CanvasWrapped(pos cube.Pos, painted block.State)
	CanvasPainted(pos cube.Pos, face cube.Face, color Color)
}

// Variants идентификаторы двух вариантов холста. Ноль — вариант не настроен.
type Variants struct {
	Solid block.BlockID
	Glass block.BlockID
}

// Painter оборачивает блоки в холсты и красит их грани
type Painter struct {
	engine   *Engine
	solid    *Block
	glass    *Block
	listener Listener
	metrics  *Metrics
	logger   *logging.Logger
}

// PainterOption настраивает Painter
type PainterOption func(*Painter)

// WithListener задаёт получателя уведомлений
func WithListener(l Listener) PainterOption {
	return func(p *Painter) { p.listener = l }
}

// WithPainterMetrics включает счётчики обёрток и окрасок
func WithPainterMetrics(m *Metrics) PainterOption {
	return func(p *Painter) { p.metrics = m }
}

// WithPainterLogger задаёт логгер операций
func WithPainterLogger(l *logging.Logger) PainterOption {
	return func(p *Painter) { p.logger = l }
}

// Register создаёт поведения настроенных вариантов холста,
// регистрирует их в каталоге блоков и возвращает Painter.
func Register(v Variants, s Settings, e *Engine, opts ...PainterOption) *Painter {
	if e == nil {
		e = NewEngine()
	}
	p := &Painter{engine: e}
	if v.Solid != block.AirBlockID {
		p.solid = NewBlock(v.Solid, "Canvas", s, e)
		block.Register(p.solid)
	}
	if v.Glass != block.AirBlockID {
		p.glass = NewBlock(v.Glass, "Canvas Glass", s, e)
		block.Register(p.glass)
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Engine возвращает движок делегирования
func (p *Painter) Engine() *Engine { return p.engine }

// Silent возвращает копию Painter без слушателя.
// Нужна для применения изменений, пришедших с других узлов, без повторной публикации.
func (p *Painter) Silent() *Painter {
	cp := *p
	cp.listener = nil
	return &cp
}

// Wrap превращает блок в позиции pos в холст, имитирующий прежний блок.
// Непрозрачные блоки получают сплошной вариант, остальные стеклянный.
// Воздух становится пустым стеклянным холстом.
// Повторный вызов на холсте ничего не делает и возвращает true.
// false означает, что мир не изменён.
func (p *Painter) Wrap(w block.World, pos cube.Pos) bool {
	prior := w.Block(pos)
	if IsCanvas(prior) {
		return true
	}
	if !prior.IsAir() && !impersonable(prior) {
		p.logger.Debug("Блок %v в %v не зарегистрирован, обёртка невозможна", prior, pos)
		return false
	}

	type priorInfo struct {
		opaque   bool
		material block.Material
	}
	info, err := guard(func() priorInfo {
		return priorInfo{opaque: prior.IsOpaqueCube(), material: prior.Material()}
	})
	if err != nil {
		p.logger.Warn("Не удалось обернуть %v в %v: %v", prior, pos, err)
		return false
	}

	variant := p.glass
	if info.opaque {
		variant = p.solid
	}
	if variant == nil {
		p.logger.Debug("Вариант холста для %v не настроен", prior)
		return false
	}

	state := WithImpersonation(CreateBlankState(DefaultOrientation), prior, info.material)
	w.SetBlock(pos, block.State{ID: variant.ID(), Meta: state.Persisted.Meta()})

	t, ok := tileAt(w, pos)
	if !ok {
		// Мир не создал сущность: возвращаем прежний блок
		w.SetBlock(pos, prior)
		p.logger.Warn("Мир не создал сущность холста в %v", pos)
		return false
	}
	t.SetPaintedBlock(prior)

	if p.metrics != nil {
		p.metrics.wrapped()
	}
	if p.listener != nil {
		p.listener.CanvasWrapped(pos, prior)
	}
	return true
}

// RecolorBlock красит грань холста цветом RGB с полной непрозрачностью.
// Для позиций без холста возвращает false.
func (p *Painter) RecolorBlock(src block.Source, pos cube.Pos, face cube.Face, rgb uint32) bool {
	color := Opaque(rgb)

	t, ok := tileAt(src, pos)
	applied := ok && t.ApplyPaint(color, face)

	if p.metrics != nil {
		p.metrics.painted(applied)
	}
	if applied && p.listener != nil {
		p.listener.CanvasPainted(pos, face, color)
	}
	return applied
}

// RecolorBlockDye красит грань цветом красителя из палитры
func (p *Painter) RecolorBlockDye(src block.Source, pos cube.Pos, face cube.Face, dye DyeColor) bool {
	meta, ok := ColorMetaFromDye(dye)
	if !ok {
		return false
	}
	return p.RecolorBlock(src, pos, face, meta.RGB)
}

// State возвращает полное состояние холста в позиции
func (p *Painter) State(src block.Source, pos cube.Pos) (CellState, error) {
	s := src.Block(pos)
	b, ok := s.Behavior().(*Block)
	if !ok {
		return CellState{}, fmt.Errorf("%v: %w", pos, ErrNotCanvas)
	}
	return b.ExtendedState(src, pos, s), nil
}

// IsCanvas сообщает, является ли состояние холстом
func IsCanvas(s block.State) bool {
	_, ok := s.Behavior().(*Block)
	return ok
}

// Material проекция состояния холста на вещество
func Material(s block.State) block.Material {
	return CodeToMaterial(DecodeMeta(s.Meta).Material)
}
