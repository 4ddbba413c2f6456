package canvas

import (
	"errors"
	"fmt"

	"github.com/annel0/paintblocks/internal/logging"
	"github.com/annel0/paintblocks/internal/world/block"
	"github.com/df-mc/dragonfly/server/block/cube"
)

// Outcome показывает, как был получен ответ на запрос к холсту
type Outcome uint8

const (
	// OutcomeDelegated ответ дал имитируемый блок
	OutcomeDelegated Outcome = iota
	// OutcomeNoTile в позиции нет сущности холста
	OutcomeNoTile
	// OutcomeNotPainted холст ничего не имитирует
	OutcomeNotPainted
	// OutcomeDetached сущность отвязана от мира
	OutcomeDetached
	// OutcomeFault делегированный запрос завершился паникой
	OutcomeFault
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDelegated:
		return "delegated"
	case OutcomeNoTile:
		return "no_tile"
	case OutcomeNotPainted:
		return "not_painted"
	case OutcomeDetached:
		return "detached"
	case OutcomeFault:
		return "fault"
	default:
		return "unknown"
	}
}

// ErrDelegateFault оборачивает панику делегированного запроса
var ErrDelegateFault = errors.New("delegated query failed")

// Result ответ на запрос вместе со способом его получения.
// Value определено только при Outcome == OutcomeDelegated.
type Result[T any] struct {
	Value   T
	Outcome Outcome
	Err     error
}

// Query запрос к имитируемому блоку, которому достаточно доступа на чтение
type Query[T any] func(painted block.State, src block.Source, pos cube.Pos) T

// WorldQuery запрос к имитируемому блоку, которому нужен полный доступ к миру
type WorldQuery[T any] func(painted block.State, w block.World, pos cube.Pos) T

// FaultHook вызывается при каждой ошибке делегирования
type FaultHook func(pos cube.Pos, query string, err error)

// Engine перенаправляет запросы холста имитируемому блоку.
// Ни один запрос через Engine не пропускает панику наружу.
type Engine struct {
	logger  *logging.Logger
	metrics *Metrics
	onFault FaultHook
}

// Option настраивает Engine
type Option func(*Engine)

// WithLogger задаёт логгер для отладочных сообщений об ошибках делегирования
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithMetrics включает счётчики исходов делегирования
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithFaultHook задаёт обработчик ошибок делегирования
func WithFaultHook(h FaultHook) Option {
	return func(e *Engine) { e.onFault = h }
}

// NewEngine создаёт движок делегирования. Без опций движок молчит.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Resolve выполняет запрос q от имени имитируемого блока холста в позиции pos.
// Имитируемый блок видит мир через UnpackingSource.
func Resolve[T any](e *Engine, src block.Source, pos cube.Pos, query string, q Query[T]) Result[T] {
	t, ok := tileAt(src, pos)
	if !ok {
		return finish(e, pos, query, Result[T]{Outcome: OutcomeNoTile})
	}
	painted := t.PaintedBlockState()
	if painted.IsAir() {
		return finish(e, pos, query, Result[T]{Outcome: OutcomeNotPainted})
	}
	if t.Detached() {
		return finish(e, pos, query, Result[T]{Outcome: OutcomeDetached})
	}

	view := Unpacking(src)
	value, err := guard(func() T { return q(painted, view, pos) })
	if err != nil {
		return finish(e, pos, query, Result[T]{Outcome: OutcomeFault, Err: err})
	}
	return finish(e, pos, query, Result[T]{Value: value, Outcome: OutcomeDelegated})
}

// ResolveWorld выполняет запрос q с полным доступом к миру.
// Используется для обратных вызовов, меняющих сущности.
func ResolveWorld[T any](e *Engine, w block.World, pos cube.Pos, query string, q WorldQuery[T]) Result[T] {
	t, ok := tileAt(w, pos)
	if !ok {
		return finish(e, pos, query, Result[T]{Outcome: OutcomeNoTile})
	}
	painted := t.PaintedBlockState()
	if painted.IsAir() {
		return finish(e, pos, query, Result[T]{Outcome: OutcomeNotPainted})
	}

	value, err := guard(func() T { return q(painted, w, pos) })
	if err != nil {
		return finish(e, pos, query, Result[T]{Outcome: OutcomeFault, Err: err})
	}
	return finish(e, pos, query, Result[T]{Value: value, Outcome: OutcomeDelegated})
}

// Forward возвращает ответ имитируемого блока или fallback
func Forward[T any](e *Engine, src block.Source, pos cube.Pos, query string, q Query[T], fallback T) T {
	if r := Resolve(e, src, pos, query, q); r.Outcome == OutcomeDelegated {
		return r.Value
	}
	return fallback
}

// ForwardFunc как Forward, но fallback вычисляется только при необходимости
func ForwardFunc[T any](e *Engine, src block.Source, pos cube.Pos, query string, q Query[T], fallback func() T) T {
	if r := Resolve(e, src, pos, query, q); r.Outcome == OutcomeDelegated {
		return r.Value
	}
	return runFallback(e, pos, query, fallback)
}

// ForwardWorld возвращает ответ имитируемого блока или fallback
func ForwardWorld[T any](e *Engine, w block.World, pos cube.Pos, query string, q WorldQuery[T], fallback T) T {
	if r := ResolveWorld(e, w, pos, query, q); r.Outcome == OutcomeDelegated {
		return r.Value
	}
	return fallback
}

// ForwardWorldFunc как ForwardWorld, но fallback вычисляется только при необходимости
func ForwardWorldFunc[T any](e *Engine, w block.World, pos cube.Pos, query string, q WorldQuery[T], fallback func() T) T {
	if r := ResolveWorld(e, w, pos, query, q); r.Outcome == OutcomeDelegated {
		return r.Value
	}
	return runFallback(e, pos, query, fallback)
}

// runFallback вычисляет ответ холста по умолчанию. Паника здесь также не выходит наружу.
func runFallback[T any](e *Engine, pos cube.Pos, query string, fn func() T) T {
	v, err := guard(fn)
	if err != nil {
		e.fault(pos, query+".fallback", err)
	}
	return v
}

// finish учитывает исход запроса и возвращает результат
func finish[T any](e *Engine, pos cube.Pos, query string, r Result[T]) Result[T] {
	e.observe(query, r.Outcome)
	if r.Outcome == OutcomeFault {
		e.fault(pos, query, r.Err)
	}
	return r
}

func (e *Engine) observe(query string, o Outcome) {
	if e.metrics != nil {
		e.metrics.observe(query, o)
	}
}

func (e *Engine) fault(pos cube.Pos, query string, err error) {
	e.logger.Debug("Делегирование %s в %v завершилось ошибкой: %v", query, pos, err)
	if e.onFault != nil {
		e.onFault(pos, query, err)
	}
}

// guard выполняет fn и превращает панику в ошибку
func guard[T any](fn func() T) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			v = zero
			if rerr, ok := r.(error); ok {
				err = fmt.Errorf("%w: %w", ErrDelegateFault, rerr)
			} else {
				err = fmt.Errorf("%w: %v", ErrDelegateFault, r)
			}
		}
	}()
	return fn(), nil
}
