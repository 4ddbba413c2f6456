package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/google/uuid"

	"github.com/annel0/paintblocks/internal/canvas"
	"github.com/annel0/paintblocks/internal/logging"
	"github.com/annel0/paintblocks/internal/world/block"
)

// Типы событий холстов
const (
	EventCanvasWrapped = "CanvasWrapped"
	EventCanvasPainted = "CanvasPainted"
)

// SourceName имя сервиса в поле Envelope.Source
const SourceName = "paintblocks"

const (
	payloadVersion  = 1
	wrappedPriority = 5
	paintedPriority = 3
	publishTimeout  = 100 * time.Millisecond
)

// CanvasWrappedPayload полезная нагрузка события CanvasWrapped
type CanvasWrappedPayload struct {
	Pos     cube.Pos    `json:"pos"`
	Painted block.State `json:"painted"`
}

// CanvasPaintedPayload полезная нагрузка события CanvasPainted
type CanvasPaintedPayload struct {
	Pos   cube.Pos `json:"pos"`
	Face  string   `json:"face"`
	Color uint32   `json:"color"`
}

var (
	defaultMu  sync.RWMutex
	defaultBus EventBus
)

// Init задаёт шину для издателей холстов, созданных без своей шины.
// Init(nil) отключает публикацию для них.
func Init(bus EventBus) {
	defaultMu.Lock()
	defaultBus = bus
	defaultMu.Unlock()
}

// Publish отправляет событие в шину, заданную Init. Без шины событие отбрасывается.
func Publish(ctx context.Context, ev *Envelope) error {
	defaultMu.RLock()
	bus := defaultBus
	defaultMu.RUnlock()

	if bus == nil {
		return nil
	}
	return bus.Publish(ctx, ev)
}

// CanvasPublisher публикует изменения холстов в шину.
// Реализует canvas.Listener; ошибки публикации только логируются.
type CanvasPublisher struct {
	bus    EventBus // nil: шина из Init
	source string
	logger *logging.Logger
}

// PublisherOption настраивает CanvasPublisher
type PublisherOption func(*CanvasPublisher)

// WithSource задаёт Envelope.Source, например идентификатор узла
func WithSource(source string) PublisherOption {
	return func(p *CanvasPublisher) {
		if source != "" {
			p.source = source
		}
	}
}

var _ canvas.Listener = (*CanvasPublisher)(nil)

// NewCanvasPublisher создаёт издателя. При bus == nil события идут в шину,
// заданную Init на момент публикации.
func NewCanvasPublisher(bus EventBus, opts ...PublisherOption) *CanvasPublisher {
	p := &CanvasPublisher{bus: bus, source: SourceName, logger: logging.GetEventBusLogger()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CanvasWrapped публикует событие обёртки блока
func (p *CanvasPublisher) CanvasWrapped(pos cube.Pos, painted block.State) {
	p.publish(EventCanvasWrapped, wrappedPriority, CanvasWrappedPayload{Pos: pos, Painted: painted})
}

// CanvasPainted публикует событие окраски грани
func (p *CanvasPublisher) CanvasPainted(pos cube.Pos, face cube.Face, color canvas.Color) {
	p.publish(EventCanvasPainted, paintedPriority, CanvasPaintedPayload{Pos: pos, Face: face.String(), Color: uint32(color)})
}

func (p *CanvasPublisher) publish(eventType string, priority int, payload any) {
	ev, err := NewEnvelope(eventType, priority, payload)
	if err != nil {
		p.logger.Error("Не удалось сериализовать %s: %v", eventType, err)
		return
	}
	ev.Source = p.source

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if p.bus != nil {
		err = p.bus.Publish(ctx, ev)
	} else {
		err = Publish(ctx, ev)
	}
	if err != nil {
		p.logger.Warn("Не удалось опубликовать %s %s: %v", eventType, ev.ID, err)
	}
}

// NewEnvelope оборачивает полезную нагрузку в Envelope с новым UUID
func NewEnvelope(eventType string, priority int, payload any) (*Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", eventType, err)
	}
	return &Envelope{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Source:    SourceName,
		EventType: eventType,
		Version:   payloadVersion,
		Priority:  priority,
		Payload:   data,
	}, nil
}

// DecodePayload распаковывает полезную нагрузку события в v
func DecodePayload(ev *Envelope, v any) error {
	if err := json.Unmarshal(ev.Payload, v); err != nil {
		return fmt.Errorf("decode %s %s: %w", ev.EventType, ev.ID, err)
	}
	return nil
}
