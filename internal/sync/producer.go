package sync

import (
	"context"

	"github.com/annel0/paintblocks/internal/canvas"
	"github.com/annel0/paintblocks/internal/eventbus"
	"github.com/annel0/paintblocks/internal/logging"
)

// Приоритеты изменений в пакете: обёртки важнее окрасок
const (
	wrapPriority  = 5
	paintPriority = 3
)

// SyncProducer подписывается на локальные события холстов и передаёт изменения BatchManager'у.
type SyncProducer struct {
	bm     *BatchManager
	ledger *ledger
	sub    eventbus.Subscription
	logger *logging.Logger
}

// NewSyncProducer слушает только события с Source == nodeID, чтобы
// изменения, применённые с других узлов, не уходили обратно.
func NewSyncProducer(bus eventbus.EventBus, nodeID string, bm *BatchManager, l *ledger) (*SyncProducer, error) {
	sp := &SyncProducer{bm: bm, ledger: l, logger: logging.GetSyncLogger()}
	filter := eventbus.Filter{
		Types:   []string{eventbus.EventCanvasWrapped, eventbus.EventCanvasPainted},
		Sources: []string{nodeID},
	}
	sub, err := bus.Subscribe(context.Background(), filter, sp.handle)
	if err != nil {
		return nil, err
	}
	sp.sub = sub
	return sp, nil
}

func (sp *SyncProducer) handle(_ context.Context, ev *eventbus.Envelope) {
	ch, err := changeFromEvent(ev)
	if err != nil {
		sp.logger.Warn("SyncProducer: %v", err)
		return
	}
	sp.ledger.observe(ch)
	sp.bm.AddChange(ch)
}

// changeFromEvent строит Change из события CanvasWrapped или CanvasPainted
func changeFromEvent(ev *eventbus.Envelope) (Change, error) {
	ch := Change{Timestamp: ev.Timestamp, SourceRegion: ev.Source}
	switch ev.EventType {
	case eventbus.EventCanvasWrapped:
		var p eventbus.CanvasWrappedPayload
		if err := eventbus.DecodePayload(ev, &p); err != nil {
			return Change{}, err
		}
		ch.Kind, ch.Pos, ch.Painted, ch.Priority = KindWrap, p.Pos, p.Painted, wrapPriority
	default:
		var p eventbus.CanvasPaintedPayload
		if err := eventbus.DecodePayload(ev, &p); err != nil {
			return Change{}, err
		}
		ch.Kind, ch.Pos, ch.Face, ch.Color, ch.Priority = KindPaint, p.Pos, p.Face, canvas.Color(p.Color), paintPriority
	}
	return ch, nil
}

func (sp *SyncProducer) Stop() { sp.sub.Unsubscribe() }
