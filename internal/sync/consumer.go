package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/annel0/paintblocks/internal/canvas"
	"github.com/annel0/paintblocks/internal/eventbus"
	"github.com/annel0/paintblocks/internal/logging"
	"github.com/annel0/paintblocks/internal/world/block"
)

var (
	errUnknownKind = errors.New("unknown change kind")
	errUnknownFace = errors.New("unknown face")
	errRejected    = errors.New("change rejected by world")
)

// Applier применяет удалённые изменения к локальному миру
type Applier interface {
	Apply(ch Change) error
}

// WorldApplier применяет изменения через Painter без слушателя,
// поэтому они не публикуются повторно.
type WorldApplier struct {
	world   block.World
	painter *canvas.Painter
}

// NewWorldApplier создаёт применитель для мира w
func NewWorldApplier(w block.World, p *canvas.Painter) *WorldApplier {
	return &WorldApplier{world: w, painter: p.Silent()}
}

func (a *WorldApplier) Apply(ch Change) error {
	switch ch.Kind {
	case KindWrap:
		cur := a.world.Block(ch.Pos)
		if canvas.IsCanvas(cur) {
			return nil
		}
		if cur != ch.Painted {
			a.world.SetBlock(ch.Pos, ch.Painted)
		}
		if !a.painter.Wrap(a.world, ch.Pos) {
			if cur != ch.Painted {
				a.world.SetBlock(ch.Pos, cur)
			}
			return fmt.Errorf("wrap %v: %w", ch.Pos, errRejected)
		}
	case KindPaint:
		face, ok := canvas.FaceByName(ch.Face)
		if !ok {
			return fmt.Errorf("%q: %w", ch.Face, errUnknownFace)
		}
		if !a.painter.RecolorBlock(a.world, ch.Pos, face, ch.Color.RGB()) {
			return fmt.Errorf("paint %v %s: %w", ch.Pos, ch.Face, errRejected)
		}
	default:
		return fmt.Errorf("%q: %w", ch.Kind, errUnknownKind)
	}
	return nil
}

// SyncConsumer слушает пакеты других узлов и применяет изменения.
type SyncConsumer struct {
	nodeID     string
	sub        eventbus.Subscription
	compressor DeltaCompressor
	applier    Applier
	ledger     *ledger
	logger     *logging.Logger
}

func NewSyncConsumer(bus eventbus.EventBus, nodeID string, compressor DeltaCompressor, applier Applier, l *ledger) (*SyncConsumer, error) {
	if compressor == nil {
		compressor = NewPassthroughCompressor()
	}
	sc := &SyncConsumer{
		nodeID:     nodeID,
		compressor: compressor,
		applier:    applier,
		ledger:     l,
		logger:     logging.GetSyncLogger(),
	}
	sub, err := bus.Subscribe(context.Background(), eventbus.Filter{Types: []string{EventSyncBatch}}, sc.handle)
	if err != nil {
		return nil, err
	}
	sc.sub = sub
	return sc, nil
}

func (sc *SyncConsumer) handle(_ context.Context, ev *eventbus.Envelope) {
	if ev.Source == sc.nodeID {
		return
	}
	sc.logger.Debug("SyncConsumer: batch size=%d bytes from %s", len(ev.Payload), ev.Source)

	changes, err := sc.compressor.Decompress(ev.Payload)
	if err != nil {
		sc.logger.Warn("SyncConsumer decompress error from %s: %v", ev.Source, err)
		return
	}

	applied := 0
	for _, ch := range changes {
		if !sc.ledger.admit(ch) {
			sc.logger.Trace("SyncConsumer: устаревшее изменение %v", ch)
			continue
		}
		if err := sc.applier.Apply(ch); err != nil {
			sc.logger.Warn("SyncConsumer: ошибка применения %v: %v", ch, err)
			continue
		}
		applied++
	}
	sc.logger.Debug("SyncConsumer: применено %d из %d изменений от %s", applied, len(changes), ev.Source)
}

func (sc *SyncConsumer) Stop() { sc.sub.Unsubscribe() }
