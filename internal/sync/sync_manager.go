package sync

import (
	"fmt"
	"time"

	"github.com/annel0/paintblocks/internal/canvas"
	"github.com/annel0/paintblocks/internal/eventbus"
	"github.com/annel0/paintblocks/internal/logging"
	"github.com/annel0/paintblocks/internal/world/block"
)

// SyncManager координирует работу компонентов синхронизации:
// BatchManager, SyncProducer, SyncConsumer.
type SyncManager struct {
	bm       *BatchManager
	producer *SyncProducer
	consumer *SyncConsumer
	ledger   *ledger
	logger   *logging.Logger
}

type SyncConfig struct {
	NodeID     string
	Bus        eventbus.EventBus
	World      block.World
	Painter    *canvas.Painter
	BatchSize  int
	FlushEvery time.Duration
	Compress   bool
	Resolver   ConflictResolver // nil — LWW
}

func NewSyncManager(cfg SyncConfig) (*SyncManager, error) {
	if cfg.NodeID == "" || cfg.Bus == nil || cfg.World == nil || cfg.Painter == nil {
		return nil, fmt.Errorf("sync: node id, bus, world and painter are required")
	}
	logger := logging.GetSyncLogger()

	compressor := NewPassthroughCompressor()
	if cfg.Compress {
		c, err := NewSmartCompressor()
		if err != nil {
			return nil, fmt.Errorf("sync: %w", err)
		}
		compressor = c
	}

	l := newLedger(cfg.Resolver)
	bm := NewBatchManager(cfg.Bus, cfg.NodeID, cfg.BatchSize, cfg.FlushEvery, compressor)
	producer, err := NewSyncProducer(cfg.Bus, cfg.NodeID, bm, l)
	if err != nil {
		bm.Stop()
		return nil, err
	}

	consumer, err := NewSyncConsumer(cfg.Bus, cfg.NodeID, compressor, NewWorldApplier(cfg.World, cfg.Painter), l)
	if err != nil {
		producer.Stop()
		bm.Stop()
		return nil, err
	}

	logger.Info("SyncManager инициализирован: node=%s, batch=%d, flush=%v, compressor=%s",
		cfg.NodeID, bm.capacity, bm.flushEvery, compressor.Name())

	return &SyncManager{
		bm:       bm,
		producer: producer,
		consumer: consumer,
		ledger:   l,
		logger:   logger,
	}, nil
}

// Flush немедленно отправляет накопленные изменения
func (sm *SyncManager) Flush() { sm.bm.Flush() }

func (sm *SyncManager) Stop() {
	sm.producer.Stop()
	sm.consumer.Stop()
	sm.bm.Stop()
	sm.logger.Info("SyncManager остановлен")
}
