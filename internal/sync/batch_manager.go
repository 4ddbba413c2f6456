package sync

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/annel0/paintblocks/internal/eventbus"
	"github.com/annel0/paintblocks/internal/logging"
)

// EventSyncBatch тип события с пакетом изменений
const EventSyncBatch = "CanvasSyncBatch"

const (
	batchVersion   = 1
	batchPriority  = 5
	publishTimeout = 2 * time.Second
)

// BatchManager накапливает изменения и отправляет их пакетами через EventBus.
// Каждый узел имеет собственный экземпляр.
type BatchManager struct {
	mu       sync.Mutex
	buf      []Change
	capacity int

	flushEvery time.Duration
	bus        eventbus.EventBus
	source     string // идентификатор текущего узла
	compressor DeltaCompressor
	logger     *logging.Logger

	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewBatchManager создаёт менеджер с указанным лимитом буфера и интервалом отправки.
func NewBatchManager(bus eventbus.EventBus, source string, capacity int, flushEvery time.Duration, compressor DeltaCompressor) *BatchManager {
	if compressor == nil {
		compressor = NewPassthroughCompressor()
	}
	if capacity <= 0 {
		capacity = 256
	}
	if flushEvery <= 0 {
		flushEvery = time.Second
	}
	bm := &BatchManager{
		capacity:   capacity,
		flushEvery: flushEvery,
		bus:        bus,
		source:     source,
		compressor: compressor,
		logger:     logging.GetSyncLogger(),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	go bm.loop()
	return bm
}

// AddChange добавляет изменение в буфер.
// Изменение той же грани заменяет предыдущее; при переполнении
// вытесняется изменение с наименьшим приоритетом, если новое важнее.
func (bm *BatchManager) AddChange(ch Change) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	k := ch.key()
	for i, c := range bm.buf {
		if c.key() == k {
			bm.buf[i] = ch
			return
		}
	}

	if len(bm.buf) < bm.capacity {
		bm.buf = append(bm.buf, ch)
		return
	}

	lowIdx := -1
	lowPri := ch.Priority
	for i, c := range bm.buf {
		if c.Priority < lowPri {
			lowPri = c.Priority
			lowIdx = i
		}
	}
	if lowIdx < 0 {
		// все изменения не ниже нового — дропаем новый
		bm.logger.Debug("BatchManager: буфер заполнен, %v отброшено", ch)
		return
	}
	bm.buf[lowIdx] = ch
}

// Pending число изменений в буфере
func (bm *BatchManager) Pending() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	return len(bm.buf)
}

func (bm *BatchManager) loop() {
	defer close(bm.done)
	ticker := time.NewTicker(bm.flushEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			bm.Flush()
		case <-bm.quit:
			return
		}
	}
}

// Flush отсылает накопленные изменения единым сообщением.
func (bm *BatchManager) Flush() {
	bm.mu.Lock()
	if len(bm.buf) == 0 {
		bm.mu.Unlock()
		return
	}
	changes := make([]Change, len(bm.buf))
	copy(changes, bm.buf)
	bm.buf = bm.buf[:0]
	bm.mu.Unlock()

	// Окраска применима только к уже обёрнутому блоку
	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].Kind == KindWrap && changes[j].Kind != KindWrap
	})

	payload, err := bm.compressor.Compress(changes)
	if err != nil {
		bm.logger.Warn("BatchManager compress error: %v", err)
		return
	}

	env := &eventbus.Envelope{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Source:    bm.source,
		EventType: EventSyncBatch,
		Version:   batchVersion,
		Priority:  batchPriority,
		Payload:   payload,
		Metadata:  map[string]string{"compressor": bm.compressor.Name()},
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := bm.bus.Publish(ctx, env); err != nil {
		bm.logger.Warn("BatchManager publish error: %v", err)
		return
	}
	bm.logger.Debug("BatchManager: отправлено %d изменений (%d байт)", len(changes), len(payload))
}

// Stop завершает работу менеджера и отправляет оставшиеся изменения.
// Повторный вызов ничего не делает.
func (bm *BatchManager) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.quit)
		<-bm.done
		bm.Flush()
	})
}
