package eventbus

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/paintblocks/internal/logging"
)

func TestMain(m *testing.M) {
	logging.LogDir = ""
	os.Exit(m.Run())
}

type collector struct {
	mu  sync.Mutex
	evs []*Envelope
}

func (c *collector) handle(_ context.Context, ev *Envelope) {
	c.mu.Lock()
	c.evs = append(c.evs, ev)
	c.mu.Unlock()
}

func (c *collector) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.evs)
}

func (c *collector) types() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.evs))
	for _, ev := range c.evs {
		out = append(out, ev.EventType)
	}
	return out
}

func envelope(t *testing.T, eventType string, priority int) *Envelope {
	ev, err := NewEnvelope(eventType, priority, map[string]int{"n": 1})
	require.NoError(t, err)
	return ev
}

func TestMemoryBus_PublishSubscribe(t *testing.T) {
	bus := NewMemoryBus(16)
	defer bus.Close()

	var all, painted collector
	_, err := bus.Subscribe(context.Background(), Filter{}, all.handle)
	require.NoError(t, err)
	_, err = bus.Subscribe(context.Background(), Filter{Types: []string{EventCanvasPainted}}, painted.handle)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, envelope(t, EventCanvasWrapped, 5)))
	require.NoError(t, bus.Publish(ctx, envelope(t, EventCanvasPainted, 3)))

	assert.Eventually(t, func() bool { return all.len() == 2 && painted.len() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{EventCanvasPainted}, painted.types())

	assert.Eventually(t, func() bool { return bus.Metrics().Consumed == 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, uint64(2), bus.Metrics().Published)
}

func TestMemoryBus_SourceFilter(t *testing.T) {
	bus := NewMemoryBus(4)
	defer bus.Close()

	var c collector
	_, err := bus.Subscribe(context.Background(), Filter{Sources: []string{"other"}}, c.handle)
	require.NoError(t, err)

	require.NoError(t, bus.Publish(context.Background(), envelope(t, EventCanvasWrapped, 5)))
	require.NoError(t, bus.Close())
	assert.Equal(t, 0, c.len())
}

func TestMemoryBus_Unsubscribe(t *testing.T) {
	bus := NewMemoryBus(4)
	defer bus.Close()

	var c collector
	sub, err := bus.Subscribe(context.Background(), Filter{}, c.handle)
	require.NoError(t, err)
	sub.Unsubscribe()
	sub.Unsubscribe()

	require.NoError(t, bus.Publish(context.Background(), envelope(t, EventCanvasWrapped, 5)))
	require.NoError(t, bus.Close())
	assert.Equal(t, 0, c.len())
}

func TestMemoryBus_DropsLowPriorityWhenFull(t *testing.T) {
	mb := &memoryBus{
		subscribers: make(map[int]subscriber),
		buffer:      make(chan *Envelope, 1),
		capacity:    1,
		done:        make(chan struct{}),
	}
	// dispatchLoop не запущен, буфер не освобождается

	ctx := context.Background()
	require.NoError(t, mb.Publish(ctx, envelope(t, EventCanvasWrapped, 5)))
	require.NoError(t, mb.Publish(ctx, envelope(t, EventCanvasPainted, 1)))

	tctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	err := mb.Publish(tctx, envelope(t, EventCanvasWrapped, 9))
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	stats := mb.Metrics()
	assert.Equal(t, uint64(1), stats.Published)
	assert.Equal(t, uint64(1), stats.Dropped)
	assert.Equal(t, 1, stats.InFlight)
}

func TestMemoryBus_PublishAfterClose(t *testing.T) {
	bus := NewMemoryBus(4)
	require.NoError(t, bus.Close())
	require.NoError(t, bus.Close())

	err := bus.Publish(context.Background(), envelope(t, EventCanvasWrapped, 5))
	assert.ErrorIs(t, err, ErrBusClosed)
}

func TestSubjectFor(t *testing.T) {
	assert.Equal(t, "canvas.CanvasPainted", subjectFor(EventCanvasPainted))
}

func TestLoggingListener(t *testing.T) {
	bus := NewMemoryBus(4)
	defer bus.Close()

	sub, err := StartLoggingListener(bus)
	require.NoError(t, err)
	defer sub.Unsubscribe()

	require.NoError(t, bus.Publish(context.Background(), envelope(t, EventCanvasWrapped, 5)))
	assert.Eventually(t, func() bool { return bus.Metrics().Consumed == 1 }, time.Second, 5*time.Millisecond)
}
