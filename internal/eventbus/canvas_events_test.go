package eventbus

import (
	"context"
	"testing"
	"time"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/paintblocks/internal/canvas"
	"github.com/annel0/paintblocks/internal/world/block"
)

func TestCanvasPublisher_Wrapped(t *testing.T) {
	bus := NewMemoryBus(8)
	defer bus.Close()

	var c collector
	_, err := bus.Subscribe(context.Background(), Filter{Types: []string{EventCanvasWrapped}}, c.handle)
	require.NoError(t, err)

	p := NewCanvasPublisher(bus)
	painted := block.State{ID: block.StoneBlockID}
	p.CanvasWrapped(cube.Pos{1, 64, -3}, painted)

	require.Eventually(t, func() bool { return c.len() == 1 }, time.Second, 5*time.Millisecond)

	ev := c.evs[0]
	assert.Equal(t, SourceName, ev.Source)
	assert.Equal(t, 1, ev.Version)
	assert.Equal(t, wrappedPriority, ev.Priority)
	_, err = uuid.Parse(ev.ID)
	assert.NoError(t, err)

	var payload CanvasWrappedPayload
	require.NoError(t, DecodePayload(ev, &payload))
	assert.Equal(t, cube.Pos{1, 64, -3}, payload.Pos)
	assert.Equal(t, painted, payload.Painted)
}

func TestCanvasPublisher_Painted(t *testing.T) {
	bus := NewMemoryBus(8)
	defer bus.Close()

	var c collector
	_, err := bus.Subscribe(context.Background(), Filter{}, c.handle)
	require.NoError(t, err)

	NewCanvasPublisher(bus).CanvasPainted(cube.Pos{0, 1, 2}, cube.FaceUp, canvas.Opaque(0xB3312C))

	require.Eventually(t, func() bool { return c.len() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, EventCanvasPainted, c.evs[0].EventType)

	var payload CanvasPaintedPayload
	require.NoError(t, DecodePayload(c.evs[0], &payload))
	assert.Equal(t, cube.FaceUp.String(), payload.Face)
	assert.Equal(t, uint32(0xFFB3312C), payload.Color)
}

func TestCanvasPublisher_DefaultBus(t *testing.T) {
	Init(nil)
	publisher := NewCanvasPublisher(nil)
	assert.NotPanics(t, func() {
		publisher.CanvasPainted(cube.Pos{}, cube.FaceNorth, canvas.Opaque(0))
	}, "без шины событие отбрасывается")

	bus := NewMemoryBus(8)
	defer bus.Close()
	Init(bus)
	defer Init(nil)

	// Шина берётся в момент публикации, а не при создании издателя
	publisher.CanvasPainted(cube.Pos{}, cube.FaceNorth, canvas.Opaque(0))
	assert.Equal(t, uint64(1), bus.Metrics().Published)

	own := NewMemoryBus(8)
	defer own.Close()
	NewCanvasPublisher(own).CanvasWrapped(cube.Pos{}, block.State{ID: block.StoneBlockID})
	assert.Equal(t, uint64(1), own.Metrics().Published)
	assert.Equal(t, uint64(1), bus.Metrics().Published, "своя шина не дублирует события в общую")
}

func TestPublish_DefaultBus(t *testing.T) {
	Init(nil)
	ev, err := NewEnvelope(EventCanvasWrapped, wrappedPriority, CanvasWrappedPayload{})
	require.NoError(t, err)
	assert.NoError(t, Publish(context.Background(), ev))

	bus := NewMemoryBus(4)
	defer bus.Close()
	Init(bus)
	defer Init(nil)

	require.NoError(t, Publish(context.Background(), ev))
	assert.Equal(t, uint64(1), bus.Metrics().Published)
}

func TestCanvasPublisher_ClosedBusIsIgnored(t *testing.T) {
	bus := NewMemoryBus(8)
	require.NoError(t, bus.Close())

	assert.NotPanics(t, func() {
		NewCanvasPublisher(bus).CanvasWrapped(cube.Pos{}, block.State{ID: block.StoneBlockID})
	})
	assert.Equal(t, uint64(0), bus.Metrics().Published)
}

func TestDecodePayload_Invalid(t *testing.T) {
	ev := &Envelope{ID: "x", EventType: EventCanvasPainted, Payload: []byte("{")}
	var payload CanvasPaintedPayload
	assert.Error(t, DecodePayload(ev, &payload))
}

func TestCanvasPublisher_WithSource(t *testing.T) {
	bus := NewMemoryBus(8)
	defer bus.Close()

	var c collector
	_, err := bus.Subscribe(context.Background(), Filter{Sources: []string{"node-a"}}, c.handle)
	require.NoError(t, err)

	NewCanvasPublisher(bus, WithSource("node-a")).CanvasPainted(cube.Pos{}, cube.FaceUp, canvas.Opaque(1))
	NewCanvasPublisher(bus, WithSource("")).CanvasPainted(cube.Pos{}, cube.FaceUp, canvas.Opaque(2))

	require.Eventually(t, func() bool { return bus.Metrics().Published == 2 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return c.len() == 1 }, time.Second, 5*time.Millisecond)
	assert.Never(t, func() bool { return c.len() > 1 }, 50*time.Millisecond, 5*time.Millisecond)
}
