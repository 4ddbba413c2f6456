package eventbus

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticBus отдаёт заранее заданную статистику
type staticBus struct {
	stats Stats
}

func (b *staticBus) Publish(context.Context, *Envelope) error { return nil }
func (b *staticBus) Subscribe(context.Context, Filter, Handler) (Subscription, error) {
	return nil, nil
}
func (b *staticBus) Metrics() Stats { return b.stats }
func (b *staticBus) Close() error   { return nil }

func TestMetricsExporter_Update(t *testing.T) {
	reg := prometheus.NewRegistry()
	bus := &staticBus{stats: Stats{Published: 5, Consumed: 3, Dropped: 1, InFlight: 2}}
	me := NewMetricsExporter(bus, reg, reg)

	prev := me.update(Stats{})
	assert.Equal(t, bus.stats, prev)
	assert.Equal(t, 5.0, testutil.ToFloat64(me.published))
	assert.Equal(t, 3.0, testutil.ToFloat64(me.consumed))
	assert.Equal(t, 1.0, testutil.ToFloat64(me.dropped))
	assert.Equal(t, 2.0, testutil.ToFloat64(me.inflight))

	bus.stats = Stats{Published: 7, Consumed: 3, Dropped: 1}
	me.update(prev)
	assert.Equal(t, 7.0, testutil.ToFloat64(me.published), "счётчик растёт на дельту")
	assert.Equal(t, 0.0, testutil.ToFloat64(me.inflight))

	count, err := testutil.GatherAndCount(reg, "eventbus_messages_published_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetricsExporter_StartStop(t *testing.T) {
	reg := prometheus.NewRegistry()
	bus := &staticBus{stats: Stats{Published: 2}}
	me := NewMetricsExporter(bus, reg, reg)

	me.Start(time.Hour)
	me.Stop()
	me.Stop()
	assert.Equal(t, 2.0, testutil.ToFloat64(me.published), "последнее обновление при остановке")
}

func TestMetricsExporter_StopWithoutStart(t *testing.T) {
	reg := prometheus.NewRegistry()
	me := NewMetricsExporter(&staticBus{}, reg, reg)
	assert.NotPanics(t, me.Stop)
}
