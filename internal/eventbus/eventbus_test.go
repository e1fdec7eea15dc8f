package eventbus

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/voxel-engine/internal/vec"
)

func TestMemoryBus_PublishSubscribe(t *testing.T) {
	bus := NewMemoryBus(16)
	defer bus.Close()

	got := make(chan *Envelope, 4)
	_, err := bus.Subscribe(context.Background(), Filter{Types: []string{TypeBlockBroken}}, func(_ context.Context, ev *Envelope) {
		got <- ev
	})
	require.NoError(t, err)

	placed, err := NewEnvelope("test", TypeBlockPlaced, "s1", BlockEvent{Block: "Stone"})
	require.NoError(t, err)
	broken, err := NewEnvelope("test", TypeBlockBroken, "s1", BlockEvent{Position: vec.New(1, 2, 3), Block: "Air", Previous: "Dirt"})
	require.NoError(t, err)

	require.NoError(t, bus.Publish(context.Background(), placed))
	require.NoError(t, bus.Publish(context.Background(), broken))

	select {
	case ev := <-got:
		assert.Equal(t, TypeBlockBroken, ev.EventType)
		assert.Equal(t, "s1", ev.SessionID)

		var payload BlockEvent
		require.NoError(t, ev.Decode(&payload))
		assert.Equal(t, vec.New(1, 2, 3), payload.Position)
		assert.Equal(t, "Dirt", payload.Previous)
	case <-time.After(time.Second):
		t.Fatal("событие не доставлено")
	}

	// Фильтр отсекает BlockPlaced
	assert.Empty(t, got)
}

func TestMemoryBus_CloseDrainsAndRejects(t *testing.T) {
	bus := NewMemoryBus(8)

	delivered := 0
	_, err := bus.Subscribe(context.Background(), Filter{}, func(_ context.Context, _ *Envelope) {
		delivered++
	})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		ev, err := NewEnvelope("test", TypeFlyToggled, "s1", FlyEvent{Enabled: i%2 == 0})
		require.NoError(t, err)
		require.NoError(t, bus.Publish(context.Background(), ev))
	}

	require.NoError(t, bus.Close())
	assert.Equal(t, 3, delivered, "Close дожидается рассылки принятых событий")

	stats := bus.Metrics()
	assert.Equal(t, uint64(3), stats.Published)
	assert.Equal(t, uint64(3), stats.Consumed)

	ev, err := NewEnvelope("test", TypeFlyToggled, "s1", FlyEvent{})
	require.NoError(t, err)
	assert.ErrorIs(t, bus.Publish(context.Background(), ev), ErrBusClosed)
	assert.NoError(t, bus.Close())
}

func TestMemoryBus_Unsubscribe(t *testing.T) {
	bus := NewMemoryBus(4)

	delivered := 0
	sub, err := bus.Subscribe(context.Background(), Filter{}, func(_ context.Context, _ *Envelope) {
		delivered++
	})
	require.NoError(t, err)
	sub.Unsubscribe()

	ev, err := NewEnvelope("test", TypeBlockPlaced, "s1", BlockEvent{})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(context.Background(), ev))
	require.NoError(t, bus.Close())

	assert.Equal(t, 0, delivered)
}

func TestRegisterMetrics(t *testing.T) {
	bus := NewMemoryBus(4)
	reg := prometheus.NewRegistry()
	require.NoError(t, RegisterMetrics(reg, bus))

	ev, err := NewEnvelope("test", TypeBlockPlaced, "s1", BlockEvent{})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(context.Background(), ev))
	require.NoError(t, bus.Close())

	count, err := testutil.GatherAndCount(reg, "voxel_eventbus_messages_published_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() == "voxel_eventbus_messages_published_total" {
			assert.Equal(t, 1.0, mf.GetMetric()[0].GetCounter().GetValue())
		}
	}
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "voxel.events.BlockBroken", Subject(TypeBlockBroken))
}
