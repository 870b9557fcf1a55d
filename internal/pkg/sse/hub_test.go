package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesTopicSubscribers(t *testing.T) {
	hub := NewHub()
	ch, cleanup := hub.Subscribe("ledger")
	defer cleanup()
	other, cleanupOther := hub.Subscribe("other")
	defer cleanupOther()

	hub.Publish("ledger", Event{Event: "transaction.created", Data: "x"})

	select {
	case ev := <-ch:
		assert.Equal(t, "ledger", ev.Topic)
		assert.Equal(t, "transaction.created", ev.Event)
	default:
		t.Fatal("expected an event")
	}
	assert.Len(t, other, 0)
}

func TestHub_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub(WithBuffer(1))
	ch, cleanup := hub.Subscribe("ledger")
	defer cleanup()

	hub.Publish("ledger", Event{Event: "a"})
	hub.Publish("ledger", Event{Event: "b"})

	require.Len(t, ch, 1)
	assert.Equal(t, "a", (<-ch).Event)
}

func TestHub_CleanupClosesChannelAndReportsCount(t *testing.T) {
	var counts []int
	hub := NewHub(WithSubscriberGauge(func(total int) { counts = append(counts, total) }))

	ch, cleanup := hub.Subscribe("ledger")
	assert.Equal(t, 1, hub.TotalSubscribers())

	cleanup()
	cleanup()

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, hub.SubscriberCount("ledger"))
	assert.Equal(t, []int{1, 0}, counts)
}
