package feed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryDeliversOnlyToMatchingEvent(t *testing.T) {
	m := NewMemory()
	var a, b int
	unsubA, err := m.Subscribe("evt-a", func() { a++ })
	require.NoError(t, err)
	defer unsubA()
	unsubB, err := m.Subscribe("evt-b", func() { b++ })
	require.NoError(t, err)
	defer unsubB()

	require.NoError(t, m.Publish(context.Background(), "evt-a"))
	require.NoError(t, m.Publish(context.Background(), "evt-a"))

	assert.Equal(t, 2, a)
	assert.Equal(t, 0, b)
}

func TestMemoryUnsubscribeIsDeterministic(t *testing.T) {
	m := NewMemory()
	calls := 0
	unsub, err := m.Subscribe("evt", func() { calls++ })
	require.NoError(t, err)
	assert.Equal(t, 1, m.Subscribers("evt"))

	unsub()
	unsub()
	assert.Equal(t, 0, m.Subscribers("evt"))

	require.NoError(t, m.Publish(context.Background(), "evt"))
	assert.Equal(t, 0, calls)
}

func TestRoutingKey(t *testing.T) {
	assert.Equal(t, "booking.changed.abc", RoutingKey("abc"))
}
