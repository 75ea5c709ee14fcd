package websockets

import (
	"encoding/json"
	"inventory/config"
	"inventory/internal/database"
	"inventory/internal/events"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresEventBus(t *testing.T) {
	_, err := New(database.DB{}, nil, config.Config{})
	assert.Error(t, err)
}

func TestManager_BroadcastFromEventBus(t *testing.T) {
	bus := events.New(nil, config.Config{})
	manager, err := New(database.DB{}, bus, config.Config{})
	require.NoError(t, err)

	client := &Client{ID: "c1", send: make(chan []byte, 1)}
	manager.register(client)
	assert.Equal(t, 1, manager.ClientCount())

	event := events.NewEvent(events.ChannelBatches, "created", "", map[string]any{"prefix": "KA01"})
	require.NoError(t, bus.Publish(events.ChannelBatches, event))

	require.Len(t, client.send, 1)
	var got events.Event
	require.NoError(t, json.Unmarshal(<-client.send, &got))
	assert.Equal(t, event.ID, got.ID)
	assert.Equal(t, "KA01", got.Data["prefix"])

	manager.unregister("c1")
	assert.Equal(t, 0, manager.ClientCount())
}

func TestManager_BroadcastSkipsFullClient(t *testing.T) {
	manager, err := New(database.DB{}, events.New(nil, config.Config{}), config.Config{})
	require.NoError(t, err)

	client := &Client{ID: "slow", send: make(chan []byte)}
	manager.register(client)

	manager.Broadcast(events.NewEvent(events.ChannelTests, "created", "", nil))
	assert.Len(t, client.send, 0)
}
