package events

import (
	"context"
	"encoding/json"
	"fmt"
	"inventory/config"
	"inventory/internal/database"
	"inventory/internal/logger"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

const (
	ChannelBatches   = "batches"
	ChannelTests     = "tests"
	ChannelCatalog   = "catalog"
	ChannelBroadcast = "broadcast"
)

type Event struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Channel   string         `json:"channel,omitempty"`
	Action    string         `json:"action,omitempty"`
	UserID    string         `json:"userId,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewEvent fills in the ID and timestamp.
func NewEvent(channel, action, userID string, data map[string]any) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      channel,
		Channel:   channel,
		Action:    action,
		UserID:    userID,
		Data:      data,
		Timestamp: time.Now(),
	}
}

type Handler func(Event)

type envelope struct {
	Origin string `json:"origin"`
	Event  Event  `json:"event"`
}

// EventBus delivers events to in-process subscribers. With a cache client it
// also fans events out to other instances over valkey pub/sub.
type EventBus struct {
	client    database.CacheClient
	namespace string
	origin    string
	log       logger.Logger

	mu          sync.RWMutex
	subscribers map[string][]Handler

	cancel context.CancelFunc
	done   chan struct{}
}

func New(client database.CacheClient, config config.Config) *EventBus {
	env := config.Environment
	if env == "" {
		env = "development"
	}

	bus := &EventBus{
		client:      client,
		namespace:   fmt.Sprintf("inventory:%s:", env),
		origin:      uuid.New().String(),
		log:         logger.New("EventBus"),
		subscribers: make(map[string][]Handler),
	}

	if client != nil {
		ctx, cancel := context.WithCancel(context.Background())
		bus.cancel = cancel
		bus.done = make(chan struct{})
		go bus.receive(ctx)
	}

	return bus
}

func (b *EventBus) Subscribe(channel string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[channel] = append(b.subscribers[channel], handler)
}

func (b *EventBus) Publish(channel string, event Event) error {
	log := b.log.Function("Publish")

	if event.Channel == "" {
		event.Channel = channel
	}
	b.dispatch(channel, event)

	if b.client == nil {
		return nil
	}

	payload, err := json.Marshal(envelope{Origin: b.origin, Event: event})
	if err != nil {
		return log.Err("failed to marshal event", err, "channel", channel)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cmd := b.client.B().Publish().Channel(b.namespace + channel).Message(string(payload)).Build()
	if err := b.client.Do(ctx, cmd).Error(); err != nil {
		return log.Err("failed to publish event", err, "channel", channel)
	}

	return nil
}

func (b *EventBus) dispatch(channel string, event Event) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.subscribers[channel]...)
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
}

func (b *EventBus) receive(ctx context.Context) {
	defer close(b.done)
	log := b.log.Function("receive")

	subscribe := b.client.B().Psubscribe().Pattern(b.namespace + "*").Build()
	err := b.client.Receive(ctx, subscribe, func(msg valkey.PubSubMessage) {
		var env envelope
		if err := json.Unmarshal([]byte(msg.Message), &env); err != nil {
			log.Warn("dropping malformed event", "channel", msg.Channel, "error", err)
			return
		}
		if env.Origin == b.origin {
			return
		}
		b.dispatch(strings.TrimPrefix(msg.Channel, b.namespace), env.Event)
	})
	if err != nil && ctx.Err() == nil {
		log.Er("event subscription ended", err)
	}
}

func (b *EventBus) Close() error {
	if b.cancel != nil {
		b.cancel()
		<-b.done
	}
	return nil
}
