package websockets

import (
	"encoding/json"
	"inventory/config"
	"inventory/internal/database"
	"inventory/internal/events"
	"inventory/internal/logger"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	sendBufferSize = 64
	writeWait      = 10 * time.Second
	pingInterval   = 30 * time.Second
)

type Client struct {
	ID     string
	UserID string
	conn   *websocket.Conn
	send   chan []byte
}

// Manager pushes batch, test and catalog events to connected clients.
type Manager struct {
	log    logger.Logger
	config config.Config

	mu      sync.RWMutex
	clients map[string]*Client
}

func New(db database.DB, eventBus *events.EventBus, config config.Config) (*Manager, error) {
	log := logger.New("websockets").Function("New")
	if eventBus == nil {
		return nil, log.ErrMsg("event bus is nil")
	}

	manager := &Manager{
		log:     logger.New("websockets"),
		config:  config,
		clients: make(map[string]*Client),
	}

	for _, channel := range []string{
		events.ChannelBatches,
		events.ChannelTests,
		events.ChannelCatalog,
		events.ChannelBroadcast,
	} {
		eventBus.Subscribe(channel, manager.Broadcast)
	}

	log.Info("Websocket manager ready", "driver", db.Driver)
	return manager, nil
}

func (m *Manager) HandleWebSocket(c *websocket.Conn) {
	log := m.log.Function("HandleWebSocket")

	client := &Client{
		ID:   uuid.New().String(),
		conn: c,
		send: make(chan []byte, sendBufferSize),
	}
	if userID, ok := c.Locals("userID").(string); ok {
		client.UserID = userID
	}

	m.register(client)
	defer m.unregister(client.ID)

	done := make(chan struct{})
	go m.writePump(client, done)
	defer close(done)

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			log.Debug("client disconnected", "clientID", client.ID, "error", err)
			return
		}
	}
}

func (m *Manager) writePump(client *Client, done <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case msg := <-client.send:
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				m.log.Function("writePump").Debug("write failed", "clientID", client.ID, "error", err)
				return
			}
		case <-ticker.C:
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Broadcast queues event for every client. Slow clients drop the event
// rather than block the publisher.
func (m *Manager) Broadcast(event events.Event) {
	log := m.log.Function("Broadcast")

	payload, err := json.Marshal(event)
	if err != nil {
		log.Er("failed to marshal event", err, "eventID", event.ID)
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, client := range m.clients {
		select {
		case client.send <- payload:
		default:
			log.Warn("client buffer full, skipping event", "clientID", client.ID, "eventID", event.ID)
		}
	}
}

func (m *Manager) register(client *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[client.ID] = client
	m.log.Function("register").Info("Client connected", "clientID", client.ID, "total", len(m.clients))
}

func (m *Manager) unregister(clientID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.clients, clientID)
}

func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}
