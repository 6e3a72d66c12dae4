package realtime

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

const (
	// PingInterval and PongWait are used for heartbeat (seconds).
	PingInterval = 30
	PongWait     = 60
)

// Publisher publishes booking events to Redis for cross-instance broadcast.
type Publisher interface {
	PublishBookingEvent(event string, payload []byte) error
}

// Subscriber subscribes to the booking event channel and invokes handler for
// incoming events. Returns a cancel function to stop the subscription.
type Subscriber interface {
	SubscribeBookings(handler func(event string, payload []byte)) (cancel func(), err error)
}

// Hub maintains the set of connected admin dashboards and fans booking
// events out to them. A Redis channel bridges instances, so an event raised
// on one server reaches dashboards connected to another.
type Hub struct {
	clients   map[string]*Client
	mu        sync.RWMutex
	logger    *zap.Logger
	redis     Publisher
	redisSub  Subscriber
	cancelSub func()
}

// NewHub creates a booking event hub.
func NewHub(logger *zap.Logger, redisPub Publisher, redisSub Subscriber) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:  make(map[string]*Client),
		logger:   logger,
		redis:    redisPub,
		redisSub: redisSub,
	}
}

// Register adds a client. Starts the Redis subscription with the first client.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	if len(h.clients) == 0 && h.redisSub != nil && h.cancelSub == nil {
		cancel, err := h.redisSub.SubscribeBookings(func(event string, payload []byte) {
			h.broadcastLocal(event, json.RawMessage(payload))
		})
		if err == nil {
			h.cancelSub = cancel
		} else {
			h.logger.Warn("booking feed subscribe failed", zap.Error(err))
		}
	}
	h.clients[c.ID] = c
	h.mu.Unlock()
	h.logger.Debug("admin feed client joined", zap.String("client_id", c.ID))
}

// Unregister removes a client. Cancels the Redis subscription when the last
// client leaves.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	delete(h.clients, c.ID)
	if len(h.clients) == 0 && h.cancelSub != nil {
		h.cancelSub()
		h.cancelSub = nil
	}
	h.mu.Unlock()
	h.logger.Debug("admin feed client left", zap.String("client_id", c.ID))
}

// Broadcast delivers a booking event to every connected dashboard. With Redis
// configured it publishes only; the subscription callback performs the local
// delivery once for all instances, avoiding duplicates.
func (h *Hub) Broadcast(event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if h.redis != nil {
		_ = h.redis.PublishBookingEvent(event, data)
		return
	}
	h.broadcastLocal(event, json.RawMessage(data))
}

// ClientCount returns the number of connected dashboards.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) broadcastLocal(event string, data json.RawMessage) {
	msg := WSMessage{Event: event, Data: data}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		select {
		case c.send <- msg:
		default:
			// buffer full, skip
		}
	}
}
