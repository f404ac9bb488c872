package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"ai-memo-be/internal/model"
	"ai-memo-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// fanoutChannel is the Redis pub/sub channel used to reach clients
// connected to other instances. target "*" means broadcast.
const fanoutChannel = "notify_events"

type Hub struct {
	// UserID -> connections (one user may have several devices open)
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// nil when Redis is not configured; the hub then stays single-instance
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": client.UserID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.UserID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.UserID]) == 0 {
					delete(h.clients, client.UserID)
					h.logger.Info("Hub", "Client unregistered", map[string]interface{}{"user_id": client.UserID})
				}
			}
			h.mu.Unlock()
		}
	}
}

func envelope(notification model.Notification) []byte {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "notification",
		"data": notification,
	})
	return data
}

// Broadcast pushes a notification to every connected client, here and on
// other instances via Redis.
func (h *Hub) Broadcast(notification model.Notification) {
	data := envelope(notification)

	h.mu.RLock()
	var stalled []*Client
	for _, clients := range h.clients {
		for _, client := range clients {
			if !h.push(client, data) {
				stalled = append(stalled, client)
			}
		}
	}
	h.mu.RUnlock()
	h.drop(stalled)

	h.fanout("*", data)
}

// Send pushes a notification to one user's connections.
func (h *Hub) Send(userID uuid.UUID, notification model.Notification) {
	data := envelope(notification)

	h.mu.RLock()
	clients := h.clients[userID]
	h.mu.RUnlock()

	var stalled []*Client
	for _, client := range clients {
		if !h.push(client, data) {
			stalled = append(stalled, client)
		}
	}
	h.drop(stalled)

	// Always fan out: the user's other devices may sit on another instance
	h.fanout(userID.String(), data)
}

// push writes without blocking; reports whether the client kept up.
func (h *Hub) push(client *Client, data []byte) bool {
	select {
	case client.Send <- data:
		return true
	default:
		return false
	}
}

// drop hands stalled clients to the unregister loop, which is the only
// closer of Send. Must not be called while holding mu: the loop takes the
// write lock to remove the client.
func (h *Hub) drop(clients []*Client) {
	for _, client := range clients {
		h.logger.Warn("Hub", "Client buffer full, dropping connection", map[string]interface{}{"user_id": client.UserID})
		h.unregister <- client
	}
}

func (h *Hub) fanout(target string, data []byte) {
	if h.rdb == nil {
		return
	}
	payload, _ := json.Marshal(map[string]interface{}{
		"target_user_id": target,
		"message":        json.RawMessage(data),
	})
	h.rdb.Publish(context.Background(), fanoutChannel, payload)
}

// subscribeToRedis delivers messages published by other instances to the
// clients held locally.
func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, fanoutChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload struct {
			TargetUserID string          `json:"target_user_id"`
			Message      json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}

		if payload.TargetUserID == "*" {
			h.mu.RLock()
			var stalled []*Client
			for _, clients := range h.clients {
				for _, client := range clients {
					if !h.push(client, payload.Message) {
						stalled = append(stalled, client)
					}
				}
			}
			h.mu.RUnlock()
			h.drop(stalled)
			continue
		}

		uid, err := uuid.Parse(payload.TargetUserID)
		if err != nil {
			continue
		}

		h.mu.RLock()
		clients := h.clients[uid]
		h.mu.RUnlock()

		var stalled []*Client
		for _, client := range clients {
			if !h.push(client, payload.Message) {
				stalled = append(stalled, client)
			}
		}
		h.drop(stalled)
	}
}
