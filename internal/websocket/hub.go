package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/pkg/logger"
)

// clusterChannel carries patches between instances so a widget connected
// to one replica still sees patches resolved on another.
const clusterChannel = "cluster_events"

// Hub tracks the open widget connections per session. A session may have
// more than one connection (the same store open in two tabs).
type Hub struct {
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	rdb *redis.Client

	// instanceID tags cluster envelopes so an instance never re-delivers
	// its own publishes.
	instanceID string

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		instanceID: uuid.New().String(),
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
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.SessionID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.SessionID]) == 0 {
					delete(h.clients, client.SessionID)
					h.logger.Info("Hub", "Session fully disconnected", map[string]interface{}{"session_id": client.SessionID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// Send pushes a payload to every connection of one session, locally and
// via redis for connections held by other instances.
func (h *Hub) Send(sessionID string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Hub", "Failed to marshal outbound payload", map[string]interface{}{"error": err.Error()})
		return
	}

	h.deliverLocal(sessionID, data)

	if h.rdb != nil {
		envelope, _ := json.Marshal(map[string]interface{}{
			"origin":            h.instanceID,
			"target_session_id": sessionID,
			"message":           json.RawMessage(data),
		})
		h.rdb.Publish(context.Background(), clusterChannel, envelope)
	}
}

// deliverLocal pushes data to every local connection of a session. A
// client with a full buffer is handed to the unregister branch, which is
// the sole owner of closing Send.
func (h *Hub) deliverLocal(sessionID string, data []byte) {
	h.mu.RLock()
	clients := h.clients[sessionID]
	h.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"session_id": sessionID})
			h.unregister <- client
		}
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		h.handleClusterPayload([]byte(msg.Payload))
	}
}

// handleClusterPayload delivers one cluster envelope to local clients,
// ignoring envelopes this instance published itself.
func (h *Hub) handleClusterPayload(payload []byte) {
	var envelope struct {
		Origin          string          `json:"origin"`
		TargetSessionID string          `json:"target_session_id"`
		Message         json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		h.logger.Warn("Hub", "Malformed cluster event", map[string]interface{}{"error": err.Error()})
		return
	}
	if envelope.Origin == h.instanceID {
		return
	}

	h.deliverLocal(envelope.TargetSessionID, envelope.Message)
}
