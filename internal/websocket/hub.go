package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"

	"github.com/ronilson-users/backend-work-v2/internal/model"
)

// Client represents one WebSocket subscriber of a work session.
type Client struct {
	SessionID string
	Conn      *websocket.Conn
	Send      chan []byte
}

// Hub maintains active WebSocket connections grouped by work-session
// id and fans route-progress updates out to them.
type Hub struct {
	clients map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *BroadcastMessage

	log *zap.Logger
	mu  sync.RWMutex
}

// BroadcastMessage targets every subscriber of one session.
type BroadcastMessage struct {
	SessionID string
	Message   []byte
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *BroadcastMessage, 256),
		log:        log,
	}
}

// Run starts the hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.SessionID] == nil {
				h.clients[client.SessionID] = make(map[*Client]bool)
			}
			h.clients[client.SessionID][client] = true
			h.mu.Unlock()
			h.log.Debug("client registered", zap.String("sessionId", client.SessionID))

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.SessionID]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.Send)
					if len(clients) == 0 {
						delete(h.clients, client.SessionID)
					}
				}
			}
			h.mu.Unlock()
			h.log.Debug("client unregistered", zap.String("sessionId", client.SessionID))

		case msg := <-h.broadcast:
			h.mu.RLock()
			if clients, ok := h.clients[msg.SessionID]; ok {
				for client := range clients {
					select {
					case client.Send <- msg.Message:
					default:
						close(client.Send)
						delete(clients, client)
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// routeProgressMessage is the wire form of a progress update.
type routeProgressMessage struct {
	Type      string              `json:"type"`
	SessionID string              `json:"sessionId"`
	Progress  model.RouteProgress `json:"routeProgress"`
	At        time.Time           `json:"at"`
}

// BroadcastRouteProgress pushes a route-progress snapshot to every
// subscriber of the session.
func (h *Hub) BroadcastRouteProgress(sessionID string, progress model.RouteProgress) {
	msg := routeProgressMessage{
		Type:      "route_progress",
		SessionID: sessionID,
		Progress:  progress,
		At:        time.Now(),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error("marshal progress message", zap.Error(err))
		return
	}
	h.broadcast <- &BroadcastMessage{SessionID: sessionID, Message: data}
}

// HandleConnection pumps messages to one subscriber until the
// connection drops.
func (h *Hub) HandleConnection(conn *websocket.Conn, sessionID string) {
	client := &Client{
		SessionID: sessionID,
		Conn:      conn,
		Send:      make(chan []byte, 16),
	}
	h.register <- client
	defer func() {
		h.unregister <- client
		conn.Close()
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
