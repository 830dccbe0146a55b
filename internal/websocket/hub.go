package websocket

import (
	"sync"

	"ar-storefront-be/internal/pkg/logger"
)

const hubModule = "AR_HUB"

// Hub tracks the live AR connections and closes their sessions when they leave.
type Hub struct {
	clients map[string]*Client

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu sync.RWMutex

	logger logger.ILogger
}

func NewHub(log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[string]*Client),
		logger:     log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = client
			h.mu.Unlock()
			h.logger.Info(hubModule, "client registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.SessionID]; ok {
				delete(h.clients, client.SessionID)
				close(client.Send)
			}
			h.mu.Unlock()
			client.Session.Close()
			h.logger.Info(hubModule, "client unregistered", map[string]interface{}{"session_id": client.SessionID})

		case <-h.done:
			return
		}
	}
}

// Stop ends Run. Connected clients are left to their own read deadlines.
func (h *Hub) Stop() {
	close(h.done)
}

func (h *Hub) ActiveSessions() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
