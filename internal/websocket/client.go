package websocket

import (
	"context"
	"encoding/json"
	"time"

	"ar-storefront-be/internal/dto"
	"ar-storefront-be/internal/pkg/logger"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	// handleTimeout bounds one message, including the 3D asset lookup on
	// request_session.
	handleTimeout = 15 * time.Second
)

// SessionHandler is the AR session a connection drives.
type SessionHandler interface {
	// Hello is sent once, right after the connection is registered.
	Hello() dto.AROutbound
	Handle(ctx context.Context, in dto.ARInbound) ([]dto.AROutbound, error)
	Close()
}

// Client is a middleman between the websocket connection and the AR session.
type Client struct {
	Hub *Hub

	// The websocket connection.
	Conn *websocket.Conn

	SessionID string
	Session   SessionHandler

	// Buffered channel of outbound messages.
	Send chan []byte

	// closed when writePump has returned and no longer touches Conn
	writerDone chan struct{}

	logger logger.ILogger
}

func newClient(hub *Hub, conn *websocket.Conn, sessionID string, session SessionHandler, log logger.ILogger) *Client {
	return &Client{
		Hub:        hub,
		Conn:       conn,
		SessionID:  sessionID,
		Session:    session,
		Send:       make(chan []byte, 256),
		writerDone: make(chan struct{}),
		logger:     log,
	}
}

// readPump is the only goroutine that touches the session.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.Hub.unregister <- c:
		case <-c.Hub.done:
			// Run has returned, so nothing else closes Send
			close(c.Send)
			c.Session.Close()
		}
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn(hubModule, "unexpected close", map[string]interface{}{"session_id": c.SessionID, "error": err.Error()})
			}
			break
		}
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))

		var in dto.ARInbound
		if err := json.Unmarshal(data, &in); err != nil {
			c.reply(dto.AROutbound{Type: dto.ARMessageError, Data: "malformed message"})
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
		out, err := c.Session.Handle(ctx, in)
		cancel()
		if err != nil {
			c.reply(dto.AROutbound{Type: dto.ARMessageError, Data: err.Error()})
			continue
		}
		for _, msg := range out {
			c.reply(msg)
		}
	}
}

func (c *Client) reply(msg dto.AROutbound) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error(hubModule, "failed to encode reply", map[string]interface{}{"type": msg.Type, "error": err.Error()})
		return
	}
	select {
	case c.Send <- data:
	default:
		c.logger.Warn(hubModule, "send buffer full, dropping reply", map[string]interface{}{"session_id": c.SessionID, "type": msg.Type})
	}
}

// writePump pumps replies to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
		close(c.writerDone)
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// one JSON document per frame
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
