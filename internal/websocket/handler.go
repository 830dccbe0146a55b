package websocket

import (
	"ar-storefront-be/internal/pkg/logger"

	"github.com/gofiber/websocket/v2"
)

// ServeWs runs the connection until the peer leaves. It blocks, so the caller's
// handler goroutine becomes the read loop.
func ServeWs(hub *Hub, c *websocket.Conn, sessionID string, session SessionHandler, log logger.ILogger) {
	newClient(hub, c, sessionID, session, log).serve()
}

// serve returns only after both pumps are done with Conn; the fiber handler
// hands the connection back to its pool as soon as we return.
func (c *Client) serve() {
	select {
	case c.Hub.register <- c:
	case <-c.Hub.done:
		c.Session.Close()
		c.Conn.Close()
		return
	}

	go c.writePump()
	c.reply(c.Session.Hello())
	c.readPump()
	<-c.writerDone
}
