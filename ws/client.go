package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var (
	pongWait     = 10 * time.Second
	pingInterval = (pongWait * 9) / 10
)

// Client is one websocket connection. Its ID is the opaque connection id
// every store record and notification is addressed by.
type Client struct {
	ID         string
	Username   string
	connection *websocket.Conn
	manager    *Manager
	egress     chan Event
	err        chan error
}

func NewClient(username string, conn *websocket.Conn, manager *Manager) *Client {
	return &Client{
		ID:         uuid.NewString(),
		Username:   username,
		connection: conn,
		manager:    manager,
		egress:     make(chan Event),
		err:        make(chan error),
	}
}

// Reads incoming messages from the client's websocket connection and
// routes them by type tag.
func (c *Client) readMessages(ctx context.Context) {
	c.connection.SetReadLimit(1 << 16)

	if err := c.connection.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.handleError(err)
		return
	}

	c.connection.SetPongHandler(c.pongHandler)

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, payload, err := c.connection.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
					c.manager.logger.Warn("unexpected socket closure", "connection", c.ID, "error", err)
				}
				c.handleError(err)
				return
			}

			var evt Event
			if err := json.Unmarshal(payload, &evt); err != nil {
				c.pushError("cannot unmarshal json payload")
				continue
			}

			if err := c.manager.routeEvent(ctx, evt, c); err != nil {
				c.manager.logger.Warn("event failed", "connection", c.ID, "event", evt.Type, "error", err)
				c.pushError(err.Error())
			}
		}
	}
}

// Writes messages pushed to the client's egress channel.
func (c *Client) writeMessages(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-c.egress:
			if !ok {
				c.handleError(websocket.ErrCloseSent)
				return
			}

			message, err := json.Marshal(event)
			if err != nil {
				c.manager.logger.Error("marshalling event", "connection", c.ID, "event", event.Type, "error", err)
				continue
			}

			if err := c.connection.WriteMessage(websocket.TextMessage, message); err != nil {
				c.handleError(err)
				return
			}
		case <-ticker.C:
			if err := c.connection.WriteMessage(websocket.PingMessage, []byte{}); err != nil {
				c.handleError(err)
				return
			}
		}
	}
}

// Sets a new read deadline when a pong is received for a ping message.
func (c *Client) pongHandler(pongMsg string) error {
	return c.connection.SetReadDeadline(time.Now().Add(pongWait))
}

func (c *Client) handleError(e error) {
	select {
	case c.err <- e:
	default:
	}
}

func (c *Client) Err() chan error {
	return c.err
}

func (c *Client) pushError(reason string) {
	evt, err := NewErrorEvent(reason)
	if err != nil {
		return
	}
	select {
	case c.egress <- evt:
	case <-time.After(c.manager.sendTimeout):
	}
}
