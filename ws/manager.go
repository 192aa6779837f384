package ws

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"

	"github.com/judgegodwins/battleship-server/metrics"
	"github.com/judgegodwins/battleship-server/session"
	"github.com/judgegodwins/battleship-server/tokens"
	"github.com/judgegodwins/battleship-server/util"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Manager owns the connected clients and routes inbound events to the
// session manager. It is also the session layer's Notifier: a push to a
// connection id that is no longer here reports the peer as gone.
type Manager struct {
	sync.RWMutex
	clients     map[string]*Client
	handlers    map[string]EventHandler
	sessions    *session.Manager
	config      *util.Config
	validate    *validator.Validate
	sendTimeout time.Duration
	logger      *slog.Logger
}

func NewManager(config *util.Config, logger *slog.Logger) *Manager {
	m := &Manager{
		clients:     make(map[string]*Client),
		handlers:    make(map[string]EventHandler),
		config:      config,
		validate:    validator.New(),
		sendTimeout: config.SendTimeout,
		logger:      logger,
	}

	m.setupEventHandlers()
	return m
}

// SetSessions wires the session manager in after construction; the session
// manager needs this Manager as its notifier, so the two are built in
// sequence.
func (m *Manager) SetSessions(sessions *session.Manager) {
	m.sessions = sessions
}

func (m *Manager) setupEventHandlers() {
	m.handlers[EventRoom] = RoomHandler
	m.handlers[EventSetBoard] = SetBoardHandler
	m.handlers[EventFire] = FireHandler
	m.handlers[EventGetRoom] = GetRoomHandler
}

func (m *Manager) routeEvent(ctx context.Context, evt Event, c *Client) error {
	metrics.EventsTotal.WithLabelValues(evt.Type).Inc()

	handler, ok := m.handlers[evt.Type]
	if !ok {
		// Unrecognized routes are acknowledged and dropped.
		m.logger.Debug("unhandled event type", "connection", c.ID, "event", evt.Type)
		return nil
	}
	return handler(ctx, evt, c)
}

func (m *Manager) addClient(client *Client) {
	m.Lock()
	defer m.Unlock()
	m.clients[client.ID] = client
	metrics.ConnectionsActive.Inc()
}

func (m *Manager) removeClient(client *Client) {
	m.Lock()
	defer m.Unlock()

	if _, ok := m.clients[client.ID]; ok {
		client.connection.Close()
		delete(m.clients, client.ID)
		metrics.ConnectionsActive.Dec()
	}
}

// Push implements session.Notifier. A missing client or a send that cannot
// be handed off within the send timeout is classified as a gone peer.
func (m *Manager) Push(ctx context.Context, connectionID, eventType string, payload any) error {
	m.RLock()
	client, ok := m.clients[connectionID]
	m.RUnlock()

	if !ok {
		return session.ErrGone
	}

	evt, err := NewEvent(eventType, payload)
	if err != nil {
		return err
	}

	select {
	case client.egress <- evt:
		return nil
	case <-time.After(m.sendTimeout):
		return session.ErrGone
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ServeWS upgrades an authenticated request and runs the connection until
// its first pump error, then unwinds registry and room state.
func (m *Manager) ServeWS(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "token required"})
		return
	}

	payload, err := tokens.ParseJWTToken(token, []byte(m.config.JWTSecret))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "unauthorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		m.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	client := NewClient(payload.Username, conn, m)
	m.addClient(client)

	ctx, cancel := context.WithCancel(c.Request.Context())

	defer func() {
		cancel()
		m.removeClient(client)

		if err := m.sessions.Disconnect(context.Background(), client.ID); err != nil {
			m.logger.Error("disconnect cleanup failed", "connection", client.ID, "error", err)
		}

		err := client.connection.WriteMessage(websocket.CloseMessage, nil)
		if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
			m.logger.Debug("sending close message", "connection", client.ID, "error", err)
		}
	}()

	if err := m.sessions.Connect(ctx, client.ID); err != nil {
		m.logger.Error("connection registration failed", "connection", client.ID, "error", err)
		return
	}

	go client.readMessages(ctx)
	go client.writeMessages(ctx)

	err = <-client.Err()
	m.logger.Info("client closed", "connection", client.ID, "error", err)
}
