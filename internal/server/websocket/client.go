package websocket

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/starbookhq/starbook/internal/domain"
)

var ErrClientClosed = errors.New("client is closed")

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	maxMsgSize = 512
)

// Client pumps events from the hub onto one gorilla connection. Created only
// after the handshake token has been claimed.
type Client struct {
	userID    string
	conn      *websocket.Conn
	send      chan domain.Event
	done      chan struct{}
	closeOnce sync.Once
	logger    zerolog.Logger
}

func NewClient(userID string, conn *websocket.Conn, logger zerolog.Logger) *Client {
	return &Client{
		userID: userID,
		conn:   conn,
		send:   make(chan domain.Event, 64),
		done:   make(chan struct{}),
		logger: logger.With().Str("component", "ws_client").Str("user_id", userID).Logger(),
	}
}

func (c *Client) UserID() string {
	return c.userID
}

// Enqueue hands an event to the write pump without blocking.
func (c *Client) Enqueue(event domain.Event) error {
	select {
	case <-c.done:
		return ErrClientClosed
	default:
	}

	select {
	case c.send <- event:
		return nil
	default:
		return errors.New("send buffer full")
	}
}

func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// Serve runs both pumps until the connection dies, then unregisters from the
// hub. Blocks the handler goroutine like the upgrade handler expects.
func (c *Client) Serve(hub *Hub) {
	defer hub.Unregister(c)

	go c.writePump()
	c.readPump()
}

// readPump drains inbound frames. No client-to-server events exist after
// auth, reads only detect disconnects and answer pings.
func (c *Client) readPump() {
	defer c.Close()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().Err(err).Msg("Unexpected WebSocket close")
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case event := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(event); err != nil {
				c.logger.Warn().Err(err).Msg("Failed to write WebSocket event")
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}
