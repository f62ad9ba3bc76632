package realtime

import (
	"time"

	"github.com/gorilla/websocket"

	"github.com/chala47/checker/internal/model"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. A full board snapshot is
	// a few KB of JSON; this leaves generous headroom.
	maxMessageSize = 64 * 1024

	// Buffer size for outgoing messages
	sendBufferSize = 256
)

// Client is one live websocket connection bound to an authenticated account.
// A client may be registered in any number of rooms.
type Client struct {
	conn      *websocket.Conn
	accountID model.AccountID
	send      chan []byte
	done      chan struct{}

	connectedAt time.Time
}

// newClient wraps an upgraded connection
func newClient(conn *websocket.Conn, accountID model.AccountID) *Client {
	return &Client{
		conn:        conn,
		accountID:   accountID,
		send:        make(chan []byte, sendBufferSize),
		done:        make(chan struct{}),
		connectedAt: time.Now(),
	}
}

// AccountID returns the account this connection authenticated as
func (c *Client) AccountID() model.AccountID {
	return c.accountID
}

// readPump reads messages from the connection and hands them to dispatch.
// It exits on read error (including disconnect), signalling the write pump
// via the done channel.
func (c *Client) readPump(dispatch func(*Client, []byte)) {
	defer func() {
		close(c.done)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		dispatch(c, message)
	}
}

// writePump writes queued messages to the connection and keeps it alive
// with periodic pings. It exits when the connection is done or a write
// fails. The send channel is never closed; once the connection drops,
// queued messages are simply discarded.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

// queue enqueues a message for delivery, dropping it if the client's
// buffer is full
func (c *Client) queue(message []byte) bool {
	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}
