package websocket

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"ordering-system/pkg/logger"
)

// Connection wraps one upgraded websocket. The mutex serializes writes:
// broker fan-out and role re-emits run on different goroutines, and gorilla
// allows at most one concurrent writer.
type Connection struct {
	id      string
	conn    *websocket.Conn
	writeMu sync.Mutex
	log     logger.Logger
}

func NewConnection(conn *websocket.Conn, log logger.Logger) *Connection {
	return &Connection{
		id:   uuid.NewString(),
		conn: conn,
		log:  log,
	}
}

func (c *Connection) ID() string {
	return c.id
}

func (c *Connection) Send(message any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(message)
}

// ReadMessage blocks until the peer sends a JSON object. The returned error
// covers both transport failures and malformed frames; either way the caller
// tears the connection down.
func (c *Connection) ReadMessage() (map[string]any, error) {
	var msg map[string]any
	if err := c.conn.ReadJSON(&msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (c *Connection) Close() error {
	return c.conn.Close()
}
