package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WriteTyped sends a strongly-typed frame over the WebSocket.
func WriteTyped(conn *websocket.Conn, v interface{}) error {
	conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return conn.WriteJSON(v)
}

// WriteError sends a typed ErrorFrame over the WebSocket.
func WriteError(conn *websocket.Conn, errMsg string) error {
	return WriteTyped(conn, ErrorFrame{Event: EventError, Error: errMsg})
}

// Writer serializes outbound frames for one connection. gorilla
// allows at most one concurrent writer; a stream handler has two
// frame producers (the event pump and the read loop), so every write
// must go through the same Writer.
type Writer struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

// NewWriter wraps conn for use by multiple goroutines.
func NewWriter(conn *websocket.Conn) *Writer {
	return &Writer{conn: conn}
}

// WriteTyped sends a strongly-typed frame, serialized with any other
// writers on the same connection.
func (w *Writer) WriteTyped(v interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return WriteTyped(w.conn, v)
}

// WriteError sends a typed ErrorFrame.
func (w *Writer) WriteError(errMsg string) error {
	return w.WriteTyped(ErrorFrame{Event: EventError, Error: errMsg})
}

// ReadJSON reads and decodes a message into the provided structure,
// with a read deadline.
func ReadJSON(conn *websocket.Conn, v interface{}) error {
	conn.SetReadDeadline(time.Now().Add(5 * time.Minute))
	return conn.ReadJSON(v)
}
