// README: WebSocket transport adapter backed by gorilla/websocket.
package realtime

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// WSAdapter serves websocket clients and delivers published events to them
// through the shared Registry. A client receives only broadcast events until
// it sends a {"kind":"join","ownerId":...} control message.
type WSAdapter struct {
	registry   *Registry
	upgrader   websocket.Upgrader
	sendBuffer int
}

func NewWSAdapter(registry *Registry, sendBuffer int) *WSAdapter {
	if sendBuffer <= 0 {
		sendBuffer = 16
	}
	return &WSAdapter{
		registry: registry,
		upgrader: websocket.Upgrader{
			// The storefront app connects from the LAN with no Origin header.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		sendBuffer: sendBuffer,
	}
}

func (a *WSAdapter) Deliver(scope string, evt Event) {
	for _, c := range a.registry.Targets(scope) {
		c.Send(evt)
	}
}

type joinMessage struct {
	Kind    Kind   `json:"kind"`
	OwnerID string `json:"ownerId"`
}

// Handle upgrades the request and serves the connection until it drops.
func (a *WSAdapter) Handle(w http.ResponseWriter, r *http.Request) {
	sock, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		return
	}
	conn := newWSConn(sock, a.sendBuffer)
	a.registry.Subscribe("", conn)
	go conn.writePump()
	a.readLoop(conn)
}

func (a *WSAdapter) readLoop(conn *wsConn) {
	defer func() {
		a.registry.Unsubscribe(conn)
		conn.Close()
	}()
	for {
		_, data, err := conn.sock.ReadMessage()
		if err != nil {
			return
		}
		var msg joinMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		if msg.Kind == KindJoin && msg.OwnerID != "" {
			a.registry.Subscribe(msg.OwnerID, conn)
		}
	}
}

// wsConn decouples fan-out from the socket: Send enqueues without blocking
// and the writer goroutine owns all socket writes.
type wsConn struct {
	sock *websocket.Conn
	out  chan Event
	done chan struct{}
	once sync.Once
}

func newWSConn(sock *websocket.Conn, buffer int) *wsConn {
	return &wsConn{
		sock: sock,
		out:  make(chan Event, buffer),
		done: make(chan struct{}),
	}
}

// Send enqueues evt for the writer. A full queue or a closed connection
// drops the event for this client only.
func (c *wsConn) Send(evt Event) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.out <- evt:
		return true
	default:
		return false
	}
}

func (c *wsConn) Close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.sock.Close()
	})
}

func (c *wsConn) writePump() {
	defer c.Close()
	for {
		select {
		case evt := <-c.out:
			if err := c.sock.WriteJSON(evt); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
