package httpserver

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "httpserver")

// Event is a message pushed to connected clients over the event feed.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Hub fans events out to every connected websocket client. Clients that
// fall behind have events dropped rather than blocking the broadcaster.
type Hub struct {
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]chan Event
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Browser clients connect from the app origin during
			// local development; the server is not exposed publicly.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]chan Event),
	}
}

// Broadcast queues evt for every connected client.
func (h *Hub) Broadcast(evt Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.conns {
		select {
		case ch <- evt:
		default:
		}
	}
}

// BroadcastAudio pushes synthesized speech to clients for playback.
// The byte payload is serialized as base64 in the event JSON.
func (h *Hub) BroadcastAudio(audio []byte) {
	h.Broadcast(Event{Type: "audio", Data: audio})
}

// ClientCount reports how many websocket clients are connected.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Handle upgrades the request and serves the event feed until the client
// disconnects. Binary frames received from the client carry recorded
// audio and are forwarded to onBinary.
func (h *Hub) Handle(c echo.Context, onBinary func([]byte)) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	ch := make(chan Event, 32)
	h.mu.Lock()
	h.conns[conn] = ch
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.conns, conn)
		h.mu.Unlock()
		_ = conn.Close()
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			msgType, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if msgType == websocket.BinaryMessage && onBinary != nil {
				onBinary(data)
			}
		}
	}()

	for {
		select {
		case evt := <-ch:
			if err := conn.WriteJSON(evt); err != nil {
				log.WithError(err).Debug("websocket write failed")
				return nil
			}
		case <-done:
			return nil
		}
	}
}
