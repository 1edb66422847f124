package remote

import (
	"context"
	"net/http"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/folio/internal/log"
	"github.com/zjrosen/folio/internal/tracing"
)

const (
	writeWait      = 5 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 1 << 10
	sendBuffer     = 8
)

// hub tracks websocket clients and fans state out to them.
type hub struct {
	server   *Server
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[string]*client
}

// client owns one connection. Only writePump writes to conn.
type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func newHub(s *Server) *hub {
	h := &hub{server: s, clients: make(map[string]*client)}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return s.cfg.AllowAllOrigins || r.Header.Get("Origin") == "" || isLocalOrigin(r.Header.Get("Origin"))
		},
	}
	return h
}

func (h *hub) serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.ErrorErr(log.CatRemote, "websocket upgrade failed", err)
		return
	}

	c := &client{id: uuid.NewString(), conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	log.Info(log.CatRemote, "client connected", "client", c.id, "remote", r.RemoteAddr)

	snap := h.server.State()
	h.enqueue(c, envelope{Type: "state", ClientID: c.id, State: &snap})

	go h.writePump(c)
	h.readPump(c)
}

func (h *hub) readPump(c *client) {
	defer h.remove(c)

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.ErrorErr(log.CatRemote, "websocket read failed", err, "client", c.id)
			}
			return
		}

		h.handle(c, msg)
	}
}

func (h *hub) handle(c *client, msg []byte) {
	_, span := h.server.tracer.Start(context.Background(), tracing.SpanRemoteMsg,
		trace.WithAttributes(attribute.String(tracing.AttrClientID, c.id)))
	defer span.End()

	var cmd Command
	if err := json.Unmarshal(msg, &cmd); err != nil {
		span.SetStatus(codes.Error, "invalid message")
		h.enqueue(c, envelope{Type: "error", Error: "invalid message format"})
		return
	}
	cmd.ClientID = c.id
	if err := h.server.submit(cmd); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.enqueue(c, envelope{Type: "error", Error: err.Error()})
	}
}

func (h *hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.ErrorErr(log.CatRemote, "websocket write failed", err, "client", c.id)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// enqueue drops the message when the client is too slow to keep up; the
// next state snapshot supersedes it anyway.
func (h *hub) enqueue(c *client, env envelope) {
	msg, err := json.Marshal(env)
	if err != nil {
		log.ErrorErr(log.CatRemote, "encode message failed", err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.id]; !ok {
		return
	}
	select {
	case c.send <- msg:
	default:
		log.Warn(log.CatRemote, "client lagging, message dropped", "client", c.id)
	}
}

func (h *hub) broadcast(snap Snapshot) {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.enqueue(c, envelope{Type: "state", State: &snap})
	}
}

func (h *hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c.id]
	delete(h.clients, c.id)
	h.mu.Unlock()
	if ok {
		c.once.Do(func() { close(c.send) })
		log.Info(log.CatRemote, "client disconnected", "client", c.id)
	}
}

func (h *hub) closeAll() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[string]*client)
	h.mu.Unlock()
	for _, c := range clients {
		c.once.Do(func() { close(c.send) })
	}
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
