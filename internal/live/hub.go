package live

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Spectators only send control frames.
	maxMessageSize = 4 * 1024

	sendBuffer = 32

	idleCheck = 2 * time.Minute
)

type frame struct {
	version uint64
	data    []byte
}

// Client is one spectator connection.
type Client struct {
	ID   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

func newClient(conn *websocket.Conn) *Client {
	return &Client{ID: uuid.NewString(), conn: conn, send: make(chan []byte, sendBuffer)}
}

type join struct {
	client  *Client
	initial *frame
}

// Hub fans out frames to the spectators of one match. Its state is owned by
// the run goroutine.
type Hub struct {
	matchID uint
	clients map[*Client]bool
	latest  *frame

	register   chan join
	unregister chan *Client
	broadcast  chan frame
	done       chan struct{}

	// attached counts clients handed to this hub, including those not yet
	// registered. The manager only retires a hub at zero.
	attached atomic.Int32

	hm  *HubManager
	log *zap.Logger
}

func newHub(matchID uint, hm *HubManager) *Hub {
	return &Hub{
		matchID:    matchID,
		clients:    make(map[*Client]bool),
		register:   make(chan join),
		unregister: make(chan *Client),
		broadcast:  make(chan frame, 16),
		done:       make(chan struct{}),
		hm:         hm,
		log:        hm.log.With(zap.Uint("match_id", matchID)),
	}
}

func (h *Hub) run() {
	idle := time.NewTicker(idleCheck)
	defer func() {
		idle.Stop()
		close(h.done)
	}()

	for {
		select {
		case j := <-h.register:
			h.clients[j.client] = true
			f := j.initial
			if h.latest != nil && (f == nil || h.latest.version >= f.version) {
				f = h.latest
			}
			if f != nil {
				h.deliver(j.client, f.data)
			}
			h.log.Debug("spectator joined", zap.String("client_id", j.client.ID), zap.Int("clients", len(h.clients)))

		case c := <-h.unregister:
			h.drop(c)

		case f := <-h.broadcast:
			if h.latest != nil && f.version < h.latest.version {
				continue
			}
			h.latest = &f
			for c := range h.clients {
				h.deliver(c, f.data)
			}

		case <-idle.C:
			if h.attached.Load() == 0 && h.hm.retire(h) {
				return
			}
		}
	}
}

// deliver queues data for c, dropping a client that cannot keep up.
func (h *Hub) deliver(c *Client, data []byte) {
	select {
	case c.send <- data:
	default:
		h.log.Warn("dropping slow spectator", zap.String("client_id", c.ID))
		h.drop(c)
	}
}

func (h *Hub) drop(c *Client) {
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		h.attached.Add(-1)
	}
}

// ClientCount is safe to call from any goroutine.
func (h *Hub) ClientCount() int {
	return int(h.attached.Load())
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Debug("spectator read error", zap.String("client_id", c.ID), zap.Error(err))
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
