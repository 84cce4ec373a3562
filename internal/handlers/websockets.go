package handlers

import (
	"net/http"
	"sync"
	"time"

	"microwave"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 512 // observers only send control frames
)

// Upgrader for HTTP -> WebSocket. Consider tightening CheckOrigin in production.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origins for production
}

// observerConn adapts one gorilla connection to the registry's Observer.
// The mutex serializes snapshot writes with keepalive pings; gorilla
// connections allow only one concurrent writer.
type observerConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

// Send writes the snapshot as a JSON frame under a bounded deadline, so a
// dead peer fails the write instead of stalling the caller.
func (o *observerConn) Send(snap microwave.Snapshot) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	_ = o.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return o.conn.WriteJSON(snap)
}

func (o *observerConn) ping() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	_ = o.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return o.conn.WriteMessage(websocket.PingMessage, nil)
}

// @Summary      Subscribe to microwave state updates
// @Description  WebSocket. Delivers the current snapshot on connect, then every committed change in commit order.
// @Tags         microwave
// @Router       /ws/microwave [get]
func (h *Handler) wsConnect(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	// Configure read limits and pong handler to extend the read deadline.
	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	ctx := c.Request.Context()
	obs := &observerConn{conn: conn}
	id := uuid.NewString()

	// Register and deliver the initial snapshot. The registry orders this
	// against concurrent broadcasts so the observer never misses or
	// double-receives a commit.
	err = h.registry.Connect(id, obs, func() (microwave.Snapshot, error) {
		return h.services.Monitoring.Snapshot(ctx)
	})
	if err != nil {
		if h.log != nil {
			h.log.Infow("ws_initial_snapshot_failed", "observer", id, "err", err)
		}
		return
	}
	defer h.registry.Disconnect(id)

	// Reader goroutine to handle control frames and detect disconnects.
	done := make(chan struct{})
	go h.startReader(conn, done)

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			if err := obs.ping(); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "observer", id, "err", err)
				}
				return
			}
		}
	}
}

// startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
