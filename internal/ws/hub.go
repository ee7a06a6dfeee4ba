package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/DonJuan-DeMarco/cs2investments/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeTimeout = 5 * time.Second
	sendBuffer   = 32
)

// client pairs a connection with its send queue. All writes to the
// connection happen on the single goroutine draining send, which is the
// only concurrency gorilla/websocket permits per connection.
type client struct {
	conn *websocket.Conn
	send chan models.ItemPrice
}

// Hub fans freshly written price rows out to connected websocket clients.
// The feed is write-only and best-effort: a client whose send queue is full
// is dropped rather than allowed to stall the ingestion run.
type Hub struct {
	mu       sync.Mutex
	clients  map[*client]struct{}
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients: make(map[*client]struct{}),
		logger:  logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handle upgrades the request and keeps the connection registered until the
// client goes away.
func (h *Hub) Handle(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	cl := &client{conn: conn, send: make(chan models.ItemPrice, sendBuffer)}
	h.mu.Lock()
	h.clients[cl] = struct{}{}
	h.mu.Unlock()

	go h.writeLoop(cl)

	// Drain incoming frames so pings and close frames are processed; the
	// read loop ending is how we learn the client disconnected.
	go func() {
		defer h.remove(cl)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// writeLoop is the sole writer for cl.conn. It exits once remove closes the
// send queue.
func (h *Hub) writeLoop(cl *client) {
	defer cl.conn.Close()
	for record := range cl.send {
		_ = cl.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := cl.conn.WriteJSON(record); err != nil {
			h.logger.Debug("dropping failed websocket client", zap.Error(err))
			h.remove(cl)
		}
	}
}

// PublishPrice implements pricing.PricePublisher. It never blocks on a
// client: a full queue means the client cannot keep up and it is dropped.
func (h *Hub) PublishPrice(record models.ItemPrice) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		select {
		case cl.send <- record:
		default:
			h.logger.Debug("dropping slow websocket client")
			delete(h.clients, cl)
			close(cl.send)
		}
	}
}

// ClientCount reports how many clients are connected.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// remove unregisters the client and closes its send queue, which in turn
// ends writeLoop and closes the connection. The queue is only ever closed
// under mu and only while the client is still registered, so PublishPrice
// cannot send on a closed channel.
func (h *Hub) remove(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[cl]; ok {
		delete(h.clients, cl)
		close(cl.send)
	}
}
