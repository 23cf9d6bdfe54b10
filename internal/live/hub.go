package live

import (
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"club-service/internal/events"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// safeConn wraps a websocket.Conn with a write mutex.
// gorilla/websocket allows one concurrent writer; this enforces that.
type safeConn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func (c *safeConn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(v)
}

func (c *safeConn) readMessage() (int, []byte, error) {
	return c.ws.ReadMessage()
}

func (c *safeConn) close() { c.ws.Close() }

// Hub manages WebSocket connections per ride, pushing day updates to
// attendance boards watching a ride.
type Hub struct {
	mu    sync.RWMutex
	conns map[int64][]*safeConn
}

// NewHub creates a live-update hub.
func NewHub() *Hub {
	return &Hub{conns: make(map[int64][]*safeConn)}
}

// Routes returns a chi.Router for the /ws mount point.
func (h *Hub) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/rides/{id}", h.HandleWS)
	return r
}

// HandleWS upgrades the connection and subscribes it to a ride.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	rideID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid ride id", http.StatusBadRequest)
		return
	}
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade error: %v", err)
		return
	}

	conn := &safeConn{ws: ws}

	h.mu.Lock()
	h.conns[rideID] = append(h.conns[rideID], conn)
	h.mu.Unlock()

	log.Printf("[ws] client connected to ride %d", rideID)

	// Block until the client disconnects
	for {
		if _, _, err := conn.readMessage(); err != nil {
			break
		}
	}

	h.removeConn(rideID, conn)
	conn.close()
	log.Printf("[ws] client disconnected from ride %d", rideID)
}

// BroadcastDayUpdate pushes a day update to all subscribers of a ride.
// Safe for concurrent calls; each safeConn serialises its own writes.
func (h *Hub) BroadcastDayUpdate(rideID int64, ev events.DayUpdatedEvent) {
	h.mu.RLock()
	conns := h.conns[rideID]
	h.mu.RUnlock()

	for _, c := range conns {
		if err := c.writeJSON(ev); err != nil {
			log.Printf("[ws] write error: %v", err)
		}
	}
}

func (h *Hub) removeConn(rideID int64, conn *safeConn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.conns[rideID]
	for i, c := range conns {
		if c == conn {
			h.conns[rideID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	if len(h.conns[rideID]) == 0 {
		delete(h.conns, rideID)
	}
}
