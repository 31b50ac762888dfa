package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/agenda-app/agenda-api/utils"
)

// messageWriter is the slice of *websocket.Conn the hub needs.
type messageWriter interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// client wraps a websocket connection with a write lock. The underlying
// connection allows at most one writer at a time, and Broadcast is called
// from concurrent request handlers.
type client struct {
	conn messageWriter
	mu   sync.Mutex
}

func (cl *client) write(payload []byte) error {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.conn.WriteMessage(websocket.TextMessage, payload)
}

// Hub tracks websocket connections per user room. Delivery is best-effort:
// events are not persisted and there is no replay or ack.
type Hub struct {
	mu    sync.RWMutex
	rooms map[uint]map[*client]bool
}

var hub = &Hub{rooms: make(map[uint]map[*client]bool)}

type event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

func (h *Hub) join(userID uint, cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[userID] == nil {
		h.rooms[userID] = make(map[*client]bool)
	}
	h.rooms[userID][cl] = true
}

func (h *Hub) leave(userID uint, cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms[userID], cl)
	if len(h.rooms[userID]) == 0 {
		delete(h.rooms, userID)
	}
}

func (h *Hub) members(userID uint) []*client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	members := make([]*client, 0, len(h.rooms[userID]))
	for cl := range h.rooms[userID] {
		members = append(members, cl)
	}
	return members
}

// Broadcast pushes an event to every connection in the user's room. Failed
// writes drop the connection.
func Broadcast(userID uint, name string, data interface{}) {
	payload, err := json.Marshal(event{Event: name, Data: data})
	if err != nil {
		return
	}

	for _, cl := range hub.members(userID) {
		if err := cl.write(payload); err != nil {
			hub.leave(userID, cl)
			cl.conn.Close()
		}
	}
}

// SetupWebSocket registers the /ws endpoint. Clients authenticate with a
// token query parameter and are joined to their own user room on connect.
func SetupWebSocket(app *fiber.App) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		userID, err := utils.ParseToken(c.Query("token"))
		if err != nil {
			return fiber.ErrUnauthorized
		}
		c.Locals("userID", userID)
		return c.Next()
	})

	app.Get("/ws", websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals("userID").(uint)
		cl := &client{conn: conn}
		hub.join(userID, cl)
		log.Printf("User %d joined their room", userID)
		defer func() {
			hub.leave(userID, cl)
			conn.Close()
		}()

		// Read loop only detects disconnects; inbound frames are ignored.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
}
