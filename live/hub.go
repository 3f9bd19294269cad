package live

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"vantage/db"
	"vantage/middleware"
	"vantage/models"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DashboardRoom is the single stream every connected admin dashboard joins.
const DashboardRoom = "dashboard"

type Client struct {
	Conn   *websocket.Conn
	Send   chan []byte
	Room   string
	UserID string
}

type broadcastMsg struct {
	Room string
	Data []byte
}

type Hub struct {
	rooms      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcastMsg
	quit       chan struct{}
	mu         sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcastMsg),
		quit:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			if h.rooms[c.Room] == nil {
				h.rooms[c.Room] = make(map[*Client]bool)
			}
			h.rooms[c.Room][c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			if conns := h.rooms[c.Room]; conns != nil {
				// a slow client may already have been kicked by broadcast
				if _, ok := conns[c]; ok {
					delete(conns, c)
					close(c.Send)
				}
			}
			h.mu.Unlock()

		case m := <-h.broadcast:
			h.mu.Lock()
			for c := range h.rooms[m.Room] {
				select {
				case c.Send <- m.Data:
				default:
					close(c.Send)
					delete(h.rooms[m.Room], c)
				}
			}
			h.mu.Unlock()

		case <-h.quit:
			h.mu.Lock()
			for room, conns := range h.rooms {
				for c := range conns {
					close(c.Send)
					if c.Conn != nil {
						c.Conn.Close()
					}
				}
				delete(h.rooms, room)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Stop closes every connection and terminates Run.
func (h *Hub) Stop() {
	close(h.quit)
}

// outboundPayload is what connected dashboards receive.
type outboundPayload struct {
	Action     string `json:"action"`
	ID         string `json:"id"`
	UserID     string `json:"userid,omitempty"`
	EntityType string `json:"entity_type,omitempty"`
	EntityID   string `json:"entity_id,omitempty"`
	Content    string `json:"content,omitempty"`
	Timestamp  int64  `json:"timestamp"`
}

// BroadcastActivity pushes a persisted activity to every dashboard client.
func (h *Hub) BroadcastActivity(act models.Activity) {
	out := outboundPayload{
		Action:     act.Action,
		ID:         act.ActivityID,
		UserID:     act.UserID,
		EntityType: act.EntityType,
		EntityID:   act.EntityID,
		Timestamp:  act.CreatedAt.Unix(),
	}
	data, err := json.Marshal(out)
	if err != nil {
		return
	}
	h.broadcast <- broadcastMsg{Room: DashboardRoom, Data: data}
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// WebSocketHandler upgrades an admin dashboard connection and replays the
// most recent activity entries before streaming live ones.
func WebSocketHandler(hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		token := "Bearer " + r.URL.Query().Get("token")
		claims, err := middleware.ValidateJWT(token)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade:", err)
			return
		}
		client := &Client{
			Conn:   conn,
			Send:   make(chan []byte, 256),
			Room:   DashboardRoom,
			UserID: claims.UserID,
		}

		// send last 30 activities as history
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			opts := options.Find().
				SetSort(bson.D{{Key: "created_at", Value: -1}}).
				SetLimit(30)

			cur, err := db.ActivitiesCollection.Find(ctx, bson.M{}, opts)
			if err != nil {
				log.Println("history find:", err)
				return
			}
			defer cur.Close(ctx)

			var history []models.Activity
			if err := cur.All(ctx, &history); err != nil {
				log.Println("history decode:", err)
				return
			}
			// oldest first
			for i := len(history) - 1; i >= 0; i-- {
				a := history[i]
				out := outboundPayload{
					Action:     a.Action,
					ID:         a.ActivityID,
					UserID:     a.UserID,
					EntityType: a.EntityType,
					EntityID:   a.EntityID,
					Timestamp:  a.CreatedAt.Unix(),
				}
				if data, err := json.Marshal(out); err == nil {
					client.Send <- data
				}
			}
		}()

		hub.register <- client
		go writePump(client)
		go readPump(client, hub)
	}
}

func writePump(c *Client) {
	defer c.Conn.Close()
	for msg := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

func readPump(c *Client, hub *Hub) {
	defer func() {
		hub.unregister <- c
		c.Conn.Close()
	}()

	// the dashboard stream is one-way; drain pings until the peer goes away
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			break
		}
	}
}
