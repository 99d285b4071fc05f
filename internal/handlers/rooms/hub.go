package rooms

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"gitlab.com/judgerunner.net/internal/core/ports/primary"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 1 << 20
	sendBuffer     = 16
)

// RoomMessage is what editors send: the room to publish to and the content
type RoomMessage struct {
	RoomCode string          `json:"roomCode"`
	Content  json.RawMessage `json:"content"`
}

type broadcast struct {
	Content json.RawMessage `json:"content"`
}

type peer struct {
	ws     *websocket.Conn
	send   chan []byte
	room   string
	closed bool
}

// Hub relays editor content between the sockets of one room. A socket enters
// a room with its first message and is moved when it names another room.
type Hub struct {
	mu       sync.Mutex
	rooms    map[string]map[*peer]struct{}
	upgrader websocket.Upgrader
	logger   primary.Logger
}

func NewHub(allowedOrigin string, logger primary.Logger) *Hub {
	return &Hub{
		rooms: make(map[string]map[*peer]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowedOrigin == "" || origin == "" || origin == allowedOrigin
			},
		},
		logger: logger,
	}
}

// ServeWS upgrades the request and serves the socket until it closes
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("Websocket upgrade failed", "error", err)
		return
	}
	h.logger.Debug("Websocket connected", "remote", r.RemoteAddr)

	p := &peer{ws: ws, send: make(chan []byte, sendBuffer)}
	go h.writePump(p)
	h.readPump(p)
}

// Size returns how many sockets are in the room
func (h *Hub) Size(room string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[room])
}

func (h *Hub) readPump(p *peer) {
	defer func() {
		h.leave(p)
		_ = p.ws.Close()
	}()

	p.ws.SetReadLimit(maxMessageSize)
	_ = p.ws.SetReadDeadline(time.Now().Add(pongWait))
	p.ws.SetPongHandler(func(string) error {
		return p.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := p.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("Websocket closed unexpectedly", "error", err)
			}
			return
		}

		var msg RoomMessage
		if err := json.Unmarshal(raw, &msg); err != nil || msg.RoomCode == "" {
			h.logger.Debug("Invalid message format", "error", err)
			continue
		}

		out, err := json.Marshal(broadcast{Content: msg.Content})
		if err != nil {
			continue
		}
		h.publish(p, msg.RoomCode, out)
	}
}

func (h *Hub) writePump(p *peer) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = p.ws.Close()
	}()

	for {
		select {
		case msg, ok := <-p.send:
			_ = p.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = p.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := p.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = p.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// publish places p in room and hands msg to every other member. Members that
// cannot keep up are dropped.
func (h *Hub) publish(p *peer, room string, msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if p.closed {
		return
	}
	if p.room != room {
		h.removeLocked(p)
		members, ok := h.rooms[room]
		if !ok {
			members = make(map[*peer]struct{})
			h.rooms[room] = members
		}
		members[p] = struct{}{}
		p.room = room
	}

	for other := range h.rooms[room] {
		if other == p {
			continue
		}
		select {
		case other.send <- msg:
		default:
			h.closeLocked(other)
		}
	}
}

func (h *Hub) leave(p *peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closeLocked(p)
}

// closeLocked removes p from its room and stops its writer; safe to repeat
func (h *Hub) closeLocked(p *peer) {
	if p.closed {
		return
	}
	h.removeLocked(p)
	p.closed = true
	close(p.send)
}

func (h *Hub) removeLocked(p *peer) {
	members, ok := h.rooms[p.room]
	if !ok {
		return
	}
	delete(members, p)
	if len(members) == 0 {
		delete(h.rooms, p.room)
	}
}
