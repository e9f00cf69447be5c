package realtime

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"learnhub/logger"

	"github.com/google/uuid"
)

const (
	EventNotification    = "notification"
	EventCourseUpdated   = "course.updated"
	EventCoursePublished = "course.published"
	EventModuleAdded     = "module.added"
	EventModuleRemoved   = "module.removed"
	EventLessonAdded     = "lesson.added"
	EventLessonRemoved   = "lesson.removed"

	// EventRoomJoin is a control message. Every stream in Room joins the
	// room named by Data and nothing is written to the clients.
	EventRoomJoin = "room.join"
)

const clientBuffer = 16

// Message is one event delivered to every client in Room.
type Message struct {
	Room  string `json:"room"`
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// Bus fans messages out across server instances.
type Bus interface {
	Publish(ctx context.Context, msg Message) error
	StartForwarder(ctx context.Context, onMsg func(m Message)) error
	Close() error
}

type Client struct {
	ID       uuid.UUID
	UserID   uint
	Rooms    map[string]bool
	Outbound chan Message
	done     chan struct{}
	once     sync.Once
}

// Hub keeps room memberships for connected clients.
type Hub struct {
	mu    sync.RWMutex
	log   *logger.Logger
	rooms map[string]map[*Client]bool
	bus   Bus
}

func CourseRoom(courseID uint) string { return fmt.Sprintf("course:%d", courseID) }
func UserRoom(userID uint) string     { return fmt.Sprintf("user:%d", userID) }
func RoleRoom(role string) string     { return "role:" + strings.ToUpper(role) }

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		log:   log.With("component", "RealtimeHub"),
		rooms: make(map[string]map[*Client]bool),
	}
}

// UseBus routes Publish through bus and delivers forwarded messages locally.
func (h *Hub) UseBus(ctx context.Context, bus Bus) error {
	if err := bus.StartForwarder(ctx, h.Broadcast); err != nil {
		return err
	}
	h.mu.Lock()
	h.bus = bus
	h.mu.Unlock()
	return nil
}

func (h *Hub) NewClient(userID uint) *Client {
	return &Client{
		ID:       uuid.New(),
		UserID:   userID,
		Rooms:    make(map[string]bool),
		Outbound: make(chan Message, clientBuffer),
		done:     make(chan struct{}),
	}
}

func (h *Hub) Join(client *Client, room string) {
	room = strings.TrimSpace(room)
	if room == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.joinLocked(client, room)
}

func (h *Hub) joinLocked(client *Client, room string) {
	client.Rooms[room] = true
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]bool)
		h.rooms[room] = members
	}
	members[client] = true
	h.log.Debug("client joined room", "clientID", client.ID, "room", room)
}

// JoinUser adds every open stream of userID to room. The request goes
// through Publish, so streams held by other instances join as well.
func (h *Hub) JoinUser(ctx context.Context, userID uint, room string) error {
	room = strings.TrimSpace(room)
	if room == "" {
		return nil
	}
	return h.Publish(ctx, Message{Room: UserRoom(userID), Event: EventRoomJoin, Data: room})
}

func (h *Hub) joinMembers(from string, data any) {
	room, _ := data.(string)
	if room == "" || from == room {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.rooms[from] {
		h.joinLocked(c, room)
	}
}

func (h *Hub) Leave(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(client, room)
}

func (h *Hub) leaveLocked(client *Client, room string) {
	delete(client.Rooms, room)
	if members, ok := h.rooms[room]; ok {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

func (h *Hub) RemoveClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for room := range client.Rooms {
		h.leaveLocked(client, room)
	}
}

// RoomSize returns how many clients are connected to room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Broadcast delivers msg to local clients only. Slow clients drop messages.
func (h *Hub) Broadcast(msg Message) {
	if msg.Event == EventRoomJoin {
		h.joinMembers(msg.Room, msg.Data)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if msg.Room == "" {
		return
	}
	for c := range h.rooms[msg.Room] {
		select {
		case c.Outbound <- msg:
		default:
			h.log.Warn("dropping realtime message; outbound buffer full", "clientID", c.ID, "room", msg.Room)
		}
	}
}

// Publish sends msg through the bus when one is configured, else locally.
func (h *Hub) Publish(ctx context.Context, msg Message) error {
	h.mu.RLock()
	bus := h.bus
	h.mu.RUnlock()

	if bus == nil {
		h.Broadcast(msg)
		return nil
	}
	return bus.Publish(ctx, msg)
}

func (h *Hub) CloseClient(client *Client) {
	client.once.Do(func() {
		close(client.done)
		h.RemoveClient(client)
		close(client.Outbound)
	})
}

// Stream writes client messages to w as server-sent events until the client
// is closed or a write fails.
func (h *Hub) Stream(w *bufio.Writer, client *Client, heartbeat time.Duration) {
	defer h.CloseClient(client)

	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	if _, err := fmt.Fprintf(w, "retry: 3000\n\n"); err != nil || w.Flush() != nil {
		return
	}

	for {
		select {
		case <-client.done:
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				h.log.Debug("realtime client went away", "clientID", client.ID, "error", err)
				return
			}
		case msg, ok := <-client.Outbound:
			if !ok {
				return
			}
			raw, err := json.Marshal(msg)
			if err != nil {
				h.log.Warn("failed to marshal realtime message", "error", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: message\ndata: %s\n\n", raw); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				h.log.Debug("realtime client went away", "clientID", client.ID, "error", err)
				return
			}
		}
	}
}
