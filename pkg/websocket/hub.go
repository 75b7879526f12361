package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Hub routes live events to connected clients. Merchants are grouped into a
// room per business so redemption events reach every open dashboard.
type Hub struct {
	clients      map[*Client]bool
	broadcast    chan []byte
	register     chan *Client
	unregister   chan *Client
	rooms        map[string]map[*Client]bool
	pingInterval time.Duration
	pongTimeout  time.Duration
	mutex        sync.RWMutex
}

type Message struct {
	Type      string                 `json:"type"`
	RoomID    string                 `json:"room_id,omitempty"`
	UserID    primitive.ObjectID     `json:"user_id,omitempty"`
	Timestamp int64                  `json:"timestamp"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

func NewHub(pingInterval, pongTimeout time.Duration) *Hub {
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	if pongTimeout <= 0 {
		pongTimeout = 60 * time.Second
	}

	return &Hub{
		clients:      make(map[*Client]bool),
		broadcast:    make(chan []byte),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		rooms:        make(map[string]map[*Client]bool),
		pingInterval: pingInterval,
		pongTimeout:  pongTimeout,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.clients[client] = true
	log.Printf("Client registered: %s", client.UserID.Hex())

	// Every user gets a personal room for targeted pushes
	personalRoom := "user_" + client.UserID.Hex()
	h.joinRoomLocked(client, personalRoom)

	// Merchants watch their business feed
	if client.UserType == "merchant" && !client.BusinessID.IsZero() {
		h.joinRoomLocked(client, "business_"+client.BusinessID.Hex())
	}

	welcomeMsg := Message{
		Type:      "welcome",
		UserID:    client.UserID,
		Timestamp: getCurrentTimestamp(),
		Data: map[string]interface{}{
			"message": "Connected successfully",
		},
	}

	h.sendToClient(client, welcomeMsg)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, ok := h.clients[client]; ok {
		h.dropClientLocked(client)
		log.Printf("Client unregistered: %s", client.UserID.Hex())
	}
}

// dropClientLocked removes a client from the hub and every room and closes
// its send channel. Callers must hold the write lock; a client already
// removed is a no-op, so the channel is never closed twice.
func (h *Hub) dropClientLocked(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}

	delete(h.clients, client)
	close(client.send)

	for roomID, room := range h.rooms {
		if _, exists := room[client]; exists {
			delete(room, client)
			if len(room) == 0 {
				delete(h.rooms, roomID)
			}
		}
	}
}

func (h *Hub) broadcastMessage(message []byte) {
	var msg Message
	if err := json.Unmarshal(message, &msg); err != nil {
		log.Printf("Error unmarshaling message: %v", err)
		return
	}

	if msg.RoomID != "" {
		h.sendToRoom(msg.RoomID, message)
	}
}

// sendToRoom takes the write lock: a client whose buffer is full gets
// dropped, and that mutates the client and room maps.
func (h *Hub) sendToRoom(roomID string, data []byte) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	room, exists := h.rooms[roomID]
	if !exists {
		return
	}

	var stale []*Client
	for client := range room {
		select {
		case client.send <- data:
		default:
			stale = append(stale, client)
		}
	}

	for _, client := range stale {
		h.dropClientLocked(client)
	}
}

// sendToClient requires the caller to hold the write lock.
func (h *Hub) sendToClient(client *Client, message Message) {
	data, _ := json.Marshal(message)
	select {
	case client.send <- data:
	default:
		h.dropClientLocked(client)
	}
}

// BroadcastToBusiness delivers an event to every client watching the given
// business feed. Nothing is queued when no dashboard is connected.
func (h *Hub) BroadcastToBusiness(businessID string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	h.sendToRoom("business_"+businessID, data)
	return nil
}

func (h *Hub) SendToUser(userID primitive.ObjectID, message Message) {
	data, _ := json.Marshal(message)
	h.sendToRoom("user_"+userID.Hex(), data)
}

func (h *Hub) JoinRoom(client *Client, roomID string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.joinRoomLocked(client, roomID)
}

func (h *Hub) joinRoomLocked(client *Client, roomID string) {
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*Client]bool)
	}
	h.rooms[roomID][client] = true
	client.rooms[roomID] = true
}

func (h *Hub) LeaveRoom(client *Client, roomID string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if room, exists := h.rooms[roomID]; exists {
		delete(room, client)
		delete(client.rooms, roomID)

		if len(room) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

func getCurrentTimestamp() int64 {
	return time.Now().Unix()
}
