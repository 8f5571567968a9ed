package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

const (
	TypeResinUpdated     = "resin_updated"
	TypePasscodeRedeemed = "passcode_redeemed"
	TypeHintRevealed     = "hint_revealed"
)

type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub fans messages out to the connections watching a pair. Both members of
// a pair watch the same channel.
type Hub struct {
	mu    sync.Mutex
	pairs map[uint]map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{
		pairs: make(map[uint]map[*websocket.Conn]bool),
	}
}

func (h *Hub) AddConnection(pairID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.pairs[pairID] == nil {
		h.pairs[pairID] = make(map[*websocket.Conn]bool)
	}
	h.pairs[pairID][conn] = true
	log.Printf("ws: client connected to pair %d (total: %d)", pairID, len(h.pairs[pairID]))
}

func (h *Hub) RemoveConnection(pairID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.pairs[pairID]; ok {
		delete(conns, conn)
		conn.Close()
		if len(conns) == 0 {
			delete(h.pairs, pairID)
		}
		log.Printf("ws: client disconnected from pair %d", pairID)
	}
}

// Connections is the number of clients watching the pair.
func (h *Hub) Connections(pairID uint) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.pairs[pairID])
}

// Broadcast writes the message to every watcher of the pair. A failed write
// drops that connection.
func (h *Hub) Broadcast(pairID uint, message WSMessage) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("ws: marshal error: %v", err)
		return
	}

	// Writes happen under the lock; gorilla connections allow one writer.
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.pairs[pairID]
	if !ok {
		return
	}
	for conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("ws: write error: %v", err)
			conn.Close()
			delete(conns, conn)
		}
	}
	if len(conns) == 0 {
		delete(h.pairs, pairID)
	}
}
