// Package stream pushes fight updates to websocket subscribers.
package stream

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/heroines-gacha/fights/internal/constants"
	"github.com/heroines-gacha/fights/internal/fight"
	"github.com/heroines-gacha/fights/internal/logging"
)

// Message types sent to subscribers.
const (
	TypeState  = "state"
	TypeEvents = "events"
)

const writeWait = 5 * time.Second

// Message is one frame sent to a subscriber. A state frame carries the whole
// fight state; an events frame carries the events appended by one resolved
// turn, starting at index From of the event log.
type Message struct {
	Type    string        `json:"type"`
	FightID string        `json:"fightId"`
	State   *fight.State  `json:"state,omitempty"`
	Events  []fight.Event `json:"events,omitempty"`
	From    int           `json:"from"`
	Status  fight.Status  `json:"status,omitempty"`
	Turn    int           `json:"turn,omitempty"`
}

type subscriber struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *subscriber) write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub tracks websocket subscribers per fight.
type Hub struct {
	upgrader websocket.Upgrader

	mu   sync.Mutex
	subs map[string]map[*subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		subs: make(map[string]map[*subscriber]struct{}),
	}
}

// Serve upgrades the request and streams fightID until the client goes away.
// The subscriber is registered before snapshot runs, so every turn stored
// after the snapshot was taken reaches the client after the state frame.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, fightID string, snapshot func() (*fight.State, error)) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error("websocket upgrade failed", err, logging.Fields{constants.LogFieldFightID: fightID})
		return
	}
	sub := &subscriber{conn: conn}

	sub.mu.Lock()
	h.add(fightID, sub)
	defer h.remove(fightID, sub)
	st, err := snapshot()
	if err != nil {
		sub.mu.Unlock()
		msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error())
		_ = conn.WriteMessage(websocket.CloseMessage, msg)
		conn.Close()
		return
	}
	data, err := json.Marshal(Message{Type: TypeState, FightID: fightID, State: st, Status: st.Status, Turn: st.Turn})
	if err == nil {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		err = conn.WriteMessage(websocket.TextMessage, data)
	}
	sub.mu.Unlock()
	if err != nil {
		conn.Close()
		return
	}

	// Clients only listen; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			conn.Close()
			return
		}
	}
}

// Publish sends the events of one resolved turn to every subscriber of
// fightID. Subscribers that fail to receive are dropped.
func (h *Hub) Publish(fightID string, s *fight.State, newEvents []fight.Event) {
	subs := h.snapshotSubs(fightID)
	if len(subs) == 0 {
		return
	}
	data, err := json.Marshal(Message{
		Type:    TypeEvents,
		FightID: fightID,
		Events:  newEvents,
		From:    len(s.Events) - len(newEvents),
		Status:  s.Status,
		Turn:    s.Turn,
	})
	if err != nil {
		logging.Error("failed to encode fight events", err, logging.Fields{constants.LogFieldFightID: fightID})
		return
	}
	for _, sub := range subs {
		if err := sub.write(data); err != nil {
			h.remove(fightID, sub)
			sub.conn.Close()
		}
	}
}

// Subscribers returns the number of open subscriptions to fightID.
func (h *Hub) Subscribers(fightID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[fightID])
}

func (h *Hub) add(fightID string, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subs[fightID]
	if !ok {
		set = make(map[*subscriber]struct{})
		h.subs[fightID] = set
	}
	set[sub] = struct{}{}
}

func (h *Hub) remove(fightID string, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.subs[fightID]
	delete(set, sub)
	if len(set) == 0 {
		delete(h.subs, fightID)
	}
}

func (h *Hub) snapshotSubs(fightID string) []*subscriber {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*subscriber, 0, len(h.subs[fightID]))
	for sub := range h.subs[fightID] {
		out = append(out, sub)
	}
	return out
}
