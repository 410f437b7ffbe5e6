package server

import (
	"encoding/json"
	"sync"
)

// Event is the payload published to a game's SSE subscribers.
type Event struct {
	Type           string `json:"type"`
	PlayerID       string `json:"playerId,omitempty"`
	PlayerName     string `json:"playerName,omitempty"`
	QuestionID     string `json:"questionId,omitempty"`
	QuestionNumber int    `json:"questionNumber,omitempty"`
}

// Broker is an in-process pub/sub for SSE events, keyed by game code.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded events for the given game.
func (b *Broker) Subscribe(code string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[code] == nil {
		b.subs[code] = make(map[chan []byte]struct{})
	}
	b.subs[code][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the game's subscribers.
func (b *Broker) Unsubscribe(code string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[code], ch)
	if len(b.subs[code]) == 0 {
		delete(b.subs, code)
	}
	b.mu.Unlock()
}

// Publish sends an event to all subscribers of the given game.
func (b *Broker) Publish(code string, event Event) {
	data, _ := json.Marshal(event)
	b.mu.RLock()
	for ch := range b.subs[code] {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}
