package hub

import (
	"encoding/json"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/soar/analogdpad/internal/dpad"
	"github.com/soar/analogdpad/internal/gamepad"
)

const (
	fullSyncInterval = 5 * time.Second
	deltaCountSync   = 100
)

// Broadcaster listens for gamepad state changes and broadcasts them to the hub.
type Broadcaster struct {
	hub     *Hub
	changes <-chan gamepad.GamepadState

	mu        sync.Mutex
	lastState gamepad.GamepadState
	seq       int64
}

func NewBroadcaster(h *Hub, changes <-chan gamepad.GamepadState) *Broadcaster {
	return &Broadcaster{
		hub:     h,
		changes: changes,
	}
}

// Run starts the broadcaster loop. Should be run in a goroutine.
func (b *Broadcaster) Run() {
	ticker := time.NewTicker(fullSyncInterval)
	defer ticker.Stop()

	var deltaCount int64

	for {
		select {
		case state, ok := <-b.changes:
			if !ok {
				return
			}

			b.mu.Lock()
			delta := gamepad.ComputeDelta(b.lastState, state)
			b.lastState = state
			if delta.IsEmpty() {
				b.mu.Unlock()
				continue
			}
			b.seq++
			seq := b.seq
			b.mu.Unlock()

			deltaCount++
			if delta.Connected != nil {
				b.send(NewEventMessage(seq, connectionEvent(state.Connected), &state), state.PlayerIndex)
				continue
			}
			// Send full sync periodically
			if deltaCount >= deltaCountSync {
				b.send(NewFullMessage(seq, &state), state.PlayerIndex)
				deltaCount = 0
			} else {
				b.send(NewDeltaMessage(seq, delta), state.PlayerIndex)
			}

		case <-ticker.C:
			b.mu.Lock()
			state := b.lastState
			if !state.Connected {
				b.mu.Unlock()
				continue
			}
			b.seq++
			seq := b.seq
			b.mu.Unlock()
			b.send(NewFullMessage(seq, &state), state.PlayerIndex)
		}
	}
}

func connectionEvent(connected bool) string {
	if connected {
		return EventConnected
	}
	return EventDisconnected
}

// SendInitialState sends the current full state to a newly connected client.
func (b *Broadcaster) SendInitialState(c *Client) {
	b.mu.Lock()
	b.seq++
	state := b.lastState
	msg := NewFullMessage(b.seq, &state)
	b.mu.Unlock()

	if err := c.Send(msg); err != nil {
		log.Errorf("Error marshaling initial state: %v", err)
	}
}

// BroadcastConfig tells every client about new classifier settings.
func (b *Broadcaster) BroadcastConfig(cfg dpad.Config) {
	b.send(NewConfigMessage(cfg), 0)
}

func (b *Broadcaster) send(msg *WSMessage, playerIndex int) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Errorf("Error marshaling %s message: %v", msg.Type, err)
		return
	}
	b.hub.BroadcastToPlayer(data, playerIndex)
}
