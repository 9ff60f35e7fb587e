package hub

import (
	"time"

	"github.com/soar/analogdpad/internal/dpad"
	"github.com/soar/analogdpad/internal/gamepad"
)

// Message types sent from server to client.
const (
	TypeFull           = "full"
	TypeDelta          = "delta"
	TypeEvent          = "event"
	TypePlayerSelected = "player_selected"
	TypeConfig         = "config"
)

// Events carried by TypeEvent messages.
const (
	EventConnected    = "connected"
	EventDisconnected = "disconnected"
)

// WSMessage represents a WebSocket message sent from server to client.
type WSMessage struct {
	Type        string                `json:"type"`
	Seq         int64                 `json:"seq"`       // Sequence number for ordering
	Timestamp   int64                 `json:"timestamp"` // Unix timestamp in milliseconds
	Event       string                `json:"event,omitempty"`
	Data        *gamepad.GamepadState `json:"data,omitempty"`        // full, event
	Changes     *gamepad.DeltaChanges `json:"changes,omitempty"`     // delta
	PlayerIndex int                   `json:"playerIndex,omitempty"` // player_selected
	Config      *dpad.Config          `json:"config,omitempty"`      // config
}

func newMessage(typ string, seq int64) *WSMessage {
	return &WSMessage{
		Type:      typ,
		Seq:       seq,
		Timestamp: time.Now().UnixMilli(),
	}
}

// NewFullMessage creates a "full" type message containing complete gamepad state.
func NewFullMessage(seq int64, state *gamepad.GamepadState) *WSMessage {
	m := newMessage(TypeFull, seq)
	m.Data = state
	return m
}

// NewDeltaMessage creates a "delta" type message containing only changed fields.
func NewDeltaMessage(seq int64, changes *gamepad.DeltaChanges) *WSMessage {
	m := newMessage(TypeDelta, seq)
	m.Changes = changes
	return m
}

// NewEventMessage creates an "event" type message for special events.
func NewEventMessage(seq int64, event string, state *gamepad.GamepadState) *WSMessage {
	m := newMessage(TypeEvent, seq)
	m.Event = event
	m.Data = state
	return m
}

// NewPlayerSelectedMessage creates a "player_selected" confirmation message.
func NewPlayerSelectedMessage(playerIndex int) *WSMessage {
	m := newMessage(TypePlayerSelected, 0)
	m.PlayerIndex = playerIndex
	return m
}

// NewConfigMessage carries the classifier settings in effect.
func NewConfigMessage(cfg dpad.Config) *WSMessage {
	m := newMessage(TypeConfig, 0)
	m.Config = &cfg
	return m
}

// ClientMessage represents a message sent from the client to the server.
type ClientMessage struct {
	Type        string `json:"type"`
	PlayerIndex int    `json:"playerIndex,omitempty"`
}
