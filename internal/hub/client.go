package hub

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// PlayerSwitcher defines the interface for switching active player index.
type PlayerSwitcher interface {
	SetActiveByPlayerIndex(int) bool
}

// Client represents a connected WebSocket client.
type Client struct {
	id          string
	hub         *Hub
	conn        *websocket.Conn
	send        chan []byte
	playerIndex int // 1-based player index this client is listening to
}

// NewClient creates a new Client attached to the hub.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		id:          uuid.NewString(),
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, 256),
		playerIndex: 1, // Default to player 1
	}
}

// ID identifies the client in logs.
func (c *Client) ID() string {
	return c.id
}

// SetPlayerIndex sets the player index for this client.
func (c *Client) SetPlayerIndex(index int) {
	c.playerIndex = index
}

// Send queues msg for the client. It is dropped when the send buffer is full.
func (c *Client) Send(msg *WSMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	select {
	case c.send <- data:
	default:
		log.WithField("client", c.id).Debugf("Dropping %s message", msg.Type)
	}
	return nil
}

// WritePump sends messages from the send channel to the WebSocket connection.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.WithField("client", c.id).Debugf("Write failed: %v", err)
			break
		}
	}
}

// ReadPumpWithHandler reads messages from the WebSocket and handles client commands.
func (c *Client) ReadPumpWithHandler(switcher PlayerSwitcher) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		c.handle(message, switcher)
	}
}

func (c *Client) handle(message []byte, switcher PlayerSwitcher) {
	logger := log.WithField("client", c.id)

	var clientMsg ClientMessage
	if err := json.Unmarshal(message, &clientMsg); err != nil {
		logger.Warnf("Error parsing client message: %v", err)
		return
	}

	switch clientMsg.Type {
	case "select_player":
		if !switcher.SetActiveByPlayerIndex(clientMsg.PlayerIndex) {
			logger.Warnf("Failed to switch to player %d: invalid index", clientMsg.PlayerIndex)
			return
		}
		c.SetPlayerIndex(clientMsg.PlayerIndex)
		if err := c.Send(NewPlayerSelectedMessage(clientMsg.PlayerIndex)); err != nil {
			logger.Errorf("Error marshaling player_selected: %v", err)
			return
		}
		logger.Infof("Client switched to player %d", clientMsg.PlayerIndex)
	default:
		logger.Debugf("Ignoring client message %q", clientMsg.Type)
	}
}
