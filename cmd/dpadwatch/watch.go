package main

import (
	"encoding/json"
	"fmt"

	"github.com/lxzan/gws"
	log "github.com/sirupsen/logrus"

	"github.com/soar/analogdpad/internal/dpad"
	"github.com/soar/analogdpad/internal/gamepad"
	"github.com/soar/analogdpad/internal/hub"
)

// watcher follows the overlay feed and reports d-pad transitions.
type watcher struct {
	gws.BuiltinEventHandler

	player  int
	state   gamepad.GamepadState
	synced  bool
	lastSeq int64
	done    chan struct{}
}

func newWatcher(player int) *watcher {
	return &watcher{player: player, done: make(chan struct{})}
}

func (w *watcher) OnOpen(c *gws.Conn) {
	log.WithField("remote", c.RemoteAddr()).Info("Connected")
	if w.player <= 0 {
		return
	}
	data, err := json.Marshal(hub.ClientMessage{Type: "select_player", PlayerIndex: w.player})
	if err != nil {
		log.Errorf("Error marshaling player selection: %v", err)
		return
	}
	if err := c.WriteMessage(gws.OpcodeText, data); err != nil {
		log.Warnf("Failed to select player %d: %v", w.player, err)
	}
}

func (w *watcher) OnClose(_ *gws.Conn, err error) {
	log.Infof("Disconnected: %v", err)
	close(w.done)
}

func (w *watcher) OnMessage(_ *gws.Conn, m *gws.Message) {
	defer m.Close()
	lines, err := w.handle(m.Bytes())
	if err != nil {
		log.Warnf("Bad message: %v", err)
		return
	}
	for _, line := range lines {
		log.Info(line)
	}
}

// handle applies one server message and returns what changed, if anything
// worth reporting.
func (w *watcher) handle(data []byte) ([]string, error) {
	var msg hub.WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}

	switch msg.Type {
	case hub.TypeConfig:
		if msg.Config == nil {
			return nil, nil
		}
		return []string{describeConfig(msg.Config)}, nil
	case hub.TypePlayerSelected:
		return []string{fmt.Sprintf("watching player %d", msg.PlayerIndex)}, nil
	case hub.TypeFull, hub.TypeEvent:
		if msg.Data == nil {
			return nil, nil
		}
		prev, synced := w.state, w.synced
		w.state, w.synced, w.lastSeq = *msg.Data, true, msg.Seq
		if !synced {
			return []string{describeState(w.state)}, nil
		}
		return transitions(prev, w.state), nil
	case hub.TypeDelta:
		// Deltas are relative to the last state we saw; skip until a full sync
		if !w.synced || msg.Seq <= w.lastSeq {
			return nil, nil
		}
		prev := w.state
		w.state.Apply(msg.Changes)
		w.lastSeq = msg.Seq
		return transitions(prev, w.state), nil
	}
	return nil, nil
}

func maskOf(d gamepad.DpadState) dpad.Mask {
	var m dpad.Mask
	if d.Up {
		m |= dpad.Up
	}
	if d.Down {
		m |= dpad.Down
	}
	if d.Left {
		m |= dpad.Left
	}
	if d.Right {
		m |= dpad.Right
	}
	return m
}

func transitions(prev, cur gamepad.GamepadState) []string {
	var out []string
	if prev.Connected != cur.Connected {
		out = append(out, describeState(cur))
	}
	if maskOf(prev.Dpad) != maskOf(cur.Dpad) {
		out = append(out, fmt.Sprintf("dpad %s -> %s (%s)", maskOf(prev.Dpad), maskOf(cur.Dpad), cur.AnalogDpad.Strategy))
	}
	if prev.AnalogDpad.Committed != cur.AnalogDpad.Committed {
		out = append(out, fmt.Sprintf("enable gate open: %t", cur.AnalogDpad.Committed))
	}
	return out
}

func describeState(s gamepad.GamepadState) string {
	if !s.Connected {
		return "no controller"
	}
	return fmt.Sprintf("player %d: %s (%s), dpad %s", s.PlayerIndex, s.Name, s.ControllerType, maskOf(s.Dpad))
}

func describeConfig(c *dpad.Config) string {
	if !c.Enabled {
		return "mapping disabled"
	}
	return fmt.Sprintf("mapping %s stick, mode %s, algorithm %s", c.Source, c.Mode, c.Algorithm)
}
