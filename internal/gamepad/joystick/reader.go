// Package joystick polls controllers through SDL3 and runs the analog-to-dpad
// classifier on every poll.
package joystick

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jupiterrider/purego-sdl3/sdl"
	log "github.com/sirupsen/logrus"

	"github.com/soar/analogdpad/internal/dpad"
	"github.com/soar/analogdpad/internal/gamepad"
)

const (
	pollDelayNS   = 16_000_000 // ~60Hz
	maxButtons    = 32
	selectTimeout = time.Second
)

type joystickInfo struct {
	joystick *sdl.Joystick
	mapping  *gamepad.DeviceMapping
	name     string
	id       sdl.JoystickID
}

type playerRequest struct {
	index int
	reply chan bool
}

// Reader reads gamepad input from SDL3 Joystick API, maps the selected stick
// to the d-pad and emits state changes.
type Reader struct {
	state     gamepad.GamepadState
	prevState gamepad.GamepadState
	joysticks map[sdl.JoystickID]*joystickInfo
	activeID  sdl.JoystickID // the first connected joystick
	hasActive bool
	changes   chan gamepad.GamepadState
	mu        sync.RWMutex

	mapper  dpad.Processor
	config  atomic.Pointer[dpad.Config]
	applied *dpad.Config

	selects chan playerRequest
	done    chan struct{}
}

func NewReader(cfg dpad.Config, mapper dpad.Processor) *Reader {
	r := &Reader{
		joysticks: make(map[sdl.JoystickID]*joystickInfo),
		changes:   make(chan gamepad.GamepadState, 64),
		mapper:    mapper,
		selects:   make(chan playerRequest),
		done:      make(chan struct{}),
	}
	r.config.Store(&cfg)
	return r
}

// Changes returns the channel on which state changes are sent.
func (r *Reader) Changes() <-chan gamepad.GamepadState {
	return r.changes
}

// CurrentState returns a snapshot of the current gamepad state.
func (r *Reader) CurrentState() gamepad.GamepadState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Reconfigure replaces the classifier settings. The poll loop picks them up
// before its next tick and starts the classifier from a clean state.
func (r *Reader) Reconfigure(cfg dpad.Config) {
	r.config.Store(&cfg)
}

// ClassifierConfig returns the settings the next tick will use.
func (r *Reader) ClassifierConfig() dpad.Config {
	return *r.config.Load()
}

// SetActiveByPlayerIndex makes the index-th connected joystick (1-based, in
// connection order) the one being read.
func (r *Reader) SetActiveByPlayerIndex(index int) bool {
	req := playerRequest{index: index, reply: make(chan bool, 1)}
	timeout := time.After(selectTimeout)
	select {
	case r.selects <- req:
	case <-r.done:
		return false
	case <-timeout:
		return false
	}
	select {
	case ok := <-req.reply:
		return ok
	case <-r.done:
		return false
	}
}

// Run initializes SDL and runs the main event+polling loop on the current thread.
// Must be called from the main goroutine with runtime.LockOSThread().
func (r *Reader) Run(ctx context.Context) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(r.done)

	if !sdl.Init(sdl.InitJoystick) {
		log.Fatalf("SDL Init failed: %s", sdl.GetError())
	}
	defer sdl.Quit()

	log.Info("SDL3 Joystick subsystem initialized")

	// Check for already-connected joysticks
	for _, id := range sdl.GetJoysticks() {
		r.openJoystick(id)
	}

	for {
		select {
		case <-ctx.Done():
			r.closeAll()
			return
		case req := <-r.selects:
			req.reply <- r.selectPlayer(req.index)
		default:
		}

		r.processEvents()
		r.pollState()
		sdl.DelayNS(pollDelayNS)
	}
}

func (r *Reader) processEvents() {
	var event sdl.Event
	for sdl.PollEvent(&event) {
		switch event.Type() {
		case sdl.EventJoystickAdded:
			r.openJoystick(event.JDevice().Which)

		case sdl.EventJoystickRemoved:
			r.removeJoystick(event.JDevice().Which)

		case sdl.EventJoystickButtonDown:
			be := event.JButton()
			log.WithField("joystick", be.Which).Debugf("Button down: index=%d", be.Button)

		case sdl.EventJoystickHatMotion:
			he := event.JHat()
			log.WithField("joystick", he.Which).Debugf("Hat: index=%d value=0x%02X", he.Hat, he.Value)
		}
	}
}

func (r *Reader) openJoystick(instanceID sdl.JoystickID) {
	if _, exists := r.joysticks[instanceID]; exists {
		return
	}

	js := sdl.OpenJoystick(instanceID)
	if js == nil {
		log.WithField("joystick", instanceID).Errorf("Failed to open joystick: %s", sdl.GetError())
		return
	}

	jsID := sdl.GetJoystickID(js)
	vendorID := sdl.GetJoystickVendor(js)
	productID := sdl.GetJoystickProduct(js)
	info := &joystickInfo{
		joystick: js,
		mapping:  gamepad.GetMapping(vendorID, productID),
		name:     sdl.GetJoystickName(js),
		id:       jsID,
	}
	r.joysticks[jsID] = info

	log.WithFields(log.Fields{
		"name":    info.name,
		"vid":     vendorID,
		"pid":     productID,
		"mapping": info.mapping.Name,
		"axes":    sdl.GetNumJoystickAxes(js),
		"buttons": sdl.GetNumJoystickButtons(js),
		"hats":    sdl.GetNumJoystickHats(js),
	}).Info("Joystick connected")

	// Use the first connected joystick as active
	if !r.hasActive {
		r.activate(info)
	}
}

func (r *Reader) removeJoystick(instanceID sdl.JoystickID) {
	info, exists := r.joysticks[instanceID]
	if !exists {
		return
	}

	log.WithField("name", info.name).Info("Joystick disconnected")
	sdl.CloseJoystick(info.joystick)
	delete(r.joysticks, instanceID)

	if !r.hasActive || r.activeID != instanceID {
		return
	}
	r.hasActive = false
	for _, id := range r.order() {
		if js := r.joysticks[id]; sdl.JoystickConnected(js.joystick) {
			r.activate(js)
			return
		}
	}
	r.mu.Lock()
	r.state = gamepad.GamepadState{}
	r.mu.Unlock()
	r.emitState()
}

// activate switches reading to info. The classifier state belongs to the
// previous stick, so it is dropped.
func (r *Reader) activate(info *joystickInfo) {
	r.activeID = info.id
	r.hasActive = true
	r.mapper.Reset()
	log.WithFields(log.Fields{"name": info.name, "id": info.id}).Info("Active joystick set")

	r.mu.Lock()
	r.state.Connected = true
	r.state.Name = info.name
	r.state.ControllerType = info.mapping.Name
	r.state.PlayerIndex = r.playerIndex(info.id)
	r.mu.Unlock()

	r.emitState()
}

func (r *Reader) selectPlayer(index int) bool {
	ids := r.order()
	if index < 1 || index > len(ids) {
		return false
	}
	r.activate(r.joysticks[ids[index-1]])
	return true
}

// order lists connected joysticks by instance ID, which SDL hands out in
// connection order.
func (r *Reader) order() []sdl.JoystickID {
	ids := make([]sdl.JoystickID, 0, len(r.joysticks))
	for id := range r.joysticks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (r *Reader) playerIndex(id sdl.JoystickID) int {
	for i, v := range r.order() {
		if v == id {
			return i + 1
		}
	}
	return 0
}

func (r *Reader) closeAll() {
	for id, info := range r.joysticks {
		sdl.CloseJoystick(info.joystick)
		delete(r.joysticks, id)
	}
}

func (r *Reader) readPad(info *joystickInfo) gamepad.Pad {
	js := info.joystick
	pad := gamepad.NewPad()

	for _, am := range info.mapping.Axes {
		raw := sdl.GetJoystickAxis(js, am.Index)
		switch am.Target {
		case "left_x":
			pad.LX = gamepad.HostAxis(raw)
		case "left_y":
			pad.LY = gamepad.HostAxis(raw)
		case "right_x":
			pad.RX = gamepad.HostAxis(raw)
		case "right_y":
			pad.RY = gamepad.HostAxis(raw)
		case "lt":
			pad.LT = raw
		case "rt":
			pad.RT = raw
		}
	}

	n := sdl.GetNumJoystickButtons(js)
	if n > maxButtons {
		n = maxButtons
	}
	for i := int32(0); i < n; i++ {
		if sdl.GetJoystickButton(js, i) {
			pad.Buttons |= 1 << uint(i)
		}
	}

	if info.mapping.HasHat && sdl.GetNumJoystickHats(js) > 0 {
		pad.SetDpad(gamepad.HatMask(sdl.GetJoystickHat(js, 0)))
	}
	return pad
}

func (r *Reader) pollState() {
	if !r.hasActive {
		return
	}

	info, exists := r.joysticks[r.activeID]
	if !exists || !sdl.JoystickConnected(info.joystick) {
		return
	}

	cfg := r.config.Load()
	if cfg != r.applied {
		if r.applied != nil {
			r.mapper.Reset()
			log.WithFields(log.Fields{
				"mode":      cfg.Mode,
				"algorithm": cfg.Algorithm,
				"source":    cfg.Source,
			}).Info("Classifier reconfigured")
		}
		r.applied = cfg
	}

	pad := r.readPad(info)
	analog := gamepad.Tick(r.mapper, cfg, &pad)

	state := gamepad.BuildState(&pad, info.mapping)
	state.Name = info.name
	state.PlayerIndex = r.playerIndex(info.id)
	state.AnalogDpad = analog

	// Compare with previous state and emit if changed
	r.mu.Lock()
	delta := gamepad.ComputeDelta(r.prevState, state)
	if delta.IsEmpty() {
		r.mu.Unlock()
		return
	}
	if delta.AnalogDpad != nil {
		log.WithFields(log.Fields{
			"direction": analog.Direction,
			"strategy":  analog.Strategy,
			"committed": analog.Committed,
		}).Debug("Analog dpad changed")
	}
	r.state = state
	r.prevState = state
	r.mu.Unlock()
	r.emitState()
}

func (r *Reader) emitState() {
	r.mu.RLock()
	s := r.state
	r.mu.RUnlock()

	select {
	case r.changes <- s:
	default:
		// Drop if channel is full to avoid blocking the SDL thread
	}
}
