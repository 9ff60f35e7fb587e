package gamepad

import (
	"math"

	"github.com/soar/analogdpad/internal/dpad"
)

const (
	hatUp    uint8 = 0x01
	hatRight uint8 = 0x02
	hatDown  uint8 = 0x04
	hatLeft  uint8 = 0x08
)

// Pad is the raw controller state of one poll, in host units: sticks run
// 0..0xFFFF with 0x8000 at rest, bit i of Buttons is joystick button i.
// It is the shared state the classifier commits to.
type Pad struct {
	LX, LY, RX, RY uint16
	LT, RT         int16
	Buttons        uint32
	Dpad           dpad.Mask
}

var _ dpad.Sink = (*Pad)(nil)

// NewPad returns a pad with sticks and triggers at rest.
func NewPad() Pad {
	return Pad{
		LX: dpad.AxisMid, LY: dpad.AxisMid,
		RX: dpad.AxisMid, RY: dpad.AxisMid,
		LT: math.MinInt16, RT: math.MinInt16,
	}
}

// HostAxis converts an SDL axis value to the host range.
func HostAxis(raw int16) uint16 {
	return uint16(int32(raw) + 0x8000)
}

// Stick returns the raw axes of the selected stick.
func (p *Pad) Stick(src dpad.Source) (x, y uint16) {
	if src == dpad.SourceRight {
		return p.RX, p.RY
	}
	return p.LX, p.LY
}

func (p *Pad) SetDpad(m dpad.Mask) {
	p.Dpad = m
}

func (p *Pad) CenterStick(src dpad.Source) {
	if src == dpad.SourceRight {
		p.RX, p.RY = dpad.AxisMid, dpad.AxisMid
		return
	}
	p.LX, p.LY = dpad.AxisMid, dpad.AxisMid
}

// Pressed reports whether joystick button i is down.
func (p *Pad) Pressed(i int32) bool {
	return i >= 0 && i < 32 && p.Buttons&(1<<uint(i)) != 0
}

// HatMask converts an SDL hat value to d-pad bits.
func HatMask(hat uint8) dpad.Mask {
	var m dpad.Mask
	if hat&hatUp != 0 {
		m |= dpad.Up
	}
	if hat&hatDown != 0 {
		m |= dpad.Down
	}
	if hat&hatLeft != 0 {
		m |= dpad.Left
	}
	if hat&hatRight != 0 {
		m |= dpad.Right
	}
	return m
}

// displayAxis converts a host axis value for the overlay.
func displayAxis(raw uint16, invert bool) float64 {
	v := dpad.NormalizeAxis(raw)
	if v < -1 {
		v = -1
	}
	if invert {
		v = -v
	}
	return ApplyDeadzone(v, deadzone)
}

// BuildState turns a processed pad into the state published to clients.
func BuildState(p *Pad, m *DeviceMapping) GamepadState {
	state := GamepadState{
		Connected:      true,
		ControllerType: m.Name,
	}

	for _, am := range m.Axes {
		switch am.Target {
		case "left_x":
			state.Sticks.Left.Position.X = displayAxis(p.LX, am.Invert)
		case "left_y":
			state.Sticks.Left.Position.Y = displayAxis(p.LY, am.Invert)
		case "right_x":
			state.Sticks.Right.Position.X = displayAxis(p.RX, am.Invert)
		case "right_y":
			state.Sticks.Right.Position.Y = displayAxis(p.RY, am.Invert)
		case "lt":
			state.Triggers.LT.Value = ApplyDeadzone(NormalizeTrigger(p.LT, am.RawMin, am.RawMax), deadzone)
		case "rt":
			state.Triggers.RT.Value = ApplyDeadzone(NormalizeTrigger(p.RT, am.RawMin, am.RawMax), deadzone)
		}
	}

	for _, bm := range m.Buttons {
		pressed := p.Pressed(bm.Index)
		switch bm.Target {
		case "a":
			state.Buttons.A = pressed
		case "b":
			state.Buttons.B = pressed
		case "x":
			state.Buttons.X = pressed
		case "y":
			state.Buttons.Y = pressed
		case "lb":
			state.Buttons.LB = pressed
		case "rb":
			state.Buttons.RB = pressed
		case "select":
			state.Buttons.Select = pressed
		case "start":
			state.Buttons.Start = pressed
		case "home":
			state.Buttons.Home = pressed
		case "l3":
			state.Sticks.Left.Pressed = pressed
		case "r3":
			state.Sticks.Right.Pressed = pressed
		}
	}

	state.Dpad = DpadState{
		Up:    p.Dpad&dpad.Up != 0,
		Down:  p.Dpad&dpad.Down != 0,
		Left:  p.Dpad&dpad.Left != 0,
		Right: p.Dpad&dpad.Right != 0,
	}
	return state
}
