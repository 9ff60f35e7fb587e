package gamepad

import "math"

type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type StickState struct {
	Position Vector `json:"position"`
	Pressed  bool   `json:"pressed"`
}

type TriggerState struct {
	Value float64 `json:"value"`
}

type ButtonState struct {
	A      bool `json:"a"`
	B      bool `json:"b"`
	X      bool `json:"x"`
	Y      bool `json:"y"`
	LB     bool `json:"lb"`
	RB     bool `json:"rb"`
	Select bool `json:"select"`
	Start  bool `json:"start"`
	Home   bool `json:"home"`
}

type DpadState struct {
	Up    bool `json:"up"`
	Down  bool `json:"down"`
	Left  bool `json:"left"`
	Right bool `json:"right"`
}

type SticksState struct {
	Left  StickState `json:"left"`
	Right StickState `json:"right"`
}

type TriggersState struct {
	LT TriggerState `json:"lt"`
	RT TriggerState `json:"rt"`
}

// AnalogDpadState reports what the stick classifier did on the last tick.
type AnalogDpadState struct {
	Enabled   bool   `json:"enabled"`
	Strategy  string `json:"strategy"`
	Source    string `json:"source"`
	Direction string `json:"direction"`
	// Committed is false while the enable gate is closed.
	Committed bool `json:"committed"`
}

type GamepadState struct {
	Connected      bool            `json:"connected"`
	ControllerType string          `json:"controllerType"`
	Name           string          `json:"name"`
	PlayerIndex    int             `json:"playerIndex"`
	Buttons        ButtonState     `json:"buttons"`
	Dpad           DpadState       `json:"dpad"`
	Sticks         SticksState     `json:"sticks"`
	Triggers       TriggersState   `json:"triggers"`
	AnalogDpad     AnalogDpadState `json:"analogDpad"`
}

type DeltaChanges struct {
	Connected      *bool            `json:"connected,omitempty"`
	ControllerType *string          `json:"controllerType,omitempty"`
	Name           *string          `json:"name,omitempty"`
	PlayerIndex    *int             `json:"playerIndex,omitempty"`
	Buttons        *ButtonState     `json:"buttons,omitempty"`
	Dpad           *DpadState       `json:"dpad,omitempty"`
	Sticks         *SticksState     `json:"sticks,omitempty"`
	Triggers       *TriggersState   `json:"triggers,omitempty"`
	AnalogDpad     *AnalogDpadState `json:"analogDpad,omitempty"`
}

func (d *DeltaChanges) IsEmpty() bool {
	return d.Connected == nil &&
		d.ControllerType == nil &&
		d.Name == nil &&
		d.PlayerIndex == nil &&
		d.Buttons == nil &&
		d.Dpad == nil &&
		d.Sticks == nil &&
		d.Triggers == nil &&
		d.AnalogDpad == nil
}

const analogThreshold = 0.01

func floatEqual(a, b float64) bool {
	return math.Abs(a-b) < analogThreshold
}

func sticksEqual(a, b SticksState) bool {
	return floatEqual(a.Left.Position.X, b.Left.Position.X) &&
		floatEqual(a.Left.Position.Y, b.Left.Position.Y) &&
		a.Left.Pressed == b.Left.Pressed &&
		floatEqual(a.Right.Position.X, b.Right.Position.X) &&
		floatEqual(a.Right.Position.Y, b.Right.Position.Y) &&
		a.Right.Pressed == b.Right.Pressed
}

func ComputeDelta(old, new_ GamepadState) *DeltaChanges {
	d := &DeltaChanges{}

	if old.Connected != new_.Connected {
		d.Connected = &new_.Connected
	}
	if old.ControllerType != new_.ControllerType {
		d.ControllerType = &new_.ControllerType
	}
	if old.Name != new_.Name {
		d.Name = &new_.Name
	}
	if old.PlayerIndex != new_.PlayerIndex {
		d.PlayerIndex = &new_.PlayerIndex
	}
	if old.Buttons != new_.Buttons {
		d.Buttons = &new_.Buttons
	}
	if old.Dpad != new_.Dpad {
		d.Dpad = &new_.Dpad
	}
	if !sticksEqual(old.Sticks, new_.Sticks) {
		d.Sticks = &new_.Sticks
	}
	if !floatEqual(old.Triggers.LT.Value, new_.Triggers.LT.Value) ||
		!floatEqual(old.Triggers.RT.Value, new_.Triggers.RT.Value) {
		d.Triggers = &new_.Triggers
	}
	if old.AnalogDpad != new_.AnalogDpad {
		d.AnalogDpad = &new_.AnalogDpad
	}

	return d
}

// Apply merges the fields present in d into s.
func (s *GamepadState) Apply(d *DeltaChanges) {
	if d == nil {
		return
	}
	if d.Connected != nil {
		s.Connected = *d.Connected
	}
	if d.ControllerType != nil {
		s.ControllerType = *d.ControllerType
	}
	if d.Name != nil {
		s.Name = *d.Name
	}
	if d.PlayerIndex != nil {
		s.PlayerIndex = *d.PlayerIndex
	}
	if d.Buttons != nil {
		s.Buttons = *d.Buttons
	}
	if d.Dpad != nil {
		s.Dpad = *d.Dpad
	}
	if d.Sticks != nil {
		s.Sticks = *d.Sticks
	}
	if d.Triggers != nil {
		s.Triggers = *d.Triggers
	}
	if d.AnalogDpad != nil {
		s.AnalogDpad = *d.AnalogDpad
	}
}
