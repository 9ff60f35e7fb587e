package dpad

// Input is what the host hands over each tick: the raw axes of the
// configured stick and the bitmask of held buttons.
type Input struct {
	X, Y    uint16
	Buttons uint32
}

// State is carried from one tick to the next.
type State struct {
	Prev Mask
	// Deadzone is the adapted sticky-sector deadzone, 0 while not adapted.
	Deadzone float64
}

// Sink is the shared controller state the result is committed to.
type Sink interface {
	SetDpad(m Mask)
	CenterStick(src Source)
}

// Processor turns stick input into d-pad output once per tick.
type Processor interface {
	Process(c *Config, in Input, out Sink) Mask
	Reset()
}

// Step classifies one tick. It has no side effects: the same config, input
// and previous state always produce the same result.
func Step(c *Config, in Input, prev State) (State, Mask) {
	strategy, p := c.Select(in.Buttons)
	s := Sample{X: NormalizeAxis(in.X), Y: NormalizeAxis(in.Y)}.Square(p.Squareness, p.Deadzone)

	var next State
	switch strategy {
	case StrategyFourWay:
		next.Prev = classifyFourWay(s, hysteresis(p, prev.Prev))
	case StrategySticky:
		next.Prev, next.Deadzone = classifySticky(c, p, s, prev)
	default:
		next.Prev = classifySlope(s, p, hysteresis(p, prev.Prev))
	}
	return next, next.Prev
}

// Mapper is a Processor holding the state of one stick.
type Mapper struct {
	state State
}

var _ Processor = (*Mapper)(nil)

func NewMapper() *Mapper {
	return &Mapper{}
}

// State returns the state kept for the next tick.
func (m *Mapper) State() State {
	return m.state
}

// Reset forgets the previous direction and any adapted deadzone.
func (m *Mapper) Reset() {
	m.state = State{}
}

// Process runs one tick. The state always advances so hysteresis survives
// the enable gate being released; out is only written while the gate is
// open, and then the consumed stick is recentered.
func (m *Mapper) Process(c *Config, in Input, out Sink) Mask {
	if !c.Enabled {
		return 0
	}
	var mask Mask
	m.state, mask = Step(c, in, m.state)
	if out != nil && c.EnableGate.Open(in.Buttons) {
		out.SetDpad(mask)
		out.CenterStick(c.Source)
	}
	return mask
}
