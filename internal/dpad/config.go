package dpad

// Source selects which stick is read and recentered.
type Source int

const (
	SourceLeft Source = iota
	SourceRight
)

func (s Source) String() string {
	if s == SourceRight {
		return "right"
	}
	return "left"
}

// Mode is the static four-way/eight-way selection.
type Mode int

const (
	ModeEightWay Mode = iota
	ModeFourWay
	// ModeGated runs eight-way and switches to four-way while the four-way
	// gate is held.
	ModeGated
)

func (m Mode) String() string {
	switch m {
	case ModeFourWay:
		return "4way"
	case ModeGated:
		return "gated"
	}
	return "8way"
}

// Algorithm picks the eight-way strategy.
type Algorithm int

const (
	AlgorithmSlope Algorithm = iota
	AlgorithmSticky
)

func (a Algorithm) String() string {
	if a == AlgorithmSticky {
		return "sticky"
	}
	return "slope"
}

// Strategy is the classifier variant that runs on a given tick.
type Strategy int

const (
	StrategySlope Strategy = iota
	StrategyFourWay
	StrategySticky
)

func (s Strategy) String() string {
	switch s {
	case StrategyFourWay:
		return "four-way"
	case StrategySticky:
		return "sticky-sector"
	}
	return "slope-8way"
}

// Gate is a button mask. The zero value means no button is assigned.
type Gate uint32

// Configured reports whether any button is assigned to the gate.
func (g Gate) Configured() bool { return g != 0 }

// Held reports whether any assigned button is down.
func (g Gate) Held(buttons uint32) bool { return uint32(g)&buttons != 0 }

// Open reports whether output may pass: an unassigned gate is always open.
func (g Gate) Open(buttons uint32) bool { return g == 0 || g.Held(buttons) }

// Params is one set of tuning values. All values are fractions of full travel
// except Slope, which is a ratio.
type Params struct {
	Deadzone   float64 `json:"deadzone"`
	Squareness float64 `json:"squareness"`
	Slope      float64 `json:"slope"`
	Offset     float64 `json:"offset"`
	Debounce   float64 `json:"debounce"`
}

// Config is the classifier configuration. It is read-only while ticks run.
type Config struct {
	Enabled   bool      `json:"enabled"`
	Source    Source    `json:"source"`
	Mode      Mode      `json:"mode"`
	Algorithm Algorithm `json:"algorithm"`

	FourWay  Params `json:"fourWay"`
	EightWay Params `json:"eightWay"`

	// Cosines of the half arc of a cardinal sector. The sticky value applies
	// once a direction is active and must be the wider arc (smaller cosine).
	CardinalAngle       float64 `json:"cardinalAngle"`
	StickyCardinalAngle float64 `json:"stickyCardinalAngle"`

	DynamicDeadzone      bool    `json:"dynamicDeadzone"`
	DynamicDeadzoneDelta float64 `json:"dynamicDeadzoneDelta"`

	EnableGate  Gate `json:"enableGate"`
	FourWayGate Gate `json:"fourWayGate"`
}

// Select resolves the strategy and parameter set for one tick. A held
// four-way gate wins over the static mode.
func (c *Config) Select(buttons uint32) (Strategy, Params) {
	if c.Mode == ModeFourWay || c.FourWayGate.Held(buttons) {
		return StrategyFourWay, c.FourWay
	}
	if c.Algorithm == AlgorithmSticky {
		return StrategySticky, c.EightWay
	}
	return StrategySlope, c.EightWay
}
