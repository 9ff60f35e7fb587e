package dpad

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSink struct {
	dpad     []Mask
	centered []Source
}

func (f *fakeSink) SetDpad(m Mask)         { f.dpad = append(f.dpad, m) }
func (f *fakeSink) CenterStick(src Source) { f.centered = append(f.centered, src) }

func TestProcessCommits(t *testing.T) {
	c := slopeConfig()
	c.Source = SourceRight
	m := NewMapper()
	sink := &fakeSink{}

	got := m.Process(c, input(0.9, 0), sink)
	assert.Equal(t, Right, got)
	assert.Equal(t, []Mask{Right}, sink.dpad)
	assert.Equal(t, []Source{SourceRight}, sink.centered)
	assert.Equal(t, Right, m.State().Prev)
}

func TestProcessNeutralStillCenters(t *testing.T) {
	m := NewMapper()
	sink := &fakeSink{}

	got := m.Process(slopeConfig(), Input{X: AxisMid, Y: AxisMid}, sink)
	assert.Equal(t, Mask(0), got)
	assert.Equal(t, []Mask{0}, sink.dpad)
	assert.Equal(t, []Source{SourceLeft}, sink.centered)
}

func TestProcessClosedGate(t *testing.T) {
	c := slopeConfig()
	c.EnableGate = Gate(1 << 4)
	m := NewMapper()
	sink := &fakeSink{}

	got := m.Process(c, input(0.9, 0), sink)
	assert.Equal(t, Right, got)
	assert.Empty(t, sink.dpad)
	assert.Empty(t, sink.centered)
	// hysteresis keeps running behind the closed gate
	assert.Equal(t, Right, m.State().Prev)

	in := input(0.9, 0)
	in.Buttons = 1 << 4
	m.Process(c, in, sink)
	assert.Equal(t, []Mask{Right}, sink.dpad)
}

func TestProcessDisabled(t *testing.T) {
	c := slopeConfig()
	c.Enabled = false
	m := NewMapper()
	sink := &fakeSink{}

	assert.Equal(t, Mask(0), m.Process(c, input(0.9, 0), sink))
	assert.Empty(t, sink.dpad)
	assert.Equal(t, State{}, m.State())
}

func TestProcessNilSink(t *testing.T) {
	m := NewMapper()
	assert.NotPanics(t, func() {
		m.Process(slopeConfig(), input(0, 0.9), nil)
	})
	assert.Equal(t, Down, m.State().Prev)
}

func TestReset(t *testing.T) {
	c := stickyConfig()
	c.DynamicDeadzone = true
	c.DynamicDeadzoneDelta = 0.05
	m := NewMapper()

	m.Process(c, input(0, -0.8), nil)
	require.NotEqual(t, State{}, m.State())

	m.Reset()
	assert.Equal(t, State{}, m.State())
}

func TestSelect(t *testing.T) {
	const gate = 1 << 2
	tests := []struct {
		name      string
		mode      Mode
		algorithm Algorithm
		fourGate  Gate
		buttons   uint32
		want      Strategy
	}{
		{"eight-way", ModeEightWay, AlgorithmSlope, 0, gate, StrategySlope},
		{"eight-way sticky", ModeEightWay, AlgorithmSticky, 0, 0, StrategySticky},
		{"four-way", ModeFourWay, AlgorithmSticky, 0, 0, StrategyFourWay},
		{"gated released", ModeGated, AlgorithmSlope, gate, 0, StrategySlope},
		{"gated held", ModeGated, AlgorithmSticky, gate, gate | 1, StrategyFourWay},
		{"gate overrides eight-way", ModeEightWay, AlgorithmSlope, gate, gate, StrategyFourWay},
		{"gate without buttons assigned", ModeGated, AlgorithmSlope, 0, 0xFFFFFFFF, StrategySlope},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{
				Mode:        tt.mode,
				Algorithm:   tt.algorithm,
				FourWayGate: tt.fourGate,
				FourWay:     Params{Deadzone: 0.4},
				EightWay:    Params{Deadzone: 0.2},
			}
			s, p := c.Select(tt.buttons)
			assert.Equal(t, tt.want, s)
			if s == StrategyFourWay {
				assert.Equal(t, c.FourWay, p)
			} else {
				assert.Equal(t, c.EightWay, p)
			}
		})
	}
}

func TestGatedModeSwitchesParams(t *testing.T) {
	c := slopeConfig()
	c.Mode = ModeGated
	c.FourWayGate = Gate(1 << 7)
	m := NewMapper()

	in := input(0.7, 0.7)
	assert.Equal(t, Down|Right, m.Process(c, in, nil))

	in.Buttons = 1 << 7
	got := m.Process(c, in, nil)
	assert.True(t, got.Cardinal(), "got %v", got)
}

func TestGate(t *testing.T) {
	var g Gate
	assert.False(t, g.Configured())
	assert.True(t, g.Open(0))
	assert.False(t, g.Held(0xFF))

	g = Gate(1<<3 | 1<<5)
	assert.True(t, g.Configured())
	assert.False(t, g.Open(1<<4))
	assert.True(t, g.Open(1<<5))
	assert.True(t, g.Held(1<<3|1))
}
