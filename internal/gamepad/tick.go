package gamepad

import "github.com/soar/analogdpad/internal/dpad"

// deadzone applies to the values shown on the overlay only.
const deadzone = 0.05

// Tick runs the stick classifier on one poll worth of input and reports what
// it did. When the enable gate is open the classifier rewrites pad.Dpad and
// recenters the consumed stick.
func Tick(p dpad.Processor, cfg *dpad.Config, pad *Pad) AnalogDpadState {
	x, y := pad.Stick(cfg.Source)
	mask := p.Process(cfg, dpad.Input{X: x, Y: y, Buttons: pad.Buttons}, pad)

	strategy, _ := cfg.Select(pad.Buttons)
	return AnalogDpadState{
		Enabled:   cfg.Enabled,
		Strategy:  strategy.String(),
		Source:    cfg.Source.String(),
		Direction: mask.String(),
		Committed: cfg.Enabled && cfg.EnableGate.Open(pad.Buttons),
	}
}
