package dpad

import "math"

// thresholds are the per-axis deadzone and offset in effect for one tick.
type thresholds struct {
	deadzoneX, deadzoneY float64
	offsetX, offsetY     float64
	// shrinkX and shrinkY are the debounce amounts taken off each axis.
	shrinkX, shrinkY float64
}

// hysteresis shrinks the thresholds of every axis that had a direction on
// the previous tick, so an active direction does not drop out right at its
// boundary.
func hysteresis(p Params, prev Mask) thresholds {
	var t thresholds
	if prev.Horizontal() {
		t.shrinkX = p.Debounce
	}
	if prev.Vertical() {
		t.shrinkY = p.Debounce
	}
	t.deadzoneX = shrink(p.Deadzone, t.shrinkX)
	t.offsetX = shrink(p.Offset, t.shrinkX)
	t.deadzoneY = shrink(p.Deadzone, t.shrinkY)
	t.offsetY = shrink(p.Offset, t.shrinkY)
	return t
}

func shrink(base, by float64) float64 {
	return math.Max(0, base-by)
}
