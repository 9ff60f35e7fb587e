package dpad

import "math"

// stickyMargin is added to the base deadzone whenever the direction changes.
const stickyMargin = 0.02

// classifySticky sorts the stick angle into one of eight sectors. It returns
// the new mask and the adapted deadzone to keep for the next tick.
func classifySticky(c *Config, p Params, s Sample, prev State) (Mask, float64) {
	dz := p.Deadzone
	if c.DynamicDeadzone {
		dz = math.Max(dz, prev.Deadzone)
	}
	mag := s.Magnitude()
	if !(mag > dz) {
		return 0, 0
	}

	m := sector(s.X/mag, s.Y/mag, c.CardinalAngle, c.StickyCardinalAngle, prev.Prev)
	if !c.DynamicDeadzone {
		return m, 0
	}
	return m, adaptDeadzone(p.Deadzone, prev.Deadzone, mag, c.DynamicDeadzoneDelta, m != prev.Prev)
}

// sector classifies a unit vector. cardinal and sticky are cosines of the
// half arc of a cardinal sector; sticky is used to hold on to an active
// cardinal, and mirrored to hold on to an active diagonal.
func sector(x, y, cardinal, sticky float64, prev Mask) Mask {
	switch {
	case prev.Cardinal():
		if along(prev, x, y) > sticky {
			return prev
		}
	case prev.Diagonal():
		cardinal = narrow(cardinal, sticky)
	}

	switch {
	case y < -cardinal:
		return Up
	case y > cardinal:
		return Down
	case x < -cardinal:
		return Left
	case x > cardinal:
		return Right
	}

	var m Mask
	if y < 0 {
		m |= Up
	} else {
		m |= Down
	}
	if x < 0 {
		m |= Left
	} else {
		m |= Right
	}
	return m
}

// along projects a unit vector on a cardinal direction.
func along(d Mask, x, y float64) float64 {
	switch d {
	case Up:
		return -y
	case Down:
		return y
	case Left:
		return -x
	}
	return x
}

// narrow shrinks the cardinal half arc by as much as sticky widens it.
func narrow(cardinal, sticky float64) float64 {
	h := math.Acos(clampUnit(cardinal))
	hs := math.Acos(clampUnit(sticky))
	return math.Cos(math.Max(0, 2*h-hs))
}

func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}

// adaptDeadzone moves the deadzone toward the resting magnitude while the
// direction holds, leaving one delta of headroom under it. A change of
// direction drops it back to just above base.
func adaptDeadzone(base, adapted, mag, delta float64, changed bool) float64 {
	if changed {
		return base + stickyMargin
	}
	adapted = math.Max(adapted, base)
	next := math.Min(math.Max(mag-delta, adapted-delta), adapted+delta)
	return math.Max(next, base)
}
