package dpad

import "math"

// slopeAxis returns -1, 0 or 1 for axis value v. The direction is on while
// the orthogonal value o stays inside a cone whose apex sits at the offset;
// |o| must stay under (|v|-offset)/slope, so a larger slope narrows the cone.
func slopeAxis(v, o, deadzone, offset, slope float64) int8 {
	if v*v+o*o < deadzone*deadzone {
		return 0
	}
	if v > offset {
		if math.Abs(o/(v-offset))*slope < 1 {
			return 1
		}
	} else if v < -offset {
		if math.Abs(o/(v+offset))*slope < 1 {
			return -1
		}
	}
	return 0
}

// classifySlope runs the cone test on each axis independently, so a
// diagonal comes out when the stick is inside both cones.
func classifySlope(s Sample, p Params, t thresholds) Mask {
	rx := slopeAxis(s.X, s.Y, t.deadzoneX, t.offsetX, p.Slope)
	ry := slopeAxis(s.Y, s.X, t.deadzoneY, t.offsetY, p.Slope)
	return compose(rx, ry)
}

// classifyFourWay reports at most one direction: the axis with the larger
// deflection, counting the debounce it was granted. Ties go to x.
func classifyFourWay(s Sample, t thresholds) Mask {
	dz := math.Min(t.deadzoneX, t.deadzoneY)
	if s.X*s.X+s.Y*s.Y < dz*dz {
		return 0
	}
	ax, ay := math.Abs(s.X), math.Abs(s.Y)
	if !(ax > t.offsetX || ay > t.offsetY) {
		return 0
	}
	if ax+t.shrinkX >= ay+t.shrinkY {
		return compose(sign(s.X), 0)
	}
	return compose(0, sign(s.Y))
}

func sign(v float64) int8 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
