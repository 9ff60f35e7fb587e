package dpad

import "math"

// Host stick range. A raw value of 0 is full left/up, AxisMax full right/down.
const (
	AxisMin uint16 = 0
	AxisMid uint16 = 0x8000
	AxisMax uint16 = 0xFFFF
)

// Sample is a stick position with both axes nominally in -1.0..1.0.
type Sample struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NormalizeAxis converts a raw host axis value to a signed fraction of travel.
// The result is not clamped.
func NormalizeAxis(raw uint16) float64 {
	return (float64(raw) - float64(AxisMid)) / float64(AxisMax-AxisMid)
}

// Square reshapes v as sign(v)*|v|^(1+s), pushing the circular response of a
// stick toward a square one so that the diagonals become reachable.
func Square(v, s float64) float64 {
	r := math.Pow(math.Abs(v), 1+s)
	if v < 0 {
		return -r
	}
	return r
}

// SquareScale returns the factor that keeps a deadzone of radius dz at the
// same place after both axes went through Square.
func SquareScale(dz, s float64) float64 {
	if dz <= 0 {
		return 1
	}
	return dz / math.Pow(dz, 1+s)
}

// Square applies the squareness correction to both axes.
func (s Sample) Square(squareness, deadzone float64) Sample {
	if squareness == 0 {
		return s
	}
	k := SquareScale(deadzone, squareness)
	return Sample{
		X: Square(s.X, squareness) * k,
		Y: Square(s.Y, squareness) * k,
	}
}

// Magnitude returns the distance of the sample from the stick center.
func (s Sample) Magnitude() float64 {
	return math.Hypot(s.X, s.Y)
}
