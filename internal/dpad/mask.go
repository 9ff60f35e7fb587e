package dpad

import "strings"

// Mask is a set of d-pad directions, laid out like the host d-pad byte.
type Mask uint8

const (
	Up Mask = 1 << iota
	Down
	Left
	Right
)

const (
	vertical   = Up | Down
	horizontal = Left | Right
)

// Has reports whether every bit of d is set in m.
func (m Mask) Has(d Mask) bool {
	return d != 0 && m&d == d
}

// Vertical reports whether UP or DOWN is set.
func (m Mask) Vertical() bool { return m&vertical != 0 }

// Horizontal reports whether LEFT or RIGHT is set.
func (m Mask) Horizontal() bool { return m&horizontal != 0 }

// Diagonal reports whether one vertical and one horizontal bit are set.
func (m Mask) Diagonal() bool { return m.Vertical() && m.Horizontal() }

// Cardinal reports whether exactly one direction is set.
func (m Mask) Cardinal() bool {
	switch m {
	case Up, Down, Left, Right:
		return true
	}
	return false
}

// Flip mirrors the mask through the stick center.
func (m Mask) Flip() Mask {
	var f Mask
	if m&Up != 0 {
		f |= Down
	}
	if m&Down != 0 {
		f |= Up
	}
	if m&Left != 0 {
		f |= Right
	}
	if m&Right != 0 {
		f |= Left
	}
	return f
}

func (m Mask) String() string {
	if m == 0 {
		return "-"
	}
	var parts []string
	for _, d := range []struct {
		bit  Mask
		name string
	}{{Up, "UP"}, {Down, "DOWN"}, {Left, "LEFT"}, {Right, "RIGHT"}} {
		if m&d.bit != 0 {
			parts = append(parts, d.name)
		}
	}
	return strings.Join(parts, "|")
}

// compose turns per-axis results (-1, 0, 1) into a mask.
// Negative y is the top of travel, matching the raw host axis.
func compose(rx, ry int8) Mask {
	var m Mask
	switch {
	case rx > 0:
		m |= Right
	case rx < 0:
		m |= Left
	}
	switch {
	case ry < 0:
		m |= Up
	case ry > 0:
		m |= Down
	}
	return m
}
