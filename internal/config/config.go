// Package config loads the analog-to-dpad settings and the program settings
// around it from a YAML file, the environment and command line flags.
//
// Stick tuning values are entered the way the controller's web configurator
// shows them: distances in percent of full travel and arcs in degrees.
// Classifier converts them to the fractions and cosines the classifier uses.
package config

import (
	"math"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/soar/analogdpad/internal/dpad"
)

// Params is one tuning set, all values in percent.
type Params struct {
	Deadzone   float64 `mapstructure:"deadzone" yaml:"deadzone" json:"deadzone"`
	Squareness float64 `mapstructure:"squareness" yaml:"squareness" json:"squareness"`
	Slope      float64 `mapstructure:"slope" yaml:"slope" json:"slope"`
	Offset     float64 `mapstructure:"offset" yaml:"offset" json:"offset"`
	Debounce   float64 `mapstructure:"debounce" yaml:"debounce" json:"debounce"`
}

// Sticky holds the sticky-sector settings. Angles are in degrees.
type Sticky struct {
	CardinalAngle        float64 `mapstructure:"cardinal_angle" yaml:"cardinal_angle" json:"cardinalAngle"`
	Stickiness           float64 `mapstructure:"stickiness" yaml:"stickiness" json:"stickiness"`
	DynamicDeadzone      bool    `mapstructure:"dynamic_deadzone" yaml:"dynamic_deadzone" json:"dynamicDeadzone"`
	DynamicDeadzoneDelta float64 `mapstructure:"dynamic_deadzone_delta" yaml:"dynamic_deadzone_delta" json:"dynamicDeadzoneDelta"`
}

// Dpad is the analog-to-dpad section.
type Dpad struct {
	Enabled        bool   `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Source         string `mapstructure:"source" yaml:"source" json:"source"`
	Mode           string `mapstructure:"mode" yaml:"mode" json:"mode"`
	Algorithm      string `mapstructure:"algorithm" yaml:"algorithm" json:"algorithm"`
	EnableButtons  []int  `mapstructure:"enable_buttons" yaml:"enable_buttons" json:"enableButtons"`
	FourWayButtons []int  `mapstructure:"four_way_buttons" yaml:"four_way_buttons" json:"fourWayButtons"`
	EightWay       Params `mapstructure:"eight_way" yaml:"eight_way" json:"eightWay"`
	FourWay        Params `mapstructure:"four_way" yaml:"four_way" json:"fourWay"`
	Sticky         Sticky `mapstructure:"sticky" yaml:"sticky" json:"sticky"`
}

type Server struct {
	Addr string `mapstructure:"addr" yaml:"addr" json:"addr"`
}

type Log struct {
	Level string `mapstructure:"level" yaml:"level" json:"level"`
}

// Config is the whole settings file.
type Config struct {
	Dpad   Dpad   `mapstructure:"dpad" yaml:"dpad" json:"dpad"`
	Server Server `mapstructure:"server" yaml:"server" json:"server"`
	Log    Log    `mapstructure:"log" yaml:"log" json:"log"`
}

const maxButton = 31

// Validate checks ranges and names. A deadzone at or past the offset is
// allowed but logged, since the offset test can then never decide.
func (c *Config) Validate() error {
	d := &c.Dpad
	if _, err := parseSource(d.Source); err != nil {
		return err
	}
	mode, err := parseMode(d.Mode)
	if err != nil {
		return err
	}
	if _, err := parseAlgorithm(d.Algorithm); err != nil {
		return err
	}
	if mode == dpad.ModeGated && len(d.FourWayButtons) == 0 {
		return errors.New("dpad.mode gated needs at least one dpad.four_way_buttons entry")
	}
	if err := checkButtons("dpad.enable_buttons", d.EnableButtons); err != nil {
		return err
	}
	if err := checkButtons("dpad.four_way_buttons", d.FourWayButtons); err != nil {
		return err
	}
	if err := d.EightWay.validate("dpad.eight_way"); err != nil {
		return err
	}
	if err := d.FourWay.validate("dpad.four_way"); err != nil {
		return err
	}
	if err := checkRange("dpad.sticky.cardinal_angle", d.Sticky.CardinalAngle, 0, 90); err != nil {
		return err
	}
	if err := checkRange("dpad.sticky.stickiness", d.Sticky.Stickiness, 0, 90); err != nil {
		return err
	}
	if err := checkRange("dpad.sticky.dynamic_deadzone_delta", d.Sticky.DynamicDeadzoneDelta, 0, 100); err != nil {
		return err
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(err, "log.level")
	}

	for name, p := range map[string]Params{"eight_way": d.EightWay, "four_way": d.FourWay} {
		if p.Deadzone >= p.Offset {
			log.WithFields(log.Fields{
				"section":  name,
				"deadzone": p.Deadzone,
				"offset":   p.Offset,
			}).Warn("deadzone is not below offset; the offset test will never trigger on its own")
		}
	}
	return nil
}

func (p Params) validate(section string) error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"deadzone", p.Deadzone},
		{"squareness", p.Squareness},
		{"slope", p.Slope},
		{"offset", p.Offset},
		{"debounce", p.Debounce},
	} {
		if err := checkRange(section+"."+f.name, f.v, 0, 100); err != nil {
			return err
		}
	}
	return nil
}

func checkRange(name string, v, lo, hi float64) error {
	if math.IsNaN(v) || v < lo || v > hi {
		return errors.Errorf("%s: %v is outside %v..%v", name, v, lo, hi)
	}
	return nil
}

func checkButtons(name string, buttons []int) error {
	for _, b := range buttons {
		if b < 0 || b > maxButton {
			return errors.Errorf("%s: button %d is outside 0..%d", name, b, maxButton)
		}
	}
	return nil
}

// Classifier converts the section into classifier settings. The config must
// have passed Validate.
func (d *Dpad) Classifier() (dpad.Config, error) {
	src, err := parseSource(d.Source)
	if err != nil {
		return dpad.Config{}, err
	}
	mode, err := parseMode(d.Mode)
	if err != nil {
		return dpad.Config{}, err
	}
	alg, err := parseAlgorithm(d.Algorithm)
	if err != nil {
		return dpad.Config{}, err
	}

	return dpad.Config{
		Enabled:              d.Enabled,
		Source:               src,
		Mode:                 mode,
		Algorithm:            alg,
		EightWay:             d.EightWay.fractions(),
		FourWay:              d.FourWay.fractions(),
		CardinalAngle:        halfArcCos(d.Sticky.CardinalAngle),
		StickyCardinalAngle:  halfArcCos(d.Sticky.CardinalAngle + d.Sticky.Stickiness),
		DynamicDeadzone:      d.Sticky.DynamicDeadzone,
		DynamicDeadzoneDelta: d.Sticky.DynamicDeadzoneDelta / 100,
		EnableGate:           gate(d.EnableButtons),
		FourWayGate:          gate(d.FourWayButtons),
	}, nil
}

func (p Params) fractions() dpad.Params {
	return dpad.Params{
		Deadzone:   p.Deadzone / 100,
		Squareness: p.Squareness / 100,
		Slope:      p.Slope / 100,
		Offset:     p.Offset / 100,
		Debounce:   p.Debounce / 100,
	}
}

// halfArcCos turns the width of a sector in degrees into the cosine of its
// half arc.
func halfArcCos(deg float64) float64 {
	return math.Cos(deg / 2 * math.Pi / 180)
}

func gate(buttons []int) dpad.Gate {
	var g dpad.Gate
	for _, b := range buttons {
		g |= 1 << uint(b)
	}
	return g
}

func parseSource(s string) (dpad.Source, error) {
	switch strings.ToLower(s) {
	case "left", "primary":
		return dpad.SourceLeft, nil
	case "right", "secondary":
		return dpad.SourceRight, nil
	}
	return 0, errors.Errorf("dpad.source: unknown stick %q", s)
}

func parseMode(s string) (dpad.Mode, error) {
	switch strings.ToLower(s) {
	case "8way", "eight_way":
		return dpad.ModeEightWay, nil
	case "4way", "four_way":
		return dpad.ModeFourWay, nil
	case "gated":
		return dpad.ModeGated, nil
	}
	return 0, errors.Errorf("dpad.mode: unknown mode %q", s)
}

func parseAlgorithm(s string) (dpad.Algorithm, error) {
	switch strings.ToLower(s) {
	case "slope":
		return dpad.AlgorithmSlope, nil
	case "sticky":
		return dpad.AlgorithmSticky, nil
	}
	return 0, errors.Errorf("dpad.algorithm: unknown algorithm %q", s)
}
