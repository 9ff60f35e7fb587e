package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soar/analogdpad/internal/dpad"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "analogdpad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func load(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	Flags(fs)
	require.NoError(t, fs.Parse(args))
	l, err := NewLoader(fs)
	require.NoError(t, err)
	return l.Load()
}

func TestDefaults(t *testing.T) {
	c, err := load(t, "--config", writeConfig(t, "{}\n"))
	require.NoError(t, err)

	assert.True(t, c.Dpad.Enabled)
	assert.Equal(t, "left", c.Dpad.Source)
	assert.Equal(t, "8way", c.Dpad.Mode)
	assert.Equal(t, "slope", c.Dpad.Algorithm)
	assert.Equal(t, Params{Deadzone: 30, Slope: 20, Offset: 40, Debounce: 5}, c.Dpad.EightWay)
	assert.Equal(t, c.Dpad.EightWay, c.Dpad.FourWay)
	assert.Equal(t, ":8080", c.Server.Addr)
	assert.Equal(t, "info", c.Log.Level)
}

func TestFileValues(t *testing.T) {
	path := writeConfig(t, `
dpad:
  source: right
  mode: gated
  algorithm: sticky
  enable_buttons: [4]
  four_way_buttons: [5, 6]
  eight_way:
    deadzone: 25
    slope: 35
  sticky:
    cardinal_angle: 50
    stickiness: 30
    dynamic_deadzone: true
    dynamic_deadzone_delta: 4
server:
  addr: 127.0.0.1:9000
`)
	c, err := load(t, "--config", path)
	require.NoError(t, err)

	assert.Equal(t, "right", c.Dpad.Source)
	assert.Equal(t, []int{5, 6}, c.Dpad.FourWayButtons)
	assert.Equal(t, 25.0, c.Dpad.EightWay.Deadzone)
	assert.Equal(t, 40.0, c.Dpad.EightWay.Offset)
	assert.Equal(t, "127.0.0.1:9000", c.Server.Addr)

	d, err := c.Dpad.Classifier()
	require.NoError(t, err)
	assert.Equal(t, dpad.SourceRight, d.Source)
	assert.Equal(t, dpad.ModeGated, d.Mode)
	assert.Equal(t, dpad.AlgorithmSticky, d.Algorithm)
	assert.Equal(t, dpad.Gate(1<<4), d.EnableGate)
	assert.Equal(t, dpad.Gate(1<<5|1<<6), d.FourWayGate)
	assert.InDelta(t, 0.25, d.EightWay.Deadzone, 1e-12)
	assert.InDelta(t, 0.35, d.EightWay.Slope, 1e-12)
	assert.InDelta(t, math.Cos(25*math.Pi/180), d.CardinalAngle, 1e-12)
	assert.InDelta(t, math.Cos(40*math.Pi/180), d.StickyCardinalAngle, 1e-12)
	assert.Less(t, d.StickyCardinalAngle, d.CardinalAngle)
	assert.True(t, d.DynamicDeadzone)
	assert.InDelta(t, 0.04, d.DynamicDeadzoneDelta, 1e-12)
}

func TestFlagsAndEnvOverrideFile(t *testing.T) {
	path := writeConfig(t, "dpad:\n  mode: 4way\n  algorithm: slope\n")
	t.Setenv("ANALOGDPAD_DPAD_ALGORITHM", "sticky")

	c, err := load(t, "--config", path, "--mode", "8way", "--addr", ":9999")
	require.NoError(t, err)
	assert.Equal(t, "8way", c.Dpad.Mode)
	assert.Equal(t, "sticky", c.Dpad.Algorithm)
	assert.Equal(t, ":9999", c.Server.Addr)
}

func TestMissingExplicitFile(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	Flags(fs)
	require.NoError(t, fs.Parse([]string{"--config", filepath.Join(t.TempDir(), "nope.yaml")}))
	_, err := NewLoader(fs)
	assert.Error(t, err)
}

func TestLoadRejectsInvalid(t *testing.T) {
	_, err := load(t, "--config", writeConfig(t, "dpad:\n  mode: gated\n"))
	assert.ErrorContains(t, err, "four_way_buttons")
}

func validConfig() Config {
	p := Params{Deadzone: 30, Slope: 20, Offset: 40, Debounce: 5}
	return Config{
		Dpad: Dpad{
			Enabled:   true,
			Source:    "left",
			Mode:      "8way",
			Algorithm: "slope",
			EightWay:  p,
			FourWay:   p,
			Sticky:    Sticky{CardinalAngle: 60, Stickiness: 20, DynamicDeadzoneDelta: 5},
		},
		Server: Server{Addr: ":8080"},
		Log:    Log{Level: "info"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
		errMsg string
	}{
		{"valid", func(c *Config) {}, ""},
		{"secondary stick", func(c *Config) { c.Dpad.Source = "secondary" }, ""},
		{"deadzone past offset is only a warning", func(c *Config) { c.Dpad.EightWay.Deadzone = 50 }, ""},
		{"unknown source", func(c *Config) { c.Dpad.Source = "middle" }, "dpad.source"},
		{"unknown mode", func(c *Config) { c.Dpad.Mode = "6way" }, "dpad.mode"},
		{"unknown algorithm", func(c *Config) { c.Dpad.Algorithm = "magic" }, "dpad.algorithm"},
		{"gated without buttons", func(c *Config) { c.Dpad.Mode = "gated" }, "four_way_buttons"},
		{"button out of range", func(c *Config) { c.Dpad.EnableButtons = []int{32} }, "dpad.enable_buttons"},
		{"negative button", func(c *Config) { c.Dpad.FourWayButtons = []int{-1} }, "dpad.four_way_buttons"},
		{"negative slope", func(c *Config) { c.Dpad.EightWay.Slope = -1 }, "dpad.eight_way.slope"},
		{"deadzone over 100", func(c *Config) { c.Dpad.FourWay.Deadzone = 101 }, "dpad.four_way.deadzone"},
		{"NaN squareness", func(c *Config) { c.Dpad.FourWay.Squareness = math.NaN() }, "dpad.four_way.squareness"},
		{"cardinal angle", func(c *Config) { c.Dpad.Sticky.CardinalAngle = 91 }, "cardinal_angle"},
		{"stickiness", func(c *Config) { c.Dpad.Sticky.Stickiness = -5 }, "stickiness"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.modify(&c)
			err := c.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.errMsg)
			}
		})
	}
}

func TestClassifierDefaults(t *testing.T) {
	c := validConfig()
	d, err := c.Dpad.Classifier()
	require.NoError(t, err)

	assert.True(t, d.Enabled)
	assert.Equal(t, dpad.ModeEightWay, d.Mode)
	assert.False(t, d.EnableGate.Configured())
	assert.False(t, d.FourWayGate.Configured())
	assert.InDelta(t, 0.3, d.EightWay.Deadzone, 1e-12)
	assert.InDelta(t, 0.4, d.FourWay.Offset, 1e-12)
	assert.InDelta(t, 0.05, d.FourWay.Debounce, 1e-12)
	assert.InDelta(t, math.Cos(30*math.Pi/180), d.CardinalAngle, 1e-12)
}

func TestDump(t *testing.T) {
	c := validConfig()
	out, err := Dump(&c)
	require.NoError(t, err)
	assert.Contains(t, string(out), "four_way:")
	assert.Contains(t, string(out), "cardinal_angle: 60")
}
