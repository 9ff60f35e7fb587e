package config

import (
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	fileName  = "analogdpad"
	envPrefix = "ANALOGDPAD"
)

// Loader reads Config from file, environment and flags, in viper's order of
// precedence: flag, env, file, default.
type Loader struct {
	v *viper.Viper
}

// Flags registers the command line flags understood by NewLoader.
func Flags(fs *pflag.FlagSet) {
	fs.StringP("config", "c", "", "path to the config file")
	fs.String("addr", "", "HTTP listen address")
	fs.String("log-level", "", "log level (debug, info, warn, error)")
	fs.String("source", "", "stick to read: left or right")
	fs.String("mode", "", "8way, 4way or gated")
	fs.String("algorithm", "", "eight-way algorithm: slope or sticky")
}

var flagKeys = map[string]string{
	"addr":      "server.addr",
	"log-level": "log.level",
	"source":    "dpad.source",
	"mode":      "dpad.mode",
	"algorithm": "dpad.algorithm",
}

// NewLoader prepares a loader. fs may be nil when no flags are parsed.
func NewLoader(fs *pflag.FlagSet) (*Loader, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := ""
	if fs != nil {
		path, _ = fs.GetString("config")
		for flag, key := range flagKeys {
			f := fs.Lookup(flag)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, errors.Wrapf(err, "bind flag %s", flag)
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(fileName)
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/analogdpad")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read config")
		}
		log.Info("No config file found, using defaults")
	} else {
		log.WithField("file", v.ConfigFileUsed()).Info("Config loaded")
	}

	return &Loader{v: v}, nil
}

// Load decodes and validates the current settings.
func (l *Loader) Load() (*Config, error) {
	var c Config
	if err := l.v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &c, nil
}

// Watch calls fn with every valid revision of the config file. Invalid
// revisions are logged and skipped so the last good settings stay active.
func (l *Loader) Watch(fn func(*Config)) {
	if l.v.ConfigFileUsed() == "" {
		return
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		c, err := l.Load()
		if err != nil {
			log.WithField("file", e.Name).Errorf("Ignoring config change: %v", err)
			return
		}
		log.WithField("file", e.Name).Info("Config reloaded")
		fn(c)
	})
	l.v.WatchConfig()
}

// Dump renders c as YAML, in the layout of the config file.
func Dump(c *Config) ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, "encode config")
	}
	return out, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("dpad.enabled", true)
	v.SetDefault("dpad.source", "left")
	v.SetDefault("dpad.mode", "8way")
	v.SetDefault("dpad.algorithm", "slope")
	v.SetDefault("dpad.enable_buttons", []int{})
	v.SetDefault("dpad.four_way_buttons", []int{})
	for _, section := range []string{"dpad.eight_way", "dpad.four_way"} {
		v.SetDefault(section+".deadzone", 30)
		v.SetDefault(section+".squareness", 0)
		v.SetDefault(section+".slope", 20)
		v.SetDefault(section+".offset", 40)
		v.SetDefault(section+".debounce", 5)
	}
	v.SetDefault("dpad.sticky.cardinal_angle", 60)
	v.SetDefault("dpad.sticky.stickiness", 20)
	v.SetDefault("dpad.sticky.dynamic_deadzone", false)
	v.SetDefault("dpad.sticky.dynamic_deadzone_delta", 5)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("log.level", "info")
}
