// Package config loads the bridge settings from flags, environment and an
// optional config file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/soar/ps3arcade/internal/gamepad"
	"github.com/soar/ps3arcade/internal/hub"
	"github.com/soar/ps3arcade/internal/ps3"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "PS3ARCADE"
	FileName  = "ps3arcade"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Listen           string        `mapstructure:"listen"`
	Sensitivity      uint8         `mapstructure:"sensitivity"`
	PollInterval     time.Duration `mapstructure:"poll_interval"`
	FullSyncInterval time.Duration `mapstructure:"full_sync_interval"`
	Debug            bool          `mapstructure:"debug"`
	NoColor          bool          `mapstructure:"no_color"`
	Tray             bool          `mapstructure:"tray"`
	Metrics          bool          `mapstructure:"metrics"`
	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

func Default() Config {
	return Config{
		Listen:           ":8080",
		Sensitivity:      ps3.DefaultSensitivity,
		PollInterval:     gamepad.DefaultPollInterval,
		FullSyncInterval: hub.DefaultFullSyncInterval,
		Tray:             runtime.GOOS == "windows",
		Metrics:          true,
	}
}

// Flags returns the command line flags, defaulted from Default.
func Flags(name string) *pflag.FlagSet {
	d := Default()
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringP("config", "c", "", "config file path")
	fs.StringP("listen", "l", d.Listen, "HTTP listen address")
	fs.Uint8P("sensitivity", "s", d.Sensitivity, "analog stick sensitivity (1..116), higher needs more travel")
	fs.Duration("poll-interval", d.PollInterval, "controller poll interval")
	fs.Duration("full-sync-interval", d.FullSyncInterval, "interval of full state messages to clients")
	fs.BoolP("debug", "d", d.Debug, "debug logging")
	fs.Bool("no-color", d.NoColor, "disable colored log output")
	fs.Bool("tray", d.Tray, "show a system tray icon")
	fs.Bool("metrics", d.Metrics, "serve Prometheus metrics on /metrics")
	return fs
}

// Load reads the config. fs must come from Flags and be parsed already.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	d := Default()
	v.SetDefault("listen", d.Listen)
	v.SetDefault("sensitivity", d.Sensitivity)
	v.SetDefault("poll_interval", d.PollInterval)
	v.SetDefault("full_sync_interval", d.FullSyncInterval)
	v.SetDefault("debug", d.Debug)
	v.SetDefault("no_color", d.NoColor)
	v.SetDefault("tray", d.Tray)
	v.SetDefault("metrics", d.Metrics)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		fs.VisitAll(func(f *pflag.Flag) {
			if f.Name == "config" {
				return
			}
			_ = v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
		})
	}

	path := ""
	if fs != nil {
		path, _ = fs.GetString("config")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, FileName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	// Range-check before decoding, uint8 decoding wraps silently.
	if s := v.GetInt("sensitivity"); s < int(ps3.MinSensitivity) || s > int(ps3.MaxSensitivity) {
		return Config{}, fmt.Errorf("%w: sensitivity %d: %w", ErrInvalid, s, ps3.ErrSensitivityRange)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	c.File = v.ConfigFileUsed()

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if c.Sensitivity < ps3.MinSensitivity || c.Sensitivity > ps3.MaxSensitivity {
		return fmt.Errorf("%w: sensitivity %d: %w", ErrInvalid, c.Sensitivity, ps3.ErrSensitivityRange)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("%w: poll_interval must be positive", ErrInvalid)
	}
	if c.FullSyncInterval <= 0 {
		return fmt.Errorf("%w: full_sync_interval must be positive", ErrInvalid)
	}
	if c.Listen == "" {
		return fmt.Errorf("%w: listen address is empty", ErrInvalid)
	}
	return nil
}

// URL is the local address of the web view, whatever interface Listen binds.
func (c Config) URL() string {
	port := c.Listen
	if _, p, err := net.SplitHostPort(c.Listen); err == nil {
		port = p
	}
	return "http://localhost:" + port
}
