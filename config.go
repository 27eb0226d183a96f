package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/BurntSushi/xdg"
	"go.uber.org/zap/zapcore"
)

// System-wide fallback when no XDG config exists.
const etcConfigPath = "/etc/screenwatch/config.toml"

// Config is loaded once at startup and read-only afterwards. The monitor
// receives it by reference; nothing re-reads the file while running.
type Config struct {
	// Command run (through the shell) once display events settle
	Command string
	// Desktop environments that reconfigure displays themselves
	ExcludedDesktops []string
	// Seconds to wait after the last drm event before acting
	DebounceDelay float64
	// debug, info, warning or error
	LogLevel string
}

func defaultConfig() *Config {
	return &Config{
		Command: "autorandr -c",
		ExcludedDesktops: []string{
			"COSMIC", "GNOME", "KDE", "Plasma", "XFCE", "X-Cinnamon",
		},
		DebounceDelay: 2.0,
		LogLevel:      "info",
	}
}

// configPath returns the config file to use and whether one was found.
// Order: explicit path, ScreenwatchConfig env override, XDG dirs, /etc.
func configPath(override string) (string, bool) {
	if override != "" {
		return override, true
	}
	paths := xdg.Paths{
		Override:  os.Getenv("ScreenwatchConfig"),
		XDGSuffix: "screenwatch",
	}
	if path, err := paths.ConfigFile("config.toml"); err == nil {
		return path, true
	}
	if _, err := os.Stat(etcConfigPath); err == nil {
		return etcConfigPath, true
	}
	return "", false
}

func loadConfig(path string) (*Config, error) {
	conf := defaultConfig()
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if _, err = toml.Decode(string(bs), conf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err = conf.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return conf, nil
}

// getConfig loads settings from the first config file found, or returns
// the defaults when there is none. An unreadable or invalid file is an
// error; the daemon must not start on a half-read config.
func getConfig(override string) (*Config, error) {
	path, found := configPath(override)
	if !found {
		return defaultConfig(), nil
	}
	return loadConfig(path)
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Command) == "" {
		return errors.New("Command must not be empty")
	}
	if c.DebounceDelay < 0 {
		return fmt.Errorf("DebounceDelay must be >= 0, got %v", c.DebounceDelay)
	}
	if _, err := c.zapLevel(); err != nil {
		return fmt.Errorf("LogLevel %q: want debug, info, warning or error",
			c.LogLevel)
	}
	return nil
}

// zapLevel parses LogLevel. "warning" is accepted for zap's "warn".
func (c *Config) zapLevel() (zapcore.Level, error) {
	level := strings.ToLower(strings.TrimSpace(c.LogLevel))
	if level == "warning" {
		level = "warn"
	}
	return zapcore.ParseLevel(level)
}

func (c *Config) debounce() time.Duration {
	return time.Duration(c.DebounceDelay * float64(time.Second))
}
