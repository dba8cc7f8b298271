package config

import "strings"

// Config holds every softwrap setting.
type Config struct {
	Wrap    WrapConfig    `toml:"wrap"`
	Editor  EditorConfig  `toml:"editor"`
	Logging LoggingConfig `toml:"logging"`
}

// WrapConfig controls soft wrapping.
type WrapConfig struct {
	// Width is the wrap width in cells. 0 follows the terminal width.
	Width int `toml:"width"`
	// Fold breaks words wider than Width across rows.
	Fold bool `toml:"fold"`
	// Disabled turns soft wrapping off entirely.
	Disabled bool `toml:"disabled"`
}

// EditorConfig holds text measurement settings.
type EditorConfig struct {
	TabSize int `toml:"tab_size"`
	// ScrollMargin keeps this many rows between the cursor and the top
	// or bottom of the screen.
	ScrollMargin int `toml:"scroll_margin"`
}

// LoggingConfig controls the application logger.
type LoggingConfig struct {
	Level string `toml:"level"`
	// File receives log output. Empty discards logs, since the terminal
	// is owned by the viewer.
	File string `toml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Wrap:    WrapConfig{Width: 0, Fold: true},
		Editor:  EditorConfig{TabSize: 4},
		Logging: LoggingConfig{Level: "info"},
	}
}

var validLevels = []string{"debug", "info", "warn", "warning", "error"}

// Validate checks every setting and returns the first problem found.
func (c *Config) Validate() error {
	if c.Wrap.Width < 0 {
		return &ValidationError{Path: "wrap.width", Message: "must not be negative", Value: c.Wrap.Width}
	}
	if c.Editor.TabSize < 1 {
		return &ValidationError{Path: "editor.tab_size", Message: "must be at least 1", Value: c.Editor.TabSize}
	}
	if c.Editor.ScrollMargin < 0 {
		return &ValidationError{Path: "editor.scroll_margin", Message: "must not be negative", Value: c.Editor.ScrollMargin}
	}
	level := strings.ToLower(c.Logging.Level)
	for _, valid := range validLevels {
		if level == valid {
			return nil
		}
	}
	return &ValidationError{
		Path:    "logging.level",
		Message: "must be one of debug, info, warn, error",
		Value:   c.Logging.Level,
	}
}

// Clone returns a copy of c.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
