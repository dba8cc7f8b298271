package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "SOFTWRAP_"

// Loader resolves a Config from defaults, an optional TOML file and the
// environment.
type Loader struct {
	path      string
	readFile  func(string) ([]byte, error)
	lookupEnv func(string) (string, bool)
}

// NewLoader creates a loader for the config file at path. An empty path
// skips the file layer.
func NewLoader(path string) *Loader {
	return &Loader{
		path:      path,
		readFile:  os.ReadFile,
		lookupEnv: os.LookupEnv,
	}
}

// Path returns the config file path.
func (l *Loader) Path() string {
	return l.path
}

// Load builds and validates the configuration. A config file that does
// not exist is not an error; the remaining layers still apply.
func (l *Loader) Load() (*Config, error) {
	cfg := Default()

	if l.path != "" {
		data, err := l.readFile(l.path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// File doesn't exist, not an error
		case err != nil:
			return nil, fmt.Errorf("reading config file %s: %w", l.path, err)
		default:
			if err := decode(l.path, bytes.NewReader(data), cfg); err != nil {
				return nil, err
			}
		}
	}

	if err := l.applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(source string, r io.Reader, cfg *Config) error {
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			perr.Line, perr.Column = decodeErr.Position()
		}
		return perr
	}
	return nil
}

// applyEnv overrides cfg with SOFTWRAP_* variables.
func (l *Loader) applyEnv(cfg *Config) error {
	ints := map[string]*int{
		EnvPrefix + "WRAP_WIDTH": &cfg.Wrap.Width,
		EnvPrefix + "TAB_SIZE":   &cfg.Editor.TabSize,
	}
	for name, target := range ints {
		val, ok := l.lookupEnv(name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return &ValidationError{Path: name, Message: "must be an integer", Value: val}
		}
		*target = n
	}

	bools := map[string]*bool{
		EnvPrefix + "FOLD":         &cfg.Wrap.Fold,
		EnvPrefix + "WRAP_DISABLE": &cfg.Wrap.Disabled,
	}
	for name, target := range bools {
		val, ok := l.lookupEnv(name)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(strings.TrimSpace(val))
		if err != nil {
			return &ValidationError{Path: name, Message: "must be a boolean", Value: val}
		}
		*target = b
	}

	if val, ok := l.lookupEnv(EnvPrefix + "LOG_LEVEL"); ok {
		cfg.Logging.Level = val
	}
	if val, ok := l.lookupEnv(EnvPrefix + "LOG_FILE"); ok {
		cfg.Logging.File = val
	}
	return nil
}
