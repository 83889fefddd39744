// Package config handles arcboot.toml boot configuration.
package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/wippyai/arcboot/arena"
	"github.com/wippyai/arcboot/errors"
	"github.com/wippyai/arcboot/firmware"
	"github.com/wippyai/arcboot/interp"
)

// FileName is the conventional configuration file name.
const FileName = "arcboot.toml"

// Config is the arcboot host configuration. The interpreter itself has no
// configuration surface; these settings only shape the bootstrap.
type Config struct {
	Boot Boot `toml:"boot"`
	Log  Log  `toml:"log"`
}

// Boot locates the program and sizes the host resources.
type Boot struct {
	Volume         string `toml:"volume"`
	Program        string `toml:"program"`
	NextStage      string `toml:"next_stage"`
	MaxProgramSize int    `toml:"max_program_size"`
	HeapWords      int    `toml:"heap_words"`
}

// Log configures the zap logger built by the commands.
type Log struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Boot: Boot{
			Volume:         ".",
			Program:        firmware.DefaultProgram,
			MaxProgramSize: interp.MaxProgramSize,
			HeapWords:      arena.DefaultWords,
		},
		Log: Log{
			Level: "info",
		},
	}
}

// Load reads path over the defaults. A missing file is not an error when
// optional is set.
func Load(path string, optional bool) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if optional && stderrors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, errors.New(errors.PhaseConfig, errors.KindNotFound).
			Path(path).
			Detail("read config").
			Cause(err).
			Build()
	}

	if err := Decode(string(data), cfg); err != nil {
		if e, ok := err.(*errors.Error); ok {
			e.Path = []string{path}
		}
		return nil, err
	}
	return cfg, nil
}

// Decode parses TOML text into cfg and validates the result.
func Decode(text string, cfg *Config) error {
	md, err := toml.Decode(text, cfg)
	if err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Detail("unknown keys: %s", strings.Join(keys, ", ")).
			Build()
	}
	return cfg.Validate()
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Boot.Program == "" {
		return errors.InvalidInput(errors.PhaseConfig, "boot.program must not be empty")
	}
	if c.Boot.MaxProgramSize <= 0 || c.Boot.MaxProgramSize > interp.MaxProgramSize {
		return errors.New(errors.PhaseConfig, errors.KindOutOfRange).
			Op("boot.max_program_size").
			Value(c.Boot.MaxProgramSize).
			Detail("must be between 1 and %d", interp.MaxProgramSize).
			Build()
	}
	if c.Boot.HeapWords <= 0 {
		return errors.New(errors.PhaseConfig, errors.KindOutOfRange).
			Op("boot.heap_words").
			Value(c.Boot.HeapWords).
			Detail("must be positive").
			Build()
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Op("log.level").
			Value(c.Log.Level).
			Detail("unknown level %q", c.Log.Level).
			Build()
	}
	return nil
}
