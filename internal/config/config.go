// Package config loads mini.yml, the interpreter and REPL settings file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"mini-lang/internal/runtime"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "mini.yml"

// Config models the mini.yml contents.
type Config struct {
	Path        string            `yaml:"-"`
	Interpreter InterpreterConfig `yaml:"interpreter"`
	REPL        REPLConfig        `yaml:"repl"`
}

// InterpreterConfig holds the runtime options.
type InterpreterConfig struct {
	RecheckConditions *bool `yaml:"recheck_conditions"`
	MaxLoopIterations int   `yaml:"max_loop_iterations"`
}

// REPLConfig holds line-editor settings.
type REPLConfig struct {
	HistoryFile string `yaml:"history_file"`
	Color       *bool  `yaml:"color"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{}
}

// Load parses the config at path. An empty path means DefaultFile, which may
// be missing; an explicitly named file must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	file, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()

	cfg, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if abs, err := filepath.Abs(path); err == nil {
		cfg.Path = abs
	}
	return cfg, nil
}

// Decode reads a config document. Unknown keys are rejected.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Interpreter.MaxLoopIterations < 0 {
		return fmt.Errorf("interpreter.max_loop_iterations must not be negative, got %d", c.Interpreter.MaxLoopIterations)
	}
	return nil
}

// Options converts the interpreter section to runtime options.
func (c *Config) Options() runtime.Options {
	opts := runtime.DefaultOptions()
	if c.Interpreter.RecheckConditions != nil {
		opts.RecheckConditions = *c.Interpreter.RecheckConditions
	}
	opts.MaxLoopIterations = c.Interpreter.MaxLoopIterations
	return opts
}

// HistoryFile returns the REPL history path with a leading ~ expanded.
// It defaults to ~/.mini_history.
func (c *Config) HistoryFile() string {
	path := strings.TrimSpace(c.REPL.HistoryFile)
	if path == "" {
		path = "~/.mini_history"
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}

// Color reports whether the REPL colors its output. Defaults to true.
func (c *Config) Color() bool {
	return c.REPL.Color == nil || *c.REPL.Color
}
