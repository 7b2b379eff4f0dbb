package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/kestrel-db/sqlsyntax"
)

// Output modes.
const (
	ModeTokens  = "tokens"
	ModeAST     = "ast"
	ModeFormat  = "format"
	ModeAnalyze = "analyze"
	ModeCheck   = "check"
)

// Config is the optional YAML configuration of the command. Flags given on
// the command line override the file.
type Config struct {
	Mode     string                    `yaml:"mode"`
	Workers  int                       `yaml:"workers"`
	MaxDepth int                       `yaml:"max_depth"`
	Analysis sqlsyntax.AnalysisOptions `yaml:"analysis"`
}

func defaultConfig() Config {
	return Config{
		Mode:    ModeFormat,
		Workers: runtime.NumCPU(),
	}
}

// loadConfig reads path over the defaults. Unknown keys are an error.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	// An empty file decodes to io.EOF and keeps the defaults.
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Mode {
	case ModeTokens, ModeAST, ModeFormat, ModeAnalyze, ModeCheck:
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative, got %d", c.MaxDepth)
	}
	return nil
}
