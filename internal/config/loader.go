package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override. Nested keys use a
// double underscore: SELFARENA_GAME__SEED -> game.seed.
const EnvPrefix = "SELFARENA_"

// Overrides are values given explicitly on the command line. Nil fields
// leave the loaded value alone.
type Overrides struct {
	Seed            *int64
	GamesPerMatchup *int
	Swap            *bool
	Batches         *int
	Quiet           *bool
	LogLevel        *string
	MetricsAddr     *string
}

func (o Overrides) apply(c *Config) {
	if o.Seed != nil {
		c.Game.Seed = *o.Seed
	}
	if o.GamesPerMatchup != nil {
		c.Game.GamesPerMatchup = *o.GamesPerMatchup
	}
	if o.Swap != nil {
		c.Game.SwapPositions = *o.Swap
	}
	if o.Batches != nil {
		c.Execution.Batches = *o.Batches
	}
	if o.Quiet != nil {
		c.Quiet = *o.Quiet
	}
	if o.LogLevel != nil {
		c.LogLevel = *o.LogLevel
	}
	if o.MetricsAddr != nil {
		c.MetricsAddr = *o.MetricsAddr
	}
}

// Load builds a Config by layering, from low to high precedence:
//  1. defaults (New)
//  2. the file at path, YAML or TOML by extension, if path is set
//  3. env (prefix SELFARENA_)
//  4. overrides
//
// The result is resolved against the file's directory and validated.
func Load(ctx context.Context, path string, ov Overrides) (*Config, error) {
	base := New()

	k := koanf.New(".")

	dir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
		dir = filepath.Dir(abs)
	}

	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	ov.apply(&cfg)

	if err := cfg.resolve(dir); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return yaml.Parser(), nil
	case ".toml":
		return TOMLParser(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported config format %q", ErrLoadConfig, filepath.Ext(path))
	}
}
