package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variables that steer loading itself.
const (
	EnvPrefix     = "RENTSCORE_"
	EnvConfigFile = EnvPrefix + "CONFIG"
	EnvDotenvFile = EnvPrefix + "DOTENV"
	defaultDotenv = ".env"
)

// legacyEnv maps unprefixed keys from older .env files onto config fields.
// A RENTSCORE_ value or a config file entry always wins.
var legacyEnv = []struct {
	key   string
	field func(*Config) *string
}{
	{"CENSUS_API_KEY", func(c *Config) *string { return &c.CensusAPIKey }},
	{"RENTCAST_API_KEY", func(c *Config) *string { return &c.RentCastAPIKey }},
}

// Load builds a Config by layering defaults, an optional file, a .env file
// and env vars. Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if RENTSCORE_CONFIG is set
//  3. .env (RENTSCORE_DOTENV, else ./.env if present); never overrides real env
//  4. env (prefix RENTSCORE_)
//  5. CENSUS_API_KEY / RENTCAST_API_KEY for keys still empty
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	if err := loadDotenv(); err != nil {
		return nil, err
	}

	// RENTSCORE_TOP_N -> top_n; underscores are kept to match the flat koanf tags.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	for _, l := range legacyEnv {
		if dst := l.field(&cfg); *dst == "" {
			*dst = os.Getenv(l.key)
		}
	}

	if err := cfg.check(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadDotenv() error {
	path := os.Getenv(EnvDotenvFile)
	explicit := path != ""
	if !explicit {
		path = defaultDotenv
	}
	err := godotenv.Load(path)
	if err == nil {
		return nil
	}
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("%w: dotenv %s: %w", ErrLoadConfig, path, err)
}
