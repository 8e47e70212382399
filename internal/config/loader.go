package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "TODO_"

const maxConfigFileSize = 64 * 1024

// settings mirrors the keys accepted in config.yaml.
type settings struct {
	Backend string      `koanf:"backend"`
	API     APIConfig   `koanf:"api"`
	Local   LocalConfig `koanf:"local"`
}

// Load builds a Config for configDir, then applies config.yaml and
// environment overrides on top of the defaults.
//
// Precedence (highest first):
//  1. TODO_* environment variables (TODO_API_BASE_URL -> api.base_url)
//  2. <dir>/config.yaml
//  3. defaults
//
// A missing config.yaml is not an error.
func Load(configDir string) (*Config, error) {
	cfg, err := New(configDir)
	if err != nil {
		return nil, err
	}

	k := koanf.New(".")

	content, err := readConfigFile(cfg.ConfigPath())
	if err != nil {
		return nil, err
	}
	if content != nil {
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", cfg.ConfigPath(), err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var s settings
	if err := k.Unmarshal("", &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if s.Backend != "" {
		cfg.Backend = strings.ToLower(strings.TrimSpace(s.Backend))
	}
	if s.API.BaseURL != "" {
		cfg.API.BaseURL = s.API.BaseURL
	}
	cfg.API.Timeout = s.API.Timeout
	cfg.Local.Path = s.Local.Path

	return cfg, nil
}

// envKey maps TODO_API_BASE_URL to api.base_url: the first segment
// names the section, the rest is the field.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	return parts[0] + "." + parts[1]
}

func readConfigFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("config path is a directory: %s", path)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes", info.Size())
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}
