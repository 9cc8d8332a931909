package config

import (
	"fmt"
	"os"
	"time"

	"pricetrack-service/internal/domain"

	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML overlay. Zero values leave the environment
// setting untouched.
type fileConfig struct {
	Symbols      []string `yaml:"symbols"`
	PollInterval string   `yaml:"poll_interval"`
	Storage      string   `yaml:"storage"`
	SQLitePath   string   `yaml:"sqlite_path"`
	DatabaseURL  string   `yaml:"database_url"`
	Provider     string   `yaml:"provider"`
}

// LoadFile applies the YAML file at path on top of cfg.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %q: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %q: %w", path, err)
	}
	if fc.PollInterval != "" {
		d, err := time.ParseDuration(fc.PollInterval)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid poll_interval %q", fc.PollInterval)
		}
		cfg.PollInterval = d
	}
	if len(fc.Symbols) > 0 {
		syms := make([]domain.Symbol, 0, len(fc.Symbols))
		seen := map[domain.Symbol]bool{}
		for _, s := range fc.Symbols {
			sym := domain.NormalizeSymbol(s)
			if sym == "" || seen[sym] {
				continue
			}
			seen[sym] = true
			syms = append(syms, sym)
		}
		cfg.Symbols = syms
	}
	if fc.Storage != "" {
		cfg.Storage = fc.Storage
	}
	if fc.SQLitePath != "" {
		cfg.SQLitePath = fc.SQLitePath
	}
	if fc.DatabaseURL != "" {
		cfg.DatabaseURL = fc.DatabaseURL
	}
	if fc.Provider != "" {
		cfg.Provider = fc.Provider
	}
	return nil
}
