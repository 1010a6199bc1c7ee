package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

func loadTOML(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer f.Close()

	cfg := Default()
	dec := toml.NewDecoder(f).DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML config %s: %w", path, err)
	}
	if cfg.Weights == nil {
		cfg.Weights = map[string]float64{}
	}
	return cfg, nil
}
