package config

import (
	"os"
	"path/filepath"

	"github.com/standardbeagle/remap/internal/debug"
)

// Config file names looked up by Load, in order of preference
const (
	KDLFileName  = ".remap.kdl"
	TOMLFileName = ".remap.toml"
)

// Matching defaults. Budgets are fractions of an analyzer set's total weight.
const (
	DefaultMaxMismatch        = 0.5
	DefaultAbsThreshold       = 0.6
	DefaultRelThreshold       = 0.05
	DefaultInsnCacheThreshold = 1000
)

type Config struct {
	Matching Matching           `toml:"matching"`
	Weights  map[string]float64 `toml:"weights"` // analyzer name -> weight override
	Include  []string           `toml:"include"` // class name globs; empty means all
	Exclude  []string           `toml:"exclude"`
	Debug    bool               `toml:"debug"`

	// Path is the file the config was read from, empty for defaults
	Path string `toml:"-"`
}

type Matching struct {
	// Ranking budgets: a candidate is dropped once the weight it has lost
	// reaches this fraction of the total analyzer weight
	ClassMaxMismatch  float64 `toml:"class_max_mismatch"`
	MethodMaxMismatch float64 `toml:"method_max_mismatch"`
	FieldMaxMismatch  float64 `toml:"field_max_mismatch"`

	// Acceptance: the best candidate's normalized score must reach AbsThreshold
	// and lead the runner-up by at least RelThreshold
	AbsThreshold float64 `toml:"abs_threshold"`
	RelThreshold float64 `toml:"rel_threshold"`

	Workers            int `toml:"workers"`              // 0 = auto-detect (NumCPU)
	InsnCacheThreshold int `toml:"insn_cache_threshold"` // min len(a)*len(b) for cached alignments
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Matching: Matching{
			ClassMaxMismatch:   DefaultMaxMismatch,
			MethodMaxMismatch:  DefaultMaxMismatch,
			FieldMaxMismatch:   DefaultMaxMismatch,
			AbsThreshold:       DefaultAbsThreshold,
			RelThreshold:       DefaultRelThreshold,
			InsnCacheThreshold: DefaultInsnCacheThreshold,
		},
		Weights: map[string]float64{},
		Include: []string{},
		Exclude: []string{},
	}
}

// Load reads .remap.kdl from dir, falling back to .remap.toml and then to
// the defaults. The result is validated.
func Load(dir string) (*Config, error) {
	for _, name := range []string{KDLFileName, TOMLFileName} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}

	debug.Log(debug.ComponentConfig, "no config file in %s, using defaults\n", dir)
	cfg := Default()
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads an explicit config file. The format follows the extension:
// .toml is TOML, anything else KDL.
func LoadFile(path string) (*Config, error) {
	var (
		cfg *Config
		err error
	)
	if filepath.Ext(path) == ".toml" {
		cfg, err = loadTOML(path)
	} else {
		cfg, err = loadKDL(path)
	}
	if err != nil {
		return nil, err
	}
	cfg.Path = path

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	debug.Log(debug.ComponentConfig, "loaded %s\n", path)
	return cfg, nil
}
