package config

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"

	"github.com/bmatcuk/doublestar/v4"

	remaperrors "github.com/standardbeagle/remap/internal/errors"
)

// Validator validates configuration and sets smart defaults
type Validator struct{}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAndSetDefaults validates configuration and applies smart defaults.
// The first invalid setting is returned as a ConfigError.
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	if err := v.validateMatching(&cfg.Matching); err != nil {
		return err
	}

	for name, w := range cfg.Weights {
		if w < 0 {
			return remaperrors.NewConfigError("weights."+name, formatFloat(w), errors.New("weight cannot be negative"))
		}
	}

	for _, list := range []struct {
		field    string
		patterns []string
	}{{"include", cfg.Include}, {"exclude", cfg.Exclude}} {
		for _, p := range list.patterns {
			if !doublestar.ValidatePattern(p) {
				return remaperrors.NewConfigError(list.field, p, errors.New("invalid glob pattern"))
			}
		}
	}

	v.setSmartDefaults(cfg)
	return nil
}

func (v *Validator) validateMatching(m *Matching) error {
	budgets := []struct {
		field string
		value float64
	}{
		{"matching.class_max_mismatch", m.ClassMaxMismatch},
		{"matching.method_max_mismatch", m.MethodMaxMismatch},
		{"matching.field_max_mismatch", m.FieldMaxMismatch},
	}
	for _, b := range budgets {
		if b.value <= 0 || b.value > 1 {
			return remaperrors.NewConfigError(b.field, formatFloat(b.value),
				fmt.Errorf("must be in (0, 1], got %g", b.value))
		}
	}

	if m.AbsThreshold < 0 || m.AbsThreshold > 1 {
		return remaperrors.NewConfigError("matching.abs_threshold", formatFloat(m.AbsThreshold),
			fmt.Errorf("must be in [0, 1], got %g", m.AbsThreshold))
	}
	if m.RelThreshold < 0 || m.RelThreshold > 1 {
		return remaperrors.NewConfigError("matching.rel_threshold", formatFloat(m.RelThreshold),
			fmt.Errorf("must be in [0, 1], got %g", m.RelThreshold))
	}

	// Workers: 0 means auto-detect (set by smart defaults)
	if m.Workers < 0 {
		return remaperrors.NewConfigError("matching.workers", strconv.Itoa(m.Workers),
			fmt.Errorf("cannot be negative, got %d", m.Workers))
	}
	if m.InsnCacheThreshold < 0 {
		return remaperrors.NewConfigError("matching.insn_cache_threshold", strconv.Itoa(m.InsnCacheThreshold),
			fmt.Errorf("cannot be negative, got %d", m.InsnCacheThreshold))
	}
	return nil
}

// setSmartDefaults applies defaults based on system capabilities
func (v *Validator) setSmartDefaults(cfg *Config) {
	if cfg.Matching.Workers == 0 {
		cfg.Matching.Workers = runtime.NumCPU()
	}
	if cfg.Weights == nil {
		cfg.Weights = map[string]float64{}
	}
}

// ValidateConfig is a convenience function for quick validation
func ValidateConfig(cfg *Config) error {
	return NewValidator().ValidateAndSetDefaults(cfg)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
