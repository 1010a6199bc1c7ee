package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	remaperrors "github.com/standardbeagle/remap/internal/errors"
)

func TestParseKDL_Defaults(t *testing.T) {
	cfg, err := parseKDL(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseKDL_FullDocument(t *testing.T) {
	content := `
matching {
    class_max_mismatch 0.4
    method_max_mismatch 0.3
    field_max_mismatch 1
    abs_threshold 0.75
    rel_threshold 0.1
    workers 3
    insn_cache_threshold 500
}
weights {
    class-strings 12.5
    method-name 0
}
include "com/example/**"
exclude "java/**" "javax/**"
debug true
`
	cfg, err := parseKDL([]byte(content))
	require.NoError(t, err)

	assert.Equal(t, Matching{
		ClassMaxMismatch:   0.4,
		MethodMaxMismatch:  0.3,
		FieldMaxMismatch:   1,
		AbsThreshold:       0.75,
		RelThreshold:       0.1,
		Workers:            3,
		InsnCacheThreshold: 500,
	}, cfg.Matching)
	assert.Equal(t, map[string]float64{"class-strings": 12.5, "method-name": 0}, cfg.Weights)
	assert.Equal(t, []string{"com/example/**"}, cfg.Include)
	assert.Equal(t, []string{"java/**", "javax/**"}, cfg.Exclude)
	assert.True(t, cfg.Debug)
}

func TestParseKDL_PartialKeepsDefaults(t *testing.T) {
	cfg, err := parseKDL([]byte("matching {\n    abs_threshold 0.9\n}\n"))
	require.NoError(t, err)

	assert.Equal(t, 0.9, cfg.Matching.AbsThreshold)
	assert.Equal(t, DefaultRelThreshold, cfg.Matching.RelThreshold)
	assert.Equal(t, DefaultMaxMismatch, cfg.Matching.ClassMaxMismatch)
	assert.Equal(t, DefaultInsnCacheThreshold, cfg.Matching.InsnCacheThreshold)
}

func TestParseKDL_BlockExclude(t *testing.T) {
	cfg, err := parseKDL([]byte("exclude {\n    \"java/**\"\n    \"sun/**\"\n}\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"java/**", "sun/**"}, cfg.Exclude)
}

func TestParseKDL_WrongTypes(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"string threshold", `matching { abs_threshold "high"; }`, "matching.abs_threshold"},
		{"float workers", `matching { workers 2.5; }`, "matching.workers"},
		{"string weight", `weights { class-name "x"; }`, "weights.class-name"},
		{"numeric debug", `debug 1`, "debug"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseKDL([]byte(tt.content))
			require.Error(t, err)

			var cfgErr *remaperrors.ConfigError
			require.True(t, errors.As(err, &cfgErr), "got %T: %v", err, err)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestParseKDL_Malformed(t *testing.T) {
	_, err := parseKDL([]byte("matching {"))
	assert.Error(t, err)
}
