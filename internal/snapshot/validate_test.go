package snapshot

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	remaperrors "github.com/standardbeagle/remap/internal/errors"
	"github.com/standardbeagle/remap/internal/types"
)

func TestValidateHeader(t *testing.T) {
	tests := []struct {
		name    string
		header  []byte
		format  Format
		wantErr string
	}{
		{"json object", []byte(`  {"classes": []}`), FormatJSON, ""},
		{"json with bom", append([]byte{0xEF, 0xBB, 0xBF}, '{', '}'), FormatJSON, ""},
		{"empty", nil, FormatJSON, ""},
		{"yaml", []byte("classes:\n  - name: a/A\n"), FormatYAML, ""},
		{"json array", []byte(`[1, 2]`), FormatJSON, "must be an object"},
		{"class file", []byte{0xCA, 0xFE, 0xBA, 0xBE, 0, 0, 0, 52}, FormatJSON, "class file"},
		{"jar", []byte{0x50, 0x4B, 0x03, 0x04, 20, 0}, FormatYAML, "jar or zip archive"},
		{"binary", []byte{1, 2, 3, 4, 5, 'a'}, FormatYAML, "binary"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateHeader(tt.header, tt.format)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoadFileRejectsClassFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "A.json")
	require.NoError(t, os.WriteFile(path, []byte{0xCA, 0xFE, 0xBA, 0xBE, 0, 0, 0, 52, 0, 10}, 0o644))

	_, err := LoadFile(path, types.SideA)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRawBytecode))

	var loadErr *remaperrors.LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "validate", loadErr.Operation)
}
