// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/export-engine/pkg/types"
)

// writeFakeTTF drops a placeholder file where a font path is expected.
// ResolveFonts only checks existence; parsing happens at registration time.
func writeFakeTTF(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("\x00\x01\x00\x00"), 0o644))
	return path
}

func TestResolveFonts_ConfiguredPaths(t *testing.T) {
	dir := t.TempDir()
	regular := writeFakeTTF(t, dir, "Body.ttf")
	bold := writeFakeTTF(t, dir, "Body-Bold.ttf")

	set, err := ResolveFonts(types.FontConfig{Regular: regular, Bold: bold})
	require.NoError(t, err)

	assert.Equal(t, regular, set.Regular)
	assert.Equal(t, bold, set.Bold)
	// Unconfigured style faces degrade to regular when discovery finds nothing
	// better, or resolve to a discovered system face. Either way they are set.
	assert.NotEmpty(t, set.Italic)
	assert.NotEmpty(t, set.Mono)
}

func TestResolveFonts_MissingConfiguredPath(t *testing.T) {
	tests := []struct {
		name string
		cfg  types.FontConfig
	}{
		{name: "regular", cfg: types.FontConfig{Regular: "/nonexistent/font.ttf"}},
		{name: "cjk", cfg: types.FontConfig{CJK: "/nonexistent/cjk.ttf"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.cfg.Regular == "" {
				// Keep the regular face valid so only the face under test fails.
				tt.cfg.Regular = writeFakeTTF(t, t.TempDir(), "Body.ttf")
			}
			_, err := ResolveFonts(tt.cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrRenderConfiguration)
		})
	}
}

func TestResolveFonts_StyleFacesDegradeToRegular(t *testing.T) {
	dir := t.TempDir()
	regular := writeFakeTTF(t, dir, "Only.ttf")

	set, err := ResolveFonts(types.FontConfig{Regular: regular})
	require.NoError(t, err)

	// Bold, italic, and mono never stay empty; CJK may.
	assert.NotEmpty(t, set.Bold)
	assert.NotEmpty(t, set.Italic)
	assert.NotEmpty(t, set.Mono)
}
