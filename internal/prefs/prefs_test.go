package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", prefsFile)

	p := LoadFrom(path)
	assert.Equal(t, 2.0, p.FloatWithFallback("mirror_tolerance", 2.0))
	assert.True(t, p.Bool("mirror_mode", true))
	assert.Equal(t, "closest", p.String("selection_mode", "closest"))

	p.SetFloat("mirror_tolerance", 3.5)
	p.SetBool("mirror_mode", false)
	p.SetString("selection_mode", "strict")
	require.NoError(t, p.Save())

	reloaded := LoadFrom(path)
	assert.Equal(t, 3.5, reloaded.FloatWithFallback("mirror_tolerance", 2.0))
	assert.False(t, reloaded.Bool("mirror_mode", true))
	assert.Equal(t, "strict", reloaded.String("selection_mode", "closest"))
	assert.Equal(t, path, reloaded.Path())
}

func TestPrefsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), prefsFile)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	p := LoadFrom(path)
	assert.Equal(t, 0.5, p.FloatWithFallback("hit_radius", 0.5))
}

func TestPrefsWrongValueType(t *testing.T) {
	path := filepath.Join(t.TempDir(), prefsFile)
	require.NoError(t, os.WriteFile(path, []byte(`{"mirror_mode":"yes","hit_radius":"big"}`), 0o644))

	p := LoadFrom(path)
	assert.True(t, p.Bool("mirror_mode", true))
	assert.Equal(t, 0.5, p.FloatWithFallback("hit_radius", 0.5))
}
