package camera

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadStreamConfigFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "streams.yaml")
	require.NoError(t, os.WriteFile(path, []byte("color_device: \"/dev/video2\"\nfps: 15\n"), 0o644))

	cfg, err := LoadStreamConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/dev/video2", cfg.ColorDevice)
	assert.Equal(t, 15, cfg.FPS)
	assert.Equal(t, 1280, cfg.ColorWidth, "unset fields keep their defaults")
	assert.Equal(t, 720, cfg.ColorHeight)
}

func TestLoadStreamConfigRejectsBadResolution(t *testing.T) {
	path := filepath.Join(t.TempDir(), "streams.yaml")
	require.NoError(t, os.WriteFile(path, []byte("color_width: -1\n"), 0o644))

	_, err := LoadStreamConfig(path)
	assert.Error(t, err)
}

func TestLoadStreamConfigMissingFile(t *testing.T) {
	_, err := LoadStreamConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
