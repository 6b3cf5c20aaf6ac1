package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniqueDirUnused(t *testing.T) {
	base := filepath.Join(t.TempDir(), "session")

	got, err := UniqueDir(base)
	require.NoError(t, err)
	assert.Equal(t, base, got)
}

func TestUniqueDirSuffixes(t *testing.T) {
	base := filepath.Join(t.TempDir(), "session")
	require.NoError(t, os.Mkdir(base, 0o755))
	require.NoError(t, os.Mkdir(base+"_1", 0o755))

	got, err := UniqueDir(base)
	require.NoError(t, err)
	assert.Equal(t, base+"_2", got)
}
