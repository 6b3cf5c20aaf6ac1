package align

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestIdentityReturnsIndependentCopy(t *testing.T) {
	depth := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(7, 0, 0, 0), 3, 4, gocv.MatTypeCV16U)
	defer depth.Close()

	out, err := Identity{}.Align(depth, image.Pt(4, 3))
	require.NoError(t, err)
	defer out.Close()

	assert.Equal(t, depth.Rows(), out.Rows())
	assert.Equal(t, depth.Cols(), out.Cols())

	// Mutating the copy must not reach back into the source.
	data, err := out.DataPtrUint16()
	require.NoError(t, err)
	data[0] = 99
	src, err := depth.DataPtrUint16()
	require.NoError(t, err)
	assert.Equal(t, uint16(7), src[0])
}

func TestHomographyIdentityWarpKeepsValues(t *testing.T) {
	h := NewHomography([9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
	defer h.Close()

	depth := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(1234, 0, 0, 0), 3, 4, gocv.MatTypeCV16U)
	defer depth.Close()

	out, err := h.Align(depth, image.Pt(4, 3))
	require.NoError(t, err)
	defer out.Close()

	assert.Equal(t, 3, out.Rows())
	assert.Equal(t, 4, out.Cols())
	data, err := out.DataPtrUint16()
	require.NoError(t, err)
	for i, v := range data {
		assert.Equal(t, uint16(1234), v, "pixel %d", i)
	}
}

func TestHomographyWarpToLargerGridZeroPadsBorder(t *testing.T) {
	h := NewHomography([9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
	defer h.Close()

	depth := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(500, 0, 0, 0), 2, 2, gocv.MatTypeCV16U)
	defer depth.Close()

	out, err := h.Align(depth, image.Pt(4, 4))
	require.NoError(t, err)
	defer out.Close()

	data, err := out.DataPtrUint16()
	require.NoError(t, err)
	assert.Equal(t, uint16(500), data[0], "mapped region keeps its depth")
	assert.Equal(t, uint16(0), data[4*4-1], "unmapped border is the invalid sentinel")
}

func TestLoadCalibration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "calib.yaml")
	require.NoError(t, os.WriteFile(path, []byte("homography: [1, 0, 0, 0, 1, 0, 0, 0, 1]\n"), 0o644))

	h, err := LoadCalibration(path)
	require.NoError(t, err)
	h.Close()
}

func TestLoadCalibrationRejectsShortMatrix(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "calib.yaml")
	require.NoError(t, os.WriteFile(path, []byte("homography: [1, 0, 0]\n"), 0o644))

	_, err := LoadCalibration(path)
	assert.Error(t, err)
}
