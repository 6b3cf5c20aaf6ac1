package rgbd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

// depthMat builds a 1xN 16-bit depth map from millimeter samples.
func depthMat(t *testing.T, mm []uint16) gocv.Mat {
	t.Helper()
	m := gocv.NewMatWithSize(1, len(mm), gocv.MatTypeCV16U)
	data, err := m.DataPtrUint16()
	require.NoError(t, err)
	copy(data, mm)
	return m
}

func TestNormalizeScalesAndClips(t *testing.T) {
	depth := depthMat(t, []uint16{0, 500, 1000, 5000, 5001, 65535})
	defer depth.Close()

	metric, err := Normalize(depth, DefaultMaxRange)
	require.NoError(t, err)
	defer metric.Close()

	assert.Equal(t, gocv.MatTypeCV32F, metric.Type())
	data, err := metric.DataPtrFloat32()
	require.NoError(t, err)

	assert.Equal(t, float32(0), data[0], "zero stays the invalid sentinel")
	assert.Equal(t, float32(0.5), data[1])
	assert.Equal(t, float32(1.0), data[2])
	assert.Equal(t, float32(5.0), data[3], "exactly max range is kept")
	assert.Equal(t, float32(0), data[4], "just past max range is zeroed")
	assert.Equal(t, float32(0), data[5])
}

func TestFilterRangeIdempotentAfterNormalize(t *testing.T) {
	depth := depthMat(t, []uint16{100, 2500, 4999, 6000})
	defer depth.Close()

	metric, err := Normalize(depth, DefaultMaxRange)
	require.NoError(t, err)
	defer metric.Close()

	before, err := metric.DataPtrFloat32()
	require.NoError(t, err)
	want := append([]float32(nil), before...)

	require.NoError(t, FilterRange(metric, DefaultMaxRange))
	after, err := metric.DataPtrFloat32()
	require.NoError(t, err)
	assert.Equal(t, want, after)
}

func TestToMillimetersRoundTrip(t *testing.T) {
	depth := depthMat(t, []uint16{0, 1, 799, 800, 4321})
	defer depth.Close()

	metric, err := Normalize(depth, DefaultMaxRange)
	require.NoError(t, err)
	defer metric.Close()

	mm, err := ToMillimeters(metric)
	require.NoError(t, err)
	defer mm.Close()

	assert.Equal(t, gocv.MatTypeCV16U, mm.Type())
	got, err := mm.DataPtrUint16()
	require.NoError(t, err)
	assert.Equal(t, []uint16{0, 1, 799, 800, 4321}, got)
}
