package dataset

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func metricMat(t *testing.T, rows, cols int, vals []float32) gocv.Mat {
	t.Helper()
	m := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV32F)
	data, err := m.DataPtrFloat32()
	require.NoError(t, err)
	copy(data, vals)
	return m
}

func TestWriteDepthHintLayout(t *testing.T) {
	metric := metricMat(t, 2, 3, []float32{0, 0.5, 1.25, 2, 0, 4.75})
	defer metric.Close()

	var buf bytes.Buffer
	require.NoError(t, WriteDepthHint(&buf, metric))

	raw := buf.Bytes()
	require.Len(t, raw, 16+4*6)
	assert.Equal(t, uint64(3), binary.LittleEndian.Uint64(raw[0:8]), "width first")
	assert.Equal(t, uint64(2), binary.LittleEndian.Uint64(raw[8:16]), "height second")
}

func TestDepthHintRoundTrip(t *testing.T) {
	vals := []float32{0, 0.123, 4.999, 5.0, 0.001, 3.25}
	metric := metricMat(t, 3, 2, vals)
	defer metric.Close()

	path := filepath.Join(t.TempDir(), "color_000.bin")
	require.NoError(t, WriteDepthHintFile(path, metric))

	back, err := ReadDepthHintFile(path)
	require.NoError(t, err)
	defer back.Close()

	assert.Equal(t, 3, back.Rows())
	assert.Equal(t, 2, back.Cols())
	data, err := back.DataPtrFloat32()
	require.NoError(t, err)
	assert.Equal(t, vals, data)
}

func TestReadDepthHintRejectsImplausibleHeader(t *testing.T) {
	var buf bytes.Buffer
	header := make([]byte, 16)
	binary.LittleEndian.PutUint64(header[0:8], 1<<32)
	binary.LittleEndian.PutUint64(header[8:16], 1<<32)
	buf.Write(header)

	_, err := ReadDepthHint(&buf)
	assert.Error(t, err)
}
