// Packed binary depth-hint format consumed by the dense-reconstruction
// pipeline: uint64 LE width, uint64 LE height, then width*height float32 LE
// samples in row-major order, meters, 0 = invalid. The layout is a fixed
// external contract; header then payload, no padding, no trailing metadata.
package dataset

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// WriteDepthHint serializes a 32-bit metric depth map.
func WriteDepthHint(w io.Writer, metric gocv.Mat) error {
	src := metric
	owned := false
	if !src.IsContinuous() {
		src = metric.Clone()
		owned = true
	}
	data, err := src.DataPtrFloat32()
	if err != nil {
		if owned {
			src.Close()
		}
		return errors.Wrap(err, "mapping metric depth buffer")
	}

	header := make([]byte, 16)
	binary.LittleEndian.PutUint64(header[0:8], uint64(metric.Cols()))
	binary.LittleEndian.PutUint64(header[8:16], uint64(metric.Rows()))
	if _, err := w.Write(header); err != nil {
		if owned {
			src.Close()
		}
		return errors.Wrap(err, "writing depth hint header")
	}

	payload := make([]byte, 4*len(data))
	for i, v := range data {
		binary.LittleEndian.PutUint32(payload[i*4:], math.Float32bits(v))
	}
	if owned {
		src.Close()
	}
	if _, err := w.Write(payload); err != nil {
		return errors.Wrap(err, "writing depth hint payload")
	}
	return nil
}

// WriteDepthHintFile writes the packed format to path.
func WriteDepthHintFile(path string, metric gocv.Mat) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	buf := bufio.NewWriter(f)
	if err := WriteDepthHint(buf, metric); err != nil {
		f.Close()
		return err
	}
	if err := buf.Flush(); err != nil {
		f.Close()
		return errors.Wrapf(err, "flushing %s", path)
	}
	return errors.Wrapf(f.Close(), "closing %s", path)
}

// ReadDepthHint decodes the packed format back into a 32-bit depth map.
func ReadDepthHint(r io.Reader) (gocv.Mat, error) {
	header := make([]byte, 16)
	if _, err := io.ReadFull(r, header); err != nil {
		return gocv.NewMat(), errors.Wrap(err, "reading depth hint header")
	}
	width := binary.LittleEndian.Uint64(header[0:8])
	height := binary.LittleEndian.Uint64(header[8:16])
	if width == 0 || height == 0 || width*height > 1<<28 {
		return gocv.NewMat(), errors.Errorf("implausible depth hint dimensions %dx%d", width, height)
	}

	payload := make([]byte, 4*width*height)
	if _, err := io.ReadFull(r, payload); err != nil {
		return gocv.NewMat(), errors.Wrap(err, "reading depth hint payload")
	}

	out := gocv.NewMatWithSize(int(height), int(width), gocv.MatTypeCV32F)
	dst, err := out.DataPtrFloat32()
	if err != nil {
		out.Close()
		return gocv.NewMat(), errors.Wrap(err, "mapping metric depth buffer")
	}
	for i := range dst {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(payload[i*4:]))
	}
	return out, nil
}

// ReadDepthHintFile reads the packed format from path.
func ReadDepthHintFile(path string) (gocv.Mat, error) {
	f, err := os.Open(path)
	if err != nil {
		return gocv.NewMat(), errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()
	return ReadDepthHint(bufio.NewReader(f))
}
