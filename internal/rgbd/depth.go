// Depth unit conversion and range filtering
package rgbd

import (
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

const (
	// DepthScale converts native camera units (mm) to meters.
	DepthScale = 1000.0

	// DefaultMaxRange is the metric cutoff beyond which depth samples are
	// considered unreliable and zeroed.
	DefaultMaxRange = 5.0
)

// Normalize converts a 16-bit depth map in millimeters to a 32-bit float map
// in meters, zeroing every sample outside (0, maxRange]. Zero is the sentinel
// for invalid/unknown depth throughout the pipeline.
func Normalize(depth gocv.Mat, maxRange float64) (gocv.Mat, error) {
	raw := depth
	owned := false
	if !raw.IsContinuous() {
		raw = depth.Clone()
		owned = true
	}
	src, err := raw.DataPtrUint16()
	if err != nil {
		if owned {
			raw.Close()
		}
		return gocv.NewMat(), errors.Wrap(err, "reading raw depth samples")
	}

	metric := gocv.NewMatWithSize(depth.Rows(), depth.Cols(), gocv.MatTypeCV32F)
	dst, err := metric.DataPtrFloat32()
	if err != nil {
		metric.Close()
		if owned {
			raw.Close()
		}
		return gocv.NewMat(), errors.Wrap(err, "mapping metric depth buffer")
	}

	cutoff := float32(maxRange)
	for i, v := range src {
		m := float32(v) / DepthScale
		if m <= 0 || m > cutoff {
			m = 0
		}
		dst[i] = m
	}
	if owned {
		raw.Close()
	}
	return metric, nil
}

// FilterRange re-applies the (0, maxRange] validity rule to a metric depth
// map in place. Applying it to the output of Normalize is a no-op.
func FilterRange(metric gocv.Mat, maxRange float64) error {
	data, err := metric.DataPtrFloat32()
	if err != nil {
		return errors.Wrap(err, "mapping metric depth buffer")
	}
	cutoff := float32(maxRange)
	for i, m := range data {
		if m <= 0 || m > cutoff {
			data[i] = 0
		}
	}
	return nil
}

// ToMillimeters converts a metric depth map back to a 16-bit map in native
// units, as written to the depth PNGs of an aligned session.
func ToMillimeters(metric gocv.Mat) (gocv.Mat, error) {
	src, err := metric.DataPtrFloat32()
	if err != nil {
		return gocv.NewMat(), errors.Wrap(err, "mapping metric depth buffer")
	}
	mm := gocv.NewMatWithSize(metric.Rows(), metric.Cols(), gocv.MatTypeCV16U)
	dst, err := mm.DataPtrUint16()
	if err != nil {
		mm.Close()
		return gocv.NewMat(), errors.Wrap(err, "mapping millimeter depth buffer")
	}
	for i, m := range src {
		dst[i] = uint16(m * DepthScale)
	}
	return mm, nil
}
