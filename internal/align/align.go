// Depth-to-color alignment
package align

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Aligner reprojects a raw depth map onto the color camera's pixel grid.
// Alignment happens once per frame pair, before any filtering compares depth
// samples against color pixels. Implementations always return a new Mat owned
// by the caller.
type Aligner interface {
	Align(depth gocv.Mat, colorSize image.Point) (gocv.Mat, error)
}

// Identity passes depth through unchanged, for streams that are already
// registered to the color grid or for raw-mode sessions. In raw mode the
// returned map may differ in resolution from the color frame and callers must
// not assume pixel correspondence.
type Identity struct{}

// Align returns a copy of the depth map.
func (Identity) Align(depth gocv.Mat, _ image.Point) (gocv.Mat, error) {
	return depth.Clone(), nil
}

// Homography warps depth onto the color grid with a fixed 3x3 planar
// homography derived from the rig's calibration. Nearest-neighbor sampling is
// used so no depth value is ever fabricated by interpolation; unmapped border
// pixels come out as 0, the invalid sentinel.
type Homography struct {
	m gocv.Mat
}

// NewHomography builds an aligner from a row-major 3x3 matrix.
func NewHomography(vals [9]float64) *Homography {
	m := gocv.NewMatWithSize(3, 3, gocv.MatTypeCV64F)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			m.SetDoubleAt(r, c, vals[r*3+c])
		}
	}
	return &Homography{m: m}
}

// Align warps the depth map to colorSize.
func (h *Homography) Align(depth gocv.Mat, colorSize image.Point) (gocv.Mat, error) {
	out := gocv.NewMat()
	gocv.WarpPerspectiveWithParams(depth, &out, h.m, colorSize,
		gocv.InterpolationNearestNeighbor, gocv.BorderConstant, color.RGBA{})
	return out, nil
}

// Close releases the transform matrix.
func (h *Homography) Close() {
	h.m.Close()
}
