// Frame pair types shared by the capture pipeline
package rgbd

import (
	"time"

	"gocv.io/x/gocv"
)

// FramePair holds one synchronized color/depth acquisition. Color is an
// 8-bit 3-channel BGR image, Depth a 16-bit single-channel map in native
// camera units (millimeters). After alignment both share the same grid.
type FramePair struct {
	Color     gocv.Mat
	Depth     gocv.Mat
	Timestamp time.Time
}

// Complete reports whether both channels are present and carry the expected
// element types. An incomplete pair is a skip condition, never an error.
func (p *FramePair) Complete() bool {
	if p.Color.Empty() || p.Depth.Empty() {
		return false
	}
	if p.Color.Type() != gocv.MatTypeCV8UC3 {
		return false
	}
	return p.Depth.Type() == gocv.MatTypeCV16U
}

// Aligned reports whether color and depth share the same pixel grid.
func (p *FramePair) Aligned() bool {
	return p.Color.Cols() == p.Depth.Cols() && p.Color.Rows() == p.Depth.Rows()
}

// Close releases both underlying buffers. Safe to call on a pair whose
// channels were never populated.
func (p *FramePair) Close() {
	if !p.Color.Empty() {
		p.Color.Close()
	}
	if !p.Depth.Empty() {
		p.Depth.Close()
	}
}

// ZeroColor returns an all-black BGR frame, used to seed the last-shot
// preview before anything has been captured.
func ZeroColor(width, height int) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), height, width, gocv.MatTypeCV8UC3)
}

// ZeroDepth returns an all-zero 16-bit depth map.
func ZeroDepth(width, height int) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), height, width, gocv.MatTypeCV16U)
}
