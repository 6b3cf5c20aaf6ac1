// Foreground masking: depth-range test combined with a green chroma key
package mask

import (
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// DefaultDepthThreshold is the depth-range cutoff in native camera units.
const DefaultDepthThreshold = 800

// Green chroma-key band in HSV, matching the capture rig's backdrop.
var (
	lowerGreen = gocv.NewScalar(35, 40, 40, 0)
	upperGreen = gocv.NewScalar(85, 255, 255, 0)
)

// DepthRange builds a 0/255 mask from the raw depth map. A sample passes iff
// -threshold < d < threshold. The comparison is deliberately symmetric around
// zero even though depth samples are unsigned; samples are widened to int32
// first so the negative bound is honored instead of wrapping. Both boundary
// values d == threshold and d == -threshold fail.
func DepthRange(depth gocv.Mat, threshold int) (gocv.Mat, error) {
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

	out := gocv.NewMatWithSize(depth.Rows(), depth.Cols(), gocv.MatTypeCV8U)
	dst, err := out.DataPtrUint8()
	if err != nil {
		out.Close()
		if owned {
			raw.Close()
		}
		return gocv.NewMat(), errors.Wrap(err, "mapping mask buffer")
	}

	t := int32(threshold)
	for i, v := range src {
		d := int32(v)
		if d > -t && d < t {
			dst[i] = 255
		} else {
			dst[i] = 0
		}
	}
	if owned {
		raw.Close()
	}
	return out, nil
}

// ChromaKey builds a 0/255 mask selecting pixels of a BGR image inside the
// green HSV band.
func ChromaKey(bgr gocv.Mat) gocv.Mat {
	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(bgr, &hsv, gocv.ColorBGRToHSV)

	out := gocv.NewMat()
	gocv.InRangeWithScalar(hsv, lowerGreen, upperGreen, &out)
	return out
}

// Foreground combines the depth-range mask and the chroma-key mask with a
// pixel-wise AND.
func Foreground(bgr, depth gocv.Mat, threshold int) (gocv.Mat, error) {
	depthMask, err := DepthRange(depth, threshold)
	if err != nil {
		return gocv.NewMat(), err
	}
	defer depthMask.Close()

	colorMask := ChromaKey(bgr)
	defer colorMask.Close()

	combined := gocv.NewMat()
	gocv.BitwiseAnd(depthMask, colorMask, &combined)
	return combined, nil
}

// Apply zeroes every pixel outside the mask in both channels, returning the
// masked color and depth images. The inputs are left untouched.
func Apply(bgr, depth, m gocv.Mat) (gocv.Mat, gocv.Mat) {
	maskedColor := gocv.NewMat()
	gocv.BitwiseAndWithMask(bgr, bgr, &maskedColor, m)

	maskedDepth := gocv.NewMat()
	gocv.BitwiseAndWithMask(depth, depth, &maskedDepth, m)
	return maskedColor, maskedDepth
}
