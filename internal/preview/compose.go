// Display-only composites of the live and last-captured frames
package preview

import (
	"image"

	"gocv.io/x/gocv"
)

// DefaultMaxWidth caps the composite width before display.
const DefaultMaxWidth = 1680

// depthVisScale maps 16-bit millimeter depth into the 8-bit colormap input.
const depthVisScale = 0.03

// DepthColormap renders a false-color Jet visualization of a raw depth map.
// Purely cosmetic; the result never feeds back into capture decisions.
func DepthColormap(depth gocv.Mat) gocv.Mat {
	scaled := gocv.NewMat()
	defer scaled.Close()
	gocv.ConvertScaleAbs(depth, &scaled, depthVisScale, 0)

	vis := gocv.NewMat()
	gocv.ApplyColorMap(scaled, &vis, gocv.ColormapJet)
	return vis
}

// SideBySide places the live frame left of the last captured frame and caps
// the composite width, preserving aspect ratio.
func SideBySide(live, last gocv.Mat, maxWidth int) gocv.Mat {
	combined := gocv.NewMat()
	gocv.Hconcat(live, last, &combined)
	return capWidth(combined, maxWidth)
}

// Stacked builds the masking-session composite: each side is a color frame
// stacked over its depth visualization, live on the left, last shot on the
// right.
func Stacked(liveColor, liveDepthVis, lastColor, lastDepthVis gocv.Mat, maxWidth int) gocv.Mat {
	livePair := gocv.NewMat()
	defer livePair.Close()
	gocv.Vconcat(liveColor, liveDepthVis, &livePair)

	lastPair := gocv.NewMat()
	defer lastPair.Close()
	gocv.Vconcat(lastColor, lastDepthVis, &lastPair)

	combined := gocv.NewMat()
	gocv.Hconcat(livePair, lastPair, &combined)
	return capWidth(combined, maxWidth)
}

// capWidth shrinks m in place when it exceeds maxWidth, keeping aspect.
func capWidth(m gocv.Mat, maxWidth int) gocv.Mat {
	if maxWidth <= 0 || m.Cols() <= maxWidth {
		return m
	}
	scale := float64(maxWidth) / float64(m.Cols())
	resized := gocv.NewMat()
	gocv.Resize(m, &resized, image.Point{}, scale, scale, gocv.InterpolationLinear)
	m.Close()
	return resized
}
