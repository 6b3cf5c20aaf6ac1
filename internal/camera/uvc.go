// UVC-backed frame source: one video device per channel
package camera

import (
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"rgbd-capture/internal/rgbd"
)

// UVCSource reads color and depth from two video capture devices. Depth
// cameras that register both streams on the same grid (the usual rig setup)
// need no further alignment; otherwise pair this source with a homography
// aligner. The depth device must deliver raw 16-bit samples, so RGB
// conversion is disabled on it.
type UVCSource struct {
	cfg   StreamConfig
	clk   clock.Clock
	color *gocv.VideoCapture
	depth *gocv.VideoCapture
}

// NewUVCSource builds an unopened source for the given stream configuration.
// A nil clock falls back to the wall clock; frame pairs are stamped with the
// acquisition time.
func NewUVCSource(cfg StreamConfig, clk clock.Clock) *UVCSource {
	if clk == nil {
		clk = clock.New()
	}
	return &UVCSource{cfg: cfg, clk: clk}
}

// Start opens both devices and applies the configured resolution and rate.
// On any failure every already-opened device is closed before returning.
func (s *UVCSource) Start() error {
	colorCap, err := gocv.OpenVideoCapture(s.cfg.ColorDevice)
	if err != nil {
		return errors.Wrapf(err, "opening color device %s", s.cfg.ColorDevice)
	}
	colorCap.Set(gocv.VideoCaptureFrameWidth, float64(s.cfg.ColorWidth))
	colorCap.Set(gocv.VideoCaptureFrameHeight, float64(s.cfg.ColorHeight))
	colorCap.Set(gocv.VideoCaptureFPS, float64(s.cfg.FPS))

	depthCap, err := gocv.OpenVideoCapture(s.cfg.DepthDevice)
	if err != nil {
		if cerr := colorCap.Close(); cerr != nil {
			err = errors.Wrapf(err, "also failed closing color device: %v", cerr)
		}
		return errors.Wrapf(err, "opening depth device %s", s.cfg.DepthDevice)
	}
	depthCap.Set(gocv.VideoCaptureFrameWidth, float64(s.cfg.DepthWidth))
	depthCap.Set(gocv.VideoCaptureFrameHeight, float64(s.cfg.DepthHeight))
	depthCap.Set(gocv.VideoCaptureFPS, float64(s.cfg.FPS))
	// Keep Z16 samples untouched.
	depthCap.Set(gocv.VideoCaptureConvertRGB, 0)

	s.color = colorCap
	s.depth = depthCap
	return nil
}

// Next grabs one frame from each device. A failed grab or an unexpected
// element type on either channel yields ok == false so the caller simply
// retries; the devices stay open.
func (s *UVCSource) Next(_ time.Duration) (rgbd.FramePair, bool, error) {
	if s.color == nil || s.depth == nil {
		return rgbd.FramePair{}, false, errors.New("source not started")
	}

	colorMat := gocv.NewMat()
	if !s.color.Read(&colorMat) {
		colorMat.Close()
		return rgbd.FramePair{}, false, nil
	}
	depthMat := gocv.NewMat()
	if !s.depth.Read(&depthMat) {
		colorMat.Close()
		depthMat.Close()
		return rgbd.FramePair{}, false, nil
	}

	pair := rgbd.FramePair{Color: colorMat, Depth: depthMat, Timestamp: s.clk.Now()}
	if !pair.Complete() {
		pair.Close()
		return rgbd.FramePair{}, false, nil
	}
	return pair, true, nil
}

// Stop closes both devices. Repeated calls are no-ops.
func (s *UVCSource) Stop() error {
	var firstErr error
	if s.color != nil {
		if err := s.color.Close(); err != nil {
			firstErr = errors.Wrap(err, "closing color device")
		}
		s.color = nil
	}
	if s.depth != nil {
		if err := s.depth.Close(); err != nil && firstErr == nil {
			firstErr = errors.Wrap(err, "closing depth device")
		}
		s.depth = nil
	}
	return firstErr
}
