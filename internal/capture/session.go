package capture

import (
	"time"

	"gocv.io/x/gocv"

	"rgbd-capture/internal/rgbd"
)

// Session is the only mutable state of a capture run: the monotonic sample
// index, the reference time of the last persisted sample, and the previous
// frames kept for the last-shot preview. It is owned by the controller and
// touched from the loop thread only.
type Session struct {
	Index       int
	LastCapture time.Time // zero until the first persist

	PrevColor gocv.Mat
	PrevDepth gocv.Mat
}

// NewSession seeds the preview frames with all-black images of the configured
// resolution so the last-shot pane renders before the first capture.
func NewSession(width, height int) *Session {
	return &Session{
		PrevColor: rgbd.ZeroColor(width, height),
		PrevDepth: rgbd.ZeroDepth(width, height),
	}
}

// reseed replaces the zero-valued preview frames when the stream's actual
// resolution differs from the configured one. Only legal before the first
// persisted sample.
func (s *Session) reseed(width, height int) {
	s.PrevColor.Close()
	s.PrevDepth.Close()
	s.PrevColor = rgbd.ZeroColor(width, height)
	s.PrevDepth = rgbd.ZeroDepth(width, height)
}

// Remember records a persisted sample: the index advances by exactly one and
// the preview frames are replaced by copies of the captured ones.
func (s *Session) Remember(color, depth gocv.Mat, now time.Time) {
	s.PrevColor.Close()
	s.PrevColor = color.Clone()
	s.PrevDepth.Close()
	s.PrevDepth = depth.Clone()
	s.Index++
	s.LastCapture = now
}

// Close releases the preview frames.
func (s *Session) Close() {
	if !s.PrevColor.Empty() {
		s.PrevColor.Close()
	}
	if !s.PrevDepth.Empty() {
		s.PrevDepth.Close()
	}
}
