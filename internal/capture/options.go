// Capture session configuration
package capture

import (
	"time"

	"github.com/pkg/errors"

	"rgbd-capture/internal/mask"
	"rgbd-capture/internal/rgbd"
)

// Mode selects how capture events are triggered. It is fixed for the lifetime
// of a session.
type Mode int

const (
	// Manual persists a frame only on an explicit trigger key.
	Manual Mode = iota
	// Automatic persists a frame whenever the configured interval has
	// elapsed since the last persisted sample.
	Automatic
)

func (m Mode) String() string {
	switch m {
	case Manual:
		return "manual"
	case Automatic:
		return "automatic"
	default:
		return "unknown"
	}
}

// Options parameterizes one capture session. One controller serves every
// pipeline variant; the flags pick alignment, masking and depth hints rather
// than forking separate code paths.
type Options struct {
	Mode        Mode
	Interval    time.Duration // Automatic only
	SampleCount int

	Align     bool // reproject depth onto the color grid before filtering
	Masking   bool // write raw + foreground-masked outputs
	DepthHint bool // normalize depth and write packed binary hints

	MaxRange       float64 // metric cutoff for depth normalization
	DepthThreshold int     // native-unit cutoff for the foreground mask

	// Width and Height give the configured color resolution; the last-shot
	// preview frame starts as an all-zero image of this size.
	Width  int
	Height int

	FrameTimeout time.Duration
}

// Validate fills zero-valued tunables with defaults and rejects impossible
// combinations.
func (o *Options) Validate() error {
	if o.SampleCount <= 0 {
		return errors.New("sample count must be positive")
	}
	if o.Mode == Automatic && o.Interval < 0 {
		return errors.New("interval must not be negative")
	}
	if o.MaxRange == 0 {
		o.MaxRange = rgbd.DefaultMaxRange
	}
	if o.MaxRange < 0 {
		return errors.New("max range must be positive")
	}
	if o.DepthThreshold == 0 {
		o.DepthThreshold = mask.DefaultDepthThreshold
	}
	if o.DepthHint && !o.Align {
		return errors.New("depth hints require aligned depth")
	}
	if o.Width <= 0 || o.Height <= 0 {
		return errors.New("color resolution must be positive")
	}
	if o.FrameTimeout == 0 {
		o.FrameTimeout = 5 * time.Second
	}
	return nil
}
