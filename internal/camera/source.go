// Package camera abstracts the RGB-D frame source behind a small contract.
// The capture controller only ever sees Source; hardware specifics stay here.
package camera

import (
	"time"

	"github.com/pkg/errors"

	"rgbd-capture/internal/rgbd"
)

// ErrStreamEnded is returned by finite sources (replay) once every stored
// frame pair has been handed out. The controller treats it as a normal
// termination, not a failure.
var ErrStreamEnded = errors.New("frame stream ended")

// DefaultFrameTimeout bounds one blocking wait for the next frame pair.
const DefaultFrameTimeout = 5 * time.Second

// Source is a stream of synchronized color+depth frame pairs.
//
// Next blocks up to timeout for the next pair. ok == false means the source
// produced nothing usable this round (a channel missing, a transient decode
// miss); the caller retries without advancing any counter. A non-nil error is
// fatal for the session, except ErrStreamEnded.
//
// The returned pair is owned by the caller, which must Close it.
type Source interface {
	Start() error
	Next(timeout time.Duration) (rgbd.FramePair, bool, error)
	Stop() error
}
