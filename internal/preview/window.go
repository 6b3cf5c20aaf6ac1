// On-screen preview window and key polling
package preview

import (
	"gocv.io/x/gocv"

	"rgbd-capture/internal/capture"
)

// Trigger keys.
const (
	keyCapture = ' '
	keyQuit    = 'q'
	keyEscape  = 27
)

// Window shows the live/last-shot composite and doubles as the operator
// input: the key collected while painting each frame is handed back through
// Poll. It satisfies both capture.View and capture.Input.
type Window struct {
	win      *gocv.Window
	masking  bool
	maxWidth int
	lastKey  int
}

// NewWindow opens a named display window. masking selects the stacked
// color-over-depth composite; maxWidth <= 0 falls back to DefaultMaxWidth.
func NewWindow(title string, masking bool, maxWidth int) *Window {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	return &Window{
		win:      gocv.NewWindow(title),
		masking:  masking,
		maxWidth: maxWidth,
		lastKey:  -1,
	}
}

// Show composes and paints one preview frame, recording the pending key.
func (w *Window) Show(liveColor, liveDepth, lastColor, lastDepth gocv.Mat) error {
	var composite gocv.Mat
	if w.masking {
		liveVis := DepthColormap(liveDepth)
		lastVis := DepthColormap(lastDepth)
		composite = Stacked(liveColor, liveVis, lastColor, lastVis, w.maxWidth)
		liveVis.Close()
		lastVis.Close()
	} else {
		composite = SideBySide(liveColor, lastColor, w.maxWidth)
	}
	defer composite.Close()

	w.win.IMShow(composite)
	w.lastKey = w.win.WaitKey(1)
	return nil
}

// Poll maps the key recorded by the last Show into a trigger and consumes it.
func (w *Window) Poll() capture.Trigger {
	key := w.lastKey
	w.lastKey = -1
	switch key {
	case keyCapture:
		return capture.TriggerCapture
	case keyQuit, keyEscape:
		return capture.TriggerQuit
	default:
		return capture.TriggerNone
	}
}

// Close tears down the display window.
func (w *Window) Close() error {
	return w.win.Close()
}
