// Capture controller: the per-frame decision loop
package capture

import (
	"context"
	"image"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"rgbd-capture/internal/align"
	"rgbd-capture/internal/camera"
	"rgbd-capture/internal/dataset"
	"rgbd-capture/internal/mask"
	"rgbd-capture/internal/rgbd"
)

// Trigger is one polled operator signal.
type Trigger int

const (
	TriggerNone Trigger = iota
	TriggerCapture
	TriggerQuit
)

// Input delivers operator signals, polled exactly once per loop iteration.
type Input interface {
	Poll() Trigger
}

// View receives the frames for the live/last-shot preview. Implementations
// compose and display; they have no influence on capture decisions, and any
// failure inside them is contained by the controller.
type View interface {
	Show(liveColor, liveDepth, lastColor, lastDepth gocv.Mat) error
}

// NopInput never triggers; headless automatic sessions use it.
type NopInput struct{}

func (NopInput) Poll() Trigger { return TriggerNone }

// NopView discards frames; headless sessions use it.
type NopView struct{}

func (NopView) Show(_, _, _, _ gocv.Mat) error { return nil }

// Controller runs one capture session: a single synchronous loop that blocks
// on the frame source, aligns and filters, decides whether to persist, and
// writes samples. There is no background worker and no frame queue; a slow
// disk write delays the next frame pull.
type Controller struct {
	opts    Options
	source  camera.Source
	aligner align.Aligner
	writer  *dataset.Writer
	view    View
	input   Input
	log     *logrus.Logger
}

// New validates the options and assembles a controller. view and input may be
// nil for headless runs.
func New(
	opts Options,
	source camera.Source,
	aligner align.Aligner,
	writer *dataset.Writer,
	view View,
	input Input,
	log *logrus.Logger,
) (*Controller, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if source == nil {
		return nil, errors.New("frame source is required")
	}
	if writer == nil {
		return nil, errors.New("sample writer is required")
	}
	if aligner == nil {
		aligner = align.Identity{}
	}
	if view == nil {
		view = NopView{}
	}
	if input == nil {
		input = NopInput{}
	}
	if log == nil {
		log = logrus.New()
	}
	return &Controller{
		opts:    opts,
		source:  source,
		aligner: aligner,
		writer:  writer,
		view:    view,
		input:   input,
		log:     log,
	}, nil
}

// Run executes the session until the configured sample count is reached, the
// operator quits, or a fatal error occurs. It returns the number of samples
// persisted. The frame source is stopped exactly once on every exit path.
func (c *Controller) Run(ctx context.Context) (written int, err error) {
	if err := c.source.Start(); err != nil {
		return 0, errors.Wrap(err, "starting frame source")
	}
	defer func() {
		if serr := c.source.Stop(); serr != nil {
			c.log.WithError(serr).Warn("Stopping frame source failed")
		}
	}()

	sess := NewSession(c.opts.Width, c.opts.Height)
	defer sess.Close()

	c.log.WithFields(logrus.Fields{
		"mode":    c.opts.Mode.String(),
		"samples": c.opts.SampleCount,
		"root":    c.writer.Root(),
	}).Info("Capture session started")

	for sess.Index < c.opts.SampleCount {
		if ctx.Err() != nil {
			c.log.Info("Capture interrupted, stopping")
			break
		}
		quit, err := c.step(sess)
		if err != nil {
			return sess.Index, err
		}
		if quit {
			break
		}
	}
	return sess.Index, nil
}

// step handles one frame pair. The returned bool requests loop termination.
func (c *Controller) step(sess *Session) (bool, error) {
	pair, ok, err := c.source.Next(c.opts.FrameTimeout)
	if errors.Is(err, camera.ErrStreamEnded) {
		c.log.Info("Frame stream ended")
		return true, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "acquiring frame pair")
	}
	if !ok {
		// Transient miss: retry without advancing counters or timestamps.
		return false, nil
	}
	defer pair.Close()

	if sess.Index == 0 && (sess.PrevColor.Cols() != pair.Color.Cols() || sess.PrevColor.Rows() != pair.Color.Rows()) {
		sess.reseed(pair.Color.Cols(), pair.Color.Rows())
	}

	var depth gocv.Mat
	if c.opts.Align {
		depth, err = c.aligner.Align(pair.Depth, image.Pt(pair.Color.Cols(), pair.Color.Rows()))
		if err != nil {
			return false, errors.Wrap(err, "aligning depth to color")
		}
	} else {
		depth = pair.Depth.Clone()
	}
	defer depth.Close()

	var metric, outDepth gocv.Mat
	if c.opts.DepthHint {
		metric, err = rgbd.Normalize(depth, c.opts.MaxRange)
		if err != nil {
			return false, err
		}
		outDepth, err = rgbd.ToMillimeters(metric)
		if err != nil {
			metric.Close()
			return false, err
		}
	} else {
		metric = gocv.NewMat()
		outDepth = depth.Clone()
	}
	defer metric.Close()
	defer outDepth.Close()

	c.showPreview(pair.Color, outDepth, sess)
	trig := c.input.Poll()

	now := pair.Timestamp
	shouldCapture := false
	switch c.opts.Mode {
	case Manual:
		shouldCapture = trig == TriggerCapture
	case Automatic:
		shouldCapture = sess.LastCapture.IsZero() || now.Sub(sess.LastCapture) >= c.opts.Interval
	}

	if shouldCapture {
		if err := c.persist(sess.Index, pair.Color, outDepth, metric); err != nil {
			return false, err
		}
		sess.Remember(pair.Color, outDepth, now)
	}

	if trig == TriggerQuit {
		c.log.Info("User requested exit, stopping capture")
		return true, nil
	}
	return false, nil
}

// persist writes one sample, deriving the masked outputs first when the
// session runs the masking variant.
func (c *Controller) persist(index int, color, depth, metric gocv.Mat) error {
	sample := dataset.Sample{Color: color, Depth: depth, Metric: metric}
	if c.opts.Masking {
		fg, err := mask.Foreground(color, depth, c.opts.DepthThreshold)
		if err != nil {
			return errors.Wrap(err, "building foreground mask")
		}
		defer fg.Close()
		maskedColor, maskedDepth := mask.Apply(color, depth, fg)
		defer maskedColor.Close()
		defer maskedDepth.Close()
		sample.MaskColor = maskedColor
		sample.MaskDepth = maskedDepth
		return c.writer.Write(index, sample)
	}
	return c.writer.Write(index, sample)
}

// showPreview hands frames to the view. Preview problems are logged and
// contained; they never abort capture.
func (c *Controller) showPreview(liveColor, liveDepth gocv.Mat, sess *Session) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Warnf("Preview failure recovered: %v", r)
		}
	}()
	if err := c.view.Show(liveColor, liveDepth, sess.PrevColor, sess.PrevDepth); err != nil {
		c.log.WithError(err).Warn("Preview update failed")
	}
}
