// RGB-D dataset capture CLI
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"rgbd-capture/internal/align"
	"rgbd-capture/internal/camera"
	"rgbd-capture/internal/capture"
	"rgbd-capture/internal/dataset"
	"rgbd-capture/internal/preview"
)

const (
	defaultSaveDir   = "realsense_capture"
	defaultNumImages = 1000
	windowTitle      = "RGB-D Capture (Left: Live | Right: Last Shot)"
)

func main() {
	var (
		manual       = flag.Bool("m", false, "manual mode: press SPACE to capture, q to quit")
		automatic    = flag.Bool("a", false, "automatic mode: capture at fixed intervals")
		interval     = flag.Float64("i", 3.0, "interval between captures in seconds (automatic mode)")
		masking      = flag.Bool("mask", false, "write foreground-masked outputs beside the raw ones")
		depthHint    = flag.Bool("depth-hint", false, "write packed binary depth hints for dense reconstruction")
		noAlign      = flag.Bool("no-align", false, "skip depth-to-color alignment (raw streams)")
		maxRange     = flag.Float64("max-range", 0, "metric depth cutoff in meters (default 5.0)")
		depthThresh  = flag.Int("depth-threshold", 0, "foreground depth threshold in native units (default 800)")
		calibPath    = flag.String("calib", "", "YAML calibration file with a depth-to-color homography")
		streamPath   = flag.String("stream-config", "", "YAML stream configuration file")
		replayDir    = flag.String("replay", "", "replay a captured session root instead of opening the camera")
		outRoot      = flag.String("out-root", ".", "directory under which the session directory is created")
		displayWidth = flag.Int("display-width", preview.DefaultMaxWidth, "maximum preview width in pixels")
		headless     = flag.Bool("headless", false, "run without a preview window")
		debugMode    = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	logger := initLogger(*debugMode)

	if *manual == *automatic {
		logger.Error("Exactly one of -m (manual) or -a (automatic) is required")
		flag.Usage()
		os.Exit(2)
	}
	mode := capture.Manual
	if *automatic {
		mode = capture.Automatic
	}
	if *headless && mode == capture.Manual {
		logger.Error("Manual mode needs the preview window for its trigger key")
		os.Exit(2)
	}

	saveDir := defaultSaveDir
	numImages := defaultNumImages
	if flag.NArg() > 0 {
		saveDir = flag.Arg(0)
	}
	if flag.NArg() > 1 {
		if _, err := fmt.Sscanf(flag.Arg(1), "%d", &numImages); err != nil {
			logger.WithError(err).Errorf("Bad image count %q", flag.Arg(1))
			os.Exit(2)
		}
	}

	code := run(logger, runConfig{
		mode:         mode,
		interval:     time.Duration(*interval * float64(time.Second)),
		saveDir:      saveDir,
		numImages:    numImages,
		masking:      *masking,
		depthHint:    *depthHint,
		align:        !*noAlign,
		maxRange:     *maxRange,
		depthThresh:  *depthThresh,
		calibPath:    *calibPath,
		streamPath:   *streamPath,
		replayDir:    *replayDir,
		outRoot:      *outRoot,
		displayWidth: *displayWidth,
		headless:     *headless,
	})
	os.Exit(code)
}

type runConfig struct {
	mode         capture.Mode
	interval     time.Duration
	saveDir      string
	numImages    int
	masking      bool
	depthHint    bool
	align        bool
	maxRange     float64
	depthThresh  int
	calibPath    string
	streamPath   string
	replayDir    string
	outRoot      string
	displayWidth int
	headless     bool
}

func run(logger *logrus.Logger, cfg runConfig) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	streamCfg := camera.DefaultStreamConfig()
	if cfg.streamPath != "" {
		var err error
		if streamCfg, err = camera.LoadStreamConfig(cfg.streamPath); err != nil {
			logger.WithError(err).Error("Loading stream config failed")
			return 1
		}
	}

	var source camera.Source
	if cfg.replayDir != "" {
		source = camera.NewReplaySource(
			filepath.Join(cfg.replayDir, dataset.ColorDir),
			filepath.Join(cfg.replayDir, dataset.DepthDir),
			nil,
		)
	} else {
		source = camera.NewUVCSource(streamCfg, nil)
	}

	var aligner align.Aligner = align.Identity{}
	if cfg.calibPath != "" {
		homography, err := align.LoadCalibration(cfg.calibPath)
		if err != nil {
			logger.WithError(err).Error("Loading calibration failed")
			return 1
		}
		defer homography.Close()
		aligner = homography
	}

	root, err := dataset.UniqueDir(filepath.Join(cfg.outRoot, cfg.saveDir))
	if err != nil {
		logger.WithError(err).Error("Resolving session directory failed")
		return 1
	}
	writer, err := dataset.NewWriter(root, cfg.masking, cfg.depthHint, logger)
	if err != nil {
		logger.WithError(err).Error("Creating session layout failed")
		return 1
	}
	logger.WithField("root", root).Info("Saving session")

	var view capture.View
	var input capture.Input
	if !cfg.headless {
		window := preview.NewWindow(windowTitle, cfg.masking, cfg.displayWidth)
		defer func() {
			if err := window.Close(); err != nil {
				logger.WithError(err).Warn("Closing preview window failed")
			}
		}()
		view = window
		input = window
	}

	controller, err := capture.New(capture.Options{
		Mode:           cfg.mode,
		Interval:       cfg.interval,
		SampleCount:    cfg.numImages,
		Align:          cfg.align,
		Masking:        cfg.masking,
		DepthHint:      cfg.depthHint,
		MaxRange:       cfg.maxRange,
		DepthThreshold: cfg.depthThresh,
		Width:          streamCfg.ColorWidth,
		Height:         streamCfg.ColorHeight,
	}, source, aligner, writer, view, input, logger)
	if err != nil {
		logger.WithError(err).Error("Configuring capture session failed")
		return 1
	}

	written, err := controller.Run(ctx)
	if err != nil {
		logger.WithError(err).WithField("written", written).Error("Capture session failed")
		return 1
	}
	logger.WithField("written", written).Info("Capture session finished")
	return 0
}

// initLogger initializes the logger with appropriate level
func initLogger(debugMode bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if debugMode {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
		logger.Debug("Debug logging enabled")
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	return logger
}
