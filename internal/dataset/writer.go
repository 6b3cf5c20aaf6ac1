// Sample persistence: PNG images plus optional packed depth hints
package dataset

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

// Subdirectory names of a session root.
const (
	ColorDir     = "color"
	DepthDir     = "depth"
	DepthHintDir = "depth_hint"
	RawColorDir  = "raw_color"
	RawDepthDir  = "raw_depth"
	MaskColorDir = "mask_color"
	MaskDepthDir = "mask_depth"
)

// Sample is one captured event ready for disk. Metric, MaskColor and
// MaskDepth are optional; an empty Mat means "not part of this session".
type Sample struct {
	Color     gocv.Mat
	Depth     gocv.Mat
	Metric    gocv.Mat
	MaskColor gocv.Mat
	MaskDepth gocv.Mat
}

// Writer serializes samples under a session root. Directory layout is created
// once at construction with exist-ok semantics. Samples are never mutated
// after write; on a filesystem failure the writer stops at the first failed
// file and surfaces the error without retrying, leaving the emitted log lines
// as the record of how far it got.
type Writer struct {
	root    string
	masking bool
	hints   bool
	log     *logrus.Logger
}

// NewWriter creates the session layout under root. masking selects the
// raw/mask four-directory layout, hints adds depth_hint/.
func NewWriter(root string, masking, hints bool, log *logrus.Logger) (*Writer, error) {
	dirs := []string{ColorDir, DepthDir}
	if masking {
		dirs = []string{RawColorDir, RawDepthDir, MaskColorDir, MaskDepthDir}
	}
	if hints {
		dirs = append(dirs, DepthHintDir)
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			return nil, errors.Wrapf(err, "creating session directory %s", d)
		}
	}
	return &Writer{root: root, masking: masking, hints: hints, log: log}, nil
}

// Root returns the session root path.
func (w *Writer) Root() string {
	return w.root
}

// Write persists one sample at the given index. Filenames are zero-padded to
// three digits and the index alone determines ordering on disk.
func (w *Writer) Write(index int, s Sample) error {
	colorName := fmt.Sprintf("color_%03d.png", index)
	depthName := fmt.Sprintf("depth_%03d.png", index)

	colorDir, depthDir := ColorDir, DepthDir
	if w.masking {
		colorDir, depthDir = RawColorDir, RawDepthDir
	}
	if err := w.writeImage(index, filepath.Join(w.root, colorDir, colorName), s.Color); err != nil {
		return err
	}
	if err := w.writeImage(index, filepath.Join(w.root, depthDir, depthName), s.Depth); err != nil {
		return err
	}

	if w.masking {
		if err := w.writeImage(index, filepath.Join(w.root, MaskColorDir, colorName), s.MaskColor); err != nil {
			return err
		}
		if err := w.writeImage(index, filepath.Join(w.root, MaskDepthDir, depthName), s.MaskDepth); err != nil {
			return err
		}
	}

	if w.hints && !s.Metric.Empty() {
		hintPath := filepath.Join(w.root, DepthHintDir, fmt.Sprintf("color_%03d.bin", index))
		if err := WriteDepthHintFile(hintPath, s.Metric); err != nil {
			return err
		}
		w.log.WithFields(logrus.Fields{"index": index, "path": hintPath}).Info("Saved depth hint")
	}
	return nil
}

func (w *Writer) writeImage(index int, path string, m gocv.Mat) error {
	if m.Empty() {
		return errors.Errorf("refusing to write empty image %s", path)
	}
	if !gocv.IMWrite(path, m) {
		return errors.Errorf("writing image %s", path)
	}
	w.log.WithFields(logrus.Fields{"index": index, "path": path}).Info("Saved image")
	return nil
}
