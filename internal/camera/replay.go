// Replay source: feed a previously captured session back through the pipeline
package camera

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"rgbd-capture/internal/rgbd"
)

// ReplaySource walks matching color/depth PNG pairs from two directories in
// filename order. Useful for re-running a captured session under different
// filter settings, and for end-to-end tests without hardware.
type ReplaySource struct {
	colorDir string
	depthDir string
	clk      clock.Clock
	color    []string
	depth    []string
	idx      int
}

// NewReplaySource builds a source over the given directories; typically the
// color/ and depth/ subdirectories of a session root. A nil clock falls back
// to the wall clock.
func NewReplaySource(colorDir, depthDir string, clk clock.Clock) *ReplaySource {
	if clk == nil {
		clk = clock.New()
	}
	return &ReplaySource{colorDir: colorDir, depthDir: depthDir, clk: clk}
}

// Start scans both directories. The stream length is the shorter of the two
// listings.
func (s *ReplaySource) Start() error {
	var err error
	if s.color, err = listPNGs(s.colorDir); err != nil {
		return err
	}
	if s.depth, err = listPNGs(s.depthDir); err != nil {
		return err
	}
	if len(s.color) == 0 || len(s.depth) == 0 {
		return errors.Errorf("no frame pairs under %s / %s", s.colorDir, s.depthDir)
	}
	s.idx = 0
	return nil
}

// Next decodes the next stored pair. A pair that fails to decode is skipped
// (ok == false) and consumed; exhaustion yields ErrStreamEnded.
func (s *ReplaySource) Next(_ time.Duration) (rgbd.FramePair, bool, error) {
	if s.idx >= len(s.color) || s.idx >= len(s.depth) {
		return rgbd.FramePair{}, false, ErrStreamEnded
	}
	colorPath := s.color[s.idx]
	depthPath := s.depth[s.idx]
	s.idx++

	colorMat := gocv.IMRead(colorPath, gocv.IMReadColor)
	depthMat := gocv.IMRead(depthPath, gocv.IMReadUnchanged)
	pair := rgbd.FramePair{Color: colorMat, Depth: depthMat, Timestamp: s.clk.Now()}
	if !pair.Complete() {
		pair.Close()
		return rgbd.FramePair{}, false, nil
	}
	return pair, true, nil
}

// Stop releases nothing but completes the Source contract.
func (s *ReplaySource) Stop() error {
	s.color = nil
	s.depth = nil
	return nil
}

func listPNGs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", dir)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".png") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
