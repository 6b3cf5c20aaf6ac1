package preview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gocv.io/x/gocv"

	"rgbd-capture/internal/rgbd"
)

func TestDepthColormapProducesColorImage(t *testing.T) {
	depth := rgbd.ZeroDepth(8, 6)
	defer depth.Close()

	vis := DepthColormap(depth)
	defer vis.Close()

	assert.Equal(t, gocv.MatTypeCV8UC3, vis.Type())
	assert.Equal(t, 8, vis.Cols())
	assert.Equal(t, 6, vis.Rows())
}

func TestSideBySideDoublesWidth(t *testing.T) {
	live := rgbd.ZeroColor(100, 50)
	defer live.Close()
	last := rgbd.ZeroColor(100, 50)
	defer last.Close()

	combined := SideBySide(live, last, DefaultMaxWidth)
	defer combined.Close()

	assert.Equal(t, 200, combined.Cols())
	assert.Equal(t, 50, combined.Rows())
}

func TestSideBySideCapsWidth(t *testing.T) {
	live := rgbd.ZeroColor(1000, 500)
	defer live.Close()
	last := rgbd.ZeroColor(1000, 500)
	defer last.Close()

	combined := SideBySide(live, last, 400)
	defer combined.Close()

	assert.Equal(t, 400, combined.Cols())
	assert.Equal(t, 100, combined.Rows(), "aspect ratio preserved")
}

func TestStackedComposite(t *testing.T) {
	liveColor := rgbd.ZeroColor(100, 50)
	defer liveColor.Close()
	lastColor := rgbd.ZeroColor(100, 50)
	defer lastColor.Close()

	liveDepth := rgbd.ZeroDepth(100, 50)
	defer liveDepth.Close()
	lastDepth := rgbd.ZeroDepth(100, 50)
	defer lastDepth.Close()

	liveVis := DepthColormap(liveDepth)
	defer liveVis.Close()
	lastVis := DepthColormap(lastDepth)
	defer lastVis.Close()

	combined := Stacked(liveColor, liveVis, lastColor, lastVis, DefaultMaxWidth)
	defer combined.Close()

	assert.Equal(t, 200, combined.Cols(), "two panes wide")
	assert.Equal(t, 100, combined.Rows(), "color over depth")
}
