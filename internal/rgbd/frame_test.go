package rgbd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gocv.io/x/gocv"
)

func TestFramePairComplete(t *testing.T) {
	color := ZeroColor(4, 3)
	depth := ZeroDepth(4, 3)
	pair := FramePair{Color: color, Depth: depth}
	defer pair.Close()

	assert.True(t, pair.Complete())
	assert.True(t, pair.Aligned())
}

func TestFramePairMissingChannel(t *testing.T) {
	pair := FramePair{Color: ZeroColor(4, 3), Depth: gocv.NewMat()}
	defer pair.Close()

	assert.False(t, pair.Complete())
}

func TestFramePairWrongDepthType(t *testing.T) {
	color := ZeroColor(4, 3)
	badDepth := gocv.NewMatWithSize(3, 4, gocv.MatTypeCV8U)
	pair := FramePair{Color: color, Depth: badDepth}
	defer pair.Close()

	assert.False(t, pair.Complete())
}

func TestFramePairMismatchedGrids(t *testing.T) {
	pair := FramePair{Color: ZeroColor(8, 6), Depth: ZeroDepth(4, 3)}
	defer pair.Close()

	assert.True(t, pair.Complete())
	assert.False(t, pair.Aligned())
}
