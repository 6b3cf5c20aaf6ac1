package align

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Calibration is the on-disk alignment description for a rig whose depth
// stream is not pre-registered to color.
type Calibration struct {
	// Homography is the row-major 3x3 depth-to-color transform.
	Homography []float64 `yaml:"homography"`
}

// LoadCalibration reads a YAML calibration file and returns the configured
// aligner.
func LoadCalibration(path string) (*Homography, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading calibration %s", path)
	}
	var calib Calibration
	if err := yaml.Unmarshal(data, &calib); err != nil {
		return nil, errors.Wrapf(err, "parsing calibration %s", path)
	}
	if len(calib.Homography) != 9 {
		return nil, errors.Errorf("calibration %s: homography needs 9 values, got %d", path, len(calib.Homography))
	}
	var vals [9]float64
	copy(vals[:], calib.Homography)
	return NewHomography(vals), nil
}
