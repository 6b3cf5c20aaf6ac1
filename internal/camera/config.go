package camera

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// StreamConfig describes the two device streams. Devices are given as video
// capture identifiers (an index like "0" or a path like "/dev/video2").
// Resolution and rate are configured independently per stream; the source is
// responsible for pairing the two internally.
type StreamConfig struct {
	ColorDevice string `yaml:"color_device"`
	DepthDevice string `yaml:"depth_device"`
	ColorWidth  int    `yaml:"color_width"`
	ColorHeight int    `yaml:"color_height"`
	DepthWidth  int    `yaml:"depth_width"`
	DepthHeight int    `yaml:"depth_height"`
	FPS         int    `yaml:"fps"`
}

// DefaultStreamConfig mirrors the rig's usual 1280x720 @ 30 setup with both
// streams on pre-registered grids.
func DefaultStreamConfig() StreamConfig {
	return StreamConfig{
		ColorDevice: "0",
		DepthDevice: "1",
		ColorWidth:  1280,
		ColorHeight: 720,
		DepthWidth:  1280,
		DepthHeight: 720,
		FPS:         30,
	}
}

// LoadStreamConfig reads a YAML stream configuration, filling unset fields
// from the defaults.
func LoadStreamConfig(path string) (StreamConfig, error) {
	cfg := DefaultStreamConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "reading stream config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing stream config %s", path)
	}
	if cfg.ColorWidth <= 0 || cfg.ColorHeight <= 0 {
		return cfg, errors.Errorf("stream config %s: bad color resolution %dx%d", path, cfg.ColorWidth, cfg.ColorHeight)
	}
	if cfg.DepthWidth <= 0 || cfg.DepthHeight <= 0 {
		return cfg, errors.Errorf("stream config %s: bad depth resolution %dx%d", path, cfg.DepthWidth, cfg.DepthHeight)
	}
	return cfg, nil
}
