package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type WindowConfig struct {
	PosX   uint32 `toml:"pos_x"`
	PosY   uint32 `toml:"pos_y"`
	Width  uint32 `toml:"width"`
	Height uint32 `toml:"height"`
}

type MorphConfig struct {
	// Time constant of the exponential damp toward the morph target.
	DampingRate float64 `toml:"damping_rate"`
}

type CameraConfig struct {
	// Elevation limits in degrees; converted to radians at the consumer.
	PolarMinDeg float32 `toml:"polar_min_deg"`
	PolarMaxDeg float32 `toml:"polar_max_deg"`
	// Per-frame interpolation factor toward the gesture-derived target
	// angles. Deliberately slower than the bridge smoothing.
	Blend float32 `toml:"blend"`
	// Idle azimuth advance in radians per second while assembled and
	// no hand is present.
	AutoRotateRate float32 `toml:"auto_rotate_rate"`
	// Orbit distance from the formation center.
	Radius float32 `toml:"radius"`
}

type GestureConfig struct {
	// Websocket endpoint of the external recognizer. Empty disables the
	// gesture bridge entirely (manual toggle only).
	FeedURL string `toml:"feed_url"`
	// Low-pass factor for the smoothed hand position.
	Smoothing float64 `toml:"smoothing"`
}

type FormationConfig struct {
	Height        float32 `toml:"height"`
	BaseRadius    float32 `toml:"base_radius"`
	ScatterRadius float32 `toml:"scatter_radius"`
	FoliageCount  int     `toml:"foliage_count"`
	OrnamentCount int     `toml:"ornament_count"`
	GarlandCount  int     `toml:"garland_count"`
	GarlandLoops  float32 `toml:"garland_loops"`
}

type Config struct {
	Window    WindowConfig    `toml:"window"`
	Morph     MorphConfig     `toml:"morph"`
	Camera    CameraConfig    `toml:"camera"`
	Gesture   GestureConfig   `toml:"gesture"`
	Formation FormationConfig `toml:"formation"`
}

// Default returns the built-in tuning values, used when no config file
// exists and as the base that file values override.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			PosX:   100,
			PosY:   100,
			Width:  1280,
			Height: 720,
		},
		Morph: MorphConfig{
			DampingRate: 1.5,
		},
		Camera: CameraConfig{
			PolarMinDeg:    30,
			PolarMaxDeg:    100,
			Blend:          0.05,
			AutoRotateRate: 0.25,
			Radius:         9.0,
		},
		Gesture: GestureConfig{
			FeedURL:   "ws://127.0.0.1:9470/detections",
			Smoothing: 0.1,
		},
		Formation: FormationConfig{
			Height:        4.2,
			BaseRadius:    1.6,
			ScatterRadius: 6.0,
			FoliageCount:  1200,
			OrnamentCount: 60,
			GarlandCount:  300,
			GarlandLoops:  6,
		},
	}
}

// Load reads the TOML file at path over the defaults. A missing file is not
// an error; the defaults are returned as-is.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
