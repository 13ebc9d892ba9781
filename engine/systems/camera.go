package systems

import (
	"fmt"
	m "math"
	"sync"

	"github.com/spaghettifunk/conifer/engine/gesture"
	"github.com/spaghettifunk/conifer/engine/math"
)

// Frames longer than this (a restored window, a stalled pump) advance the
// idle orbit by a capped step instead of a multi-second sweep.
const maxCameraDelta = 0.25

type CameraSystemConfig struct {
	// Elevation limits in radians, measured from the +Y axis.
	PolarMin float32
	PolarMax float32
	// Per-frame interpolation factor toward the target angles. Fixed,
	// not time-scaled: combined with the bridge's own smoothing this
	// gives two-stage damping of landmark noise.
	Blend float32
	// Azimuth advance in radians per second while idling assembled.
	AutoRotateRate float32
	// Orbit distance from Target.
	Radius float32
	Target math.Vec3
}

// CameraSystem converts the smoothed hand position into target orbit angles
// and blends the live angles toward them once per frame. While no hand is
// present and the formation is assembled, it auto-rotates instead; the
// moment a hand reappears the idle rotation is suppressed again.
type CameraSystem struct {
	mu     sync.Mutex
	config CameraSystemConfig

	azimuth float32
	polar   float32
}

func NewCameraSystem(config *CameraSystemConfig) (*CameraSystem, error) {
	if config == nil {
		return nil, fmt.Errorf("camera system requires a config")
	}
	if config.PolarMin >= config.PolarMax {
		return nil, fmt.Errorf("camera polar range [%f, %f] is empty", config.PolarMin, config.PolarMax)
	}
	if config.Blend <= 0 || config.Blend > 1 {
		config.Blend = 0.05
	}
	if config.Radius <= 0 {
		config.Radius = 9.0
	}

	return &CameraSystem{
		config:  *config,
		azimuth: 0,
		polar:   (config.PolarMin + config.PolarMax) * 0.5,
	}, nil
}

// ApplyConfig swaps tuning values at runtime (config reload). The live
// angles are kept so the camera does not jump; the polar angle is pulled
// into the new limits on the next update.
func (cs *CameraSystem) ApplyConfig(config *CameraSystemConfig) {
	if config == nil || config.PolarMin >= config.PolarMax {
		return
	}
	cs.mu.Lock()
	cs.config = *config
	cs.mu.Unlock()
}

// TargetAzimuth maps the mirrored hand X in [0, 1] to an azimuth in
// [-pi/2, +pi/2]; hand centered means camera dead ahead.
func TargetAzimuth(handX float64) float32 {
	return (float32(handX) - 0.5) * math.K_PI
}

// Update advances the camera angles for one frame. sample is this frame's
// bridge snapshot; assembled reports whether the formation has settled.
func (cs *CameraSystem) Update(deltaTime float64, sample gesture.Sample, assembled bool) {
	deltaTime = sanitizeCameraDelta(deltaTime)

	cs.mu.Lock()
	defer cs.mu.Unlock()

	if sample.HasHand {
		targetAzimuth := TargetAzimuth(sample.HandX)
		targetPolar := cs.config.PolarMin + float32(sample.HandY)*(cs.config.PolarMax-cs.config.PolarMin)
		targetPolar = math.Clamp(targetPolar, cs.config.PolarMin, cs.config.PolarMax)

		cs.azimuth = math.Lerp(cs.azimuth, targetAzimuth, cs.config.Blend)
		cs.polar = math.Lerp(cs.polar, targetPolar, cs.config.Blend)
		return
	}

	if assembled {
		cs.azimuth += cs.config.AutoRotateRate * float32(deltaTime)
		if cs.azimuth > math.K_PI {
			cs.azimuth -= math.K_PI_2
		}
	}
}

// sanitizeCameraDelta clamps frame deltas before they reach the idle
// rotation: negative, NaN or infinite deltas would corrupt the azimuth, and
// a single giant step would defeat the per-frame wrap.
func sanitizeCameraDelta(dt float64) float64 {
	if m.IsNaN(dt) || m.IsInf(dt, 0) || dt < 0 {
		return 0
	}
	if dt > maxCameraDelta {
		return maxCameraDelta
	}
	return dt
}

// Angles returns the current azimuth and polar angle.
func (cs *CameraSystem) Angles() (float32, float32) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.azimuth, cs.polar
}

// Position resolves the orbit angles into a world-space eye position on the
// sphere of the configured radius around the target.
func (cs *CameraSystem) Position() math.Vec3 {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	sinPolar := math.Sin(cs.polar)
	return math.NewVec3(
		cs.config.Target.X+cs.config.Radius*sinPolar*math.Sin(cs.azimuth),
		cs.config.Target.Y+cs.config.Radius*math.Cos(cs.polar),
		cs.config.Target.Z+cs.config.Radius*sinPolar*math.Cos(cs.azimuth),
	)
}
