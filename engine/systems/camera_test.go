package systems

import (
	stdmath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/conifer/engine/gesture"
	"github.com/spaghettifunk/conifer/engine/math"
)

func testCameraConfig() *CameraSystemConfig {
	return &CameraSystemConfig{
		PolarMin:       math.DegToRad(30),
		PolarMax:       math.DegToRad(100),
		Blend:          0.05,
		AutoRotateRate: 0.25,
		Radius:         9.0,
		Target:         math.NewVec3Zero(),
	}
}

func TestNewCameraSystemValidation(t *testing.T) {
	_, err := NewCameraSystem(nil)
	assert.Error(t, err)

	bad := testCameraConfig()
	bad.PolarMin, bad.PolarMax = bad.PolarMax, bad.PolarMin
	_, err = NewCameraSystem(bad)
	assert.Error(t, err)
}

func TestNewCameraSystemStartsMidRange(t *testing.T) {
	cfg := testCameraConfig()
	cs, err := NewCameraSystem(cfg)
	require.NoError(t, err)

	azimuth, polar := cs.Angles()
	assert.Equal(t, float32(0.0), azimuth)
	assert.InDelta(t, float64((cfg.PolarMin+cfg.PolarMax)*0.5), float64(polar), 1e-6)
}

func TestTargetAzimuthMapping(t *testing.T) {
	assert.InDelta(t, float64(-math.K_HALF_PI), float64(TargetAzimuth(0.0)), 1e-6)
	assert.InDelta(t, 0.0, float64(TargetAzimuth(0.5)), 1e-6)
	assert.InDelta(t, float64(math.K_HALF_PI), float64(TargetAzimuth(1.0)), 1e-6)
}

func TestUpdateBlendsTowardHand(t *testing.T) {
	cfg := testCameraConfig()
	cs, err := NewCameraSystem(cfg)
	require.NoError(t, err)

	sample := gesture.Sample{HandX: 1.0, HandY: 0.0, HasHand: true}

	// The blend converges on the target angles over repeated frames.
	for i := 0; i < 500; i++ {
		cs.Update(1.0/60.0, sample, true)
	}

	azimuth, polar := cs.Angles()
	assert.InDelta(t, float64(math.K_HALF_PI), float64(azimuth), 1e-2)
	assert.InDelta(t, float64(cfg.PolarMin), float64(polar), 1e-2)
}

func TestUpdatePolarStaysClamped(t *testing.T) {
	cfg := testCameraConfig()
	cs, err := NewCameraSystem(cfg)
	require.NoError(t, err)

	// Hand Y beyond the frame must not push past the elevation limits.
	sample := gesture.Sample{HandX: 0.5, HandY: 2.5, HasHand: true}
	for i := 0; i < 500; i++ {
		cs.Update(1.0/60.0, sample, true)

		_, polar := cs.Angles()
		assert.GreaterOrEqual(t, polar, cfg.PolarMin-math.K_FLOAT_EPSILON)
		assert.LessOrEqual(t, polar, cfg.PolarMax+math.K_FLOAT_EPSILON)
	}
}

func TestUpdateIdleRotationOnlyWhenAssembled(t *testing.T) {
	cs, err := NewCameraSystem(testCameraConfig())
	require.NoError(t, err)

	noHand := gesture.Sample{HasHand: false}

	// Not assembled: no motion at all.
	before, _ := cs.Angles()
	cs.Update(0.1, noHand, false)
	after, _ := cs.Angles()
	assert.Equal(t, before, after)

	// Assembled and idle: the orbit drifts at the configured rate.
	cs.Update(0.1, noHand, true)
	after, _ = cs.Angles()
	assert.InDelta(t, float64(before)+0.25*0.1, float64(after), 1e-6)
}

func TestUpdateIdleDeltaClamped(t *testing.T) {
	cs, err := NewCameraSystem(testCameraConfig())
	require.NoError(t, err)

	noHand := gesture.Sample{HasHand: false}

	// A multi-second delta (window restored after minimize) advances by the
	// capped step, not the whole stall.
	before, _ := cs.Angles()
	cs.Update(30.0, noHand, true)
	after, _ := cs.Angles()
	assert.InDelta(t, float64(before)+0.25*0.25, float64(after), 1e-6)

	// Invalid deltas do not move the orbit at all.
	cs.Update(-1.0, noHand, true)
	cs.Update(stdmath.NaN(), noHand, true)
	cs.Update(stdmath.Inf(1), noHand, true)
	unmoved, _ := cs.Angles()
	assert.Equal(t, after, unmoved)
}

func TestUpdateHandSuppressesIdleRotation(t *testing.T) {
	cs, err := NewCameraSystem(testCameraConfig())
	require.NoError(t, err)

	// A centered hand holds the camera dead ahead even while assembled.
	sample := gesture.Sample{HandX: 0.5, HandY: 0.5, HasHand: true}
	for i := 0; i < 100; i++ {
		cs.Update(0.1, sample, true)
	}
	azimuth, _ := cs.Angles()
	assert.InDelta(t, 0.0, float64(azimuth), 1e-3)
}

func TestPositionOnOrbitSphere(t *testing.T) {
	cfg := testCameraConfig()
	cs, err := NewCameraSystem(cfg)
	require.NoError(t, err)

	p := cs.Position()
	assert.InDelta(t, float64(cfg.Radius), float64(p.Length()), 1e-4)

	// Dead-ahead azimuth keeps the eye on the +Z side.
	assert.Greater(t, p.Z, float32(0.0))
	assert.InDelta(t, 0.0, float64(p.X), 1e-5)
}

func TestApplyConfigKeepsAngles(t *testing.T) {
	cs, err := NewCameraSystem(testCameraConfig())
	require.NoError(t, err)

	sample := gesture.Sample{HandX: 0.9, HandY: 0.5, HasHand: true}
	for i := 0; i < 50; i++ {
		cs.Update(1.0/60.0, sample, true)
	}
	beforeAz, beforePolar := cs.Angles()

	updated := testCameraConfig()
	updated.AutoRotateRate = 1.0
	cs.ApplyConfig(updated)

	afterAz, afterPolar := cs.Angles()
	assert.Equal(t, beforeAz, afterAz)
	assert.Equal(t, beforePolar, afterPolar)

	// An inverted range is rejected outright.
	bad := testCameraConfig()
	bad.PolarMin, bad.PolarMax = bad.PolarMax, bad.PolarMin
	cs.ApplyConfig(bad)
	cs.Update(0.2, gesture.Sample{HasHand: false}, true)
	afterAz2, _ := cs.Angles()
	assert.InDelta(t, float64(afterAz)+1.0*0.2, float64(afterAz2), 1e-6)
}
