package morph

import (
	m "math"

	"github.com/spaghettifunk/conifer/engine/math"
)

type Phase uint8

const (
	// Fully scattered (value at 0).
	PhaseScattered Phase = iota
	// In flight toward the formation (target is 1).
	PhaseAssembling
	// Fully assembled (value at 1).
	PhaseAssembled
	// In flight back toward the cloud (target is 0).
	PhaseScattering
)

// Values closer than this to an endpoint count as settled.
const settleEpsilon = 1e-3

// Frames longer than this (paused or backgrounded tab equivalents) advance
// the damp by a capped step instead of a huge jump.
const maxDeltaTime = 0.25

// State is the continuously-updated morph scalar plus its discrete target.
// Owned exclusively by the frame loop; advanced once per frame.
type State struct {
	value       float64
	target      float64
	dampingRate float64
}

// New creates a morph state resting in the scattered position.
// A non-positive damping rate falls back to 1.5.
func New(dampingRate float64) *State {
	if dampingRate <= 0 {
		dampingRate = 1.5
	}
	return &State{
		value:       0,
		target:      0,
		dampingRate: dampingRate,
	}
}

// SetAssembled sets the morph target. Setting the current target again is a
// no-op and does not disturb the trajectory.
func (s *State) SetAssembled(assembled bool) {
	if assembled {
		s.target = 1
	} else {
		s.target = 0
	}
}

// Toggle flips the morph target.
func (s *State) Toggle() {
	s.SetAssembled(s.target < 0.5)
}

// TargetAssembled reports whether the current target is the assembled state.
func (s *State) TargetAssembled() bool {
	return s.target >= 0.5
}

// SetDampingRate swaps the time constant, e.g. on a config reload. The
// current value is untouched so the trajectory stays continuous.
func (s *State) SetDampingRate(rate float64) {
	if rate > 0 {
		s.dampingRate = rate
	}
}

// Advance steps the value toward the target with a single-pole exponential
// damp. First-order, so it converges monotonically and never overshoots.
func (s *State) Advance(deltaTime float64) {
	dt := sanitizeDelta(deltaTime)
	s.value = s.target + (s.value-s.target)*m.Exp(-s.dampingRate*dt)

	// Guard against float drift leaving the unit interval.
	if s.value < 0 {
		s.value = 0
	} else if s.value > 1 {
		s.value = 1
	}
}

// Value returns the raw blend scalar in [0, 1].
func (s *State) Value() float64 {
	return s.value
}

// Eased returns the visual blend factor: the raw value reshaped through
// ease-out-cubic. The damp models approach-to-target over time; this curve
// reshapes the instantaneous blend so elements snap out and decelerate.
func (s *State) Eased() float32 {
	return math.EaseOutCubic(float32(s.value))
}

// CurrentPhase classifies the state machine position from value and target.
func (s *State) CurrentPhase() Phase {
	if s.target >= 0.5 {
		if s.value >= 1-settleEpsilon {
			return PhaseAssembled
		}
		return PhaseAssembling
	}
	if s.value <= settleEpsilon {
		return PhaseScattered
	}
	return PhaseScattering
}

// sanitizeDelta clamps frame deltas before they reach the damping step:
// negative, NaN or infinite deltas would corrupt the value or move it
// backwards, and a paused frame must not freeze progress with a giant step.
func sanitizeDelta(dt float64) float64 {
	if m.IsNaN(dt) || m.IsInf(dt, 0) || dt < 0 {
		return 0
	}
	if dt > maxDeltaTime {
		return maxDeltaTime
	}
	return dt
}
