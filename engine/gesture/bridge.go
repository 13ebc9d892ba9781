package gesture

import (
	"sync"
)

type Label uint8

const (
	LabelNone Label = iota
	LabelOpen
	LabelClosed
)

func (l Label) String() string {
	switch l {
	case LabelOpen:
		return "open"
	case LabelClosed:
		return "closed"
	default:
		return "none"
	}
}

// Category names emitted by the external recognizer.
const (
	categoryOpenPalm   = "Open_Palm"
	categoryClosedFist = "Closed_Fist"
)

// MapLabel translates a recognizer category name into a Label. Unknown or
// ambiguous categories map to LabelNone so the morph target never flickers.
func MapLabel(categoryName string) Label {
	switch categoryName {
	case categoryOpenPalm:
		return LabelOpen
	case categoryClosedFist:
		return LabelClosed
	default:
		return LabelNone
	}
}

// Sample is the smoothed per-detection hand state read once per frame by the
// frame loop. HandX/HandY are in [0, 1] with 0.5 at frame center, already
// mirrored and low-pass filtered.
type Sample struct {
	HandX   float64
	HandY   float64
	HasHand bool
	Label   Label
}

// Source delivers gesture samples to the frame loop. The bridge implements
// it over a live recognizer; tests substitute synthetic sources.
type Source interface {
	// Next returns the current sample snapshot. ok is false when the
	// source is disabled and the sample should be ignored entirely.
	Next() (Sample, bool)
}

// Category is one classification candidate from the recognizer.
type Category struct {
	CategoryName string `json:"categoryName"`
}

// Landmark is a single tracked hand point in normalized video coordinates.
type Landmark struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DetectionResult is the raw payload of one recognizer frame: at most one
// hand, each entry holding per-hand candidates/landmarks. Empty slices mean
// no hand was detected.
type DetectionResult struct {
	Gestures  [][]Category `json:"gestures"`
	Landmarks [][]Landmark `json:"landmarks"`
}

// Index of the landmark used as the palm-center proxy (middle finger MCP in
// the MediaPipe hand topology).
const palmLandmarkIndex = 9

// Bridge is the single point of contention between the asynchronous
// detection pipeline and the synchronous frame loop. The recognizer side
// writes one full sample per detection result through Ingest; the frame
// loop takes a read-only snapshot once per frame through Next. The mutex
// keeps each snapshot internally consistent; staleness within one detection
// interval is fine.
type Bridge struct {
	mu        sync.Mutex
	sample    Sample
	smoothing float64
	primed    bool
}

// NewBridge creates a bridge with the given low-pass factor in (0, 1].
// Out-of-range values fall back to 0.1. The hand position starts centered.
func NewBridge(smoothing float64) *Bridge {
	if smoothing <= 0 || smoothing > 1 {
		smoothing = 0.1
	}
	return &Bridge{
		sample: Sample{
			HandX: 0.5,
			HandY: 0.5,
		},
		smoothing: smoothing,
	}
}

// Ingest applies one detection result. Called from the recognizer's own
// goroutine at whatever cadence it delivers frames.
func (b *Bridge) Ingest(result *DetectionResult) {
	if result == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if len(result.Landmarks) == 0 || len(result.Landmarks[0]) == 0 {
		// Freeze the last known position rather than snapping to a
		// default; only the presence flag changes.
		b.sample.HasHand = false
		return
	}

	hand := result.Landmarks[0]
	landmark := hand[0]
	if len(hand) > palmLandmarkIndex {
		landmark = hand[palmLandmarkIndex]
	}

	// Camera and user face each other, so the X axis is mirrored.
	rawX := 1.0 - landmark.X
	rawY := landmark.Y

	if !b.primed {
		b.sample.HandX = rawX
		b.sample.HandY = rawY
		b.primed = true
	} else {
		b.sample.HandX += (rawX - b.sample.HandX) * b.smoothing
		b.sample.HandY += (rawY - b.sample.HandY) * b.smoothing
	}
	b.sample.HasHand = true

	if len(result.Gestures) > 0 && len(result.Gestures[0]) > 0 {
		if label := MapLabel(result.Gestures[0][0].CategoryName); label != LabelNone {
			b.sample.Label = label
		}
	}
}

// Next returns a snapshot of the current sample. Implements Source.
func (b *Bridge) Next() (Sample, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sample, true
}
