package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/conifer/engine/core"
	"github.com/spaghettifunk/conifer/engine/gesture"
	"github.com/spaghettifunk/conifer/engine/renderer"
)

type nullRenderer struct{}

func (nullRenderer) Initialize() error                     { return nil }
func (nullRenderer) DrawFrame(*renderer.FramePacket) error { return nil }
func (nullRenderer) Shutdown() error                       { return nil }

// newTestEngine builds an engine without the platform layer: no window, no
// gesture feed, built-in config defaults.
func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	app := &App{
		ApplicationConfig: &ApplicationConfig{
			StartPosX:   100,
			StartPosY:   100,
			StartWidth:  1280,
			StartHeight: 720,
			Name:        "engine-test",
			LogLevel:    core.ErrorLevel,
		},
	}
	e, err := New(app, nullRenderer{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.systemManager.Shutdown() })
	return e
}

func TestNewValidation(t *testing.T) {
	_, err := New(nil, nullRenderer{})
	assert.Error(t, err)

	_, err = New(&App{}, nullRenderer{})
	assert.Error(t, err)

	_, err = New(&App{ApplicationConfig: &ApplicationConfig{}}, nil)
	assert.Error(t, err)
}

func TestApplyGestureClosedFistAssemblesImmediately(t *testing.T) {
	e := newTestEngine(t)
	require.False(t, e.morph.TargetAssembled())

	// The target flips on the very frame the label arrives, with no
	// intermediate state and no Advance in between.
	e.applyGesture(gesture.Sample{HasHand: true, HandX: 0.5, HandY: 0.5, Label: gesture.LabelClosed})
	assert.True(t, e.morph.TargetAssembled())
}

func TestApplyGestureOpenPalmScattersImmediately(t *testing.T) {
	e := newTestEngine(t)
	e.morph.SetAssembled(true)

	e.applyGesture(gesture.Sample{HasHand: true, HandX: 0.5, HandY: 0.5, Label: gesture.LabelOpen})
	assert.False(t, e.morph.TargetAssembled())
}

func TestApplyGestureAmbiguousLeavesTarget(t *testing.T) {
	e := newTestEngine(t)

	e.applyGesture(gesture.Sample{HasHand: true, Label: gesture.LabelNone})
	assert.False(t, e.morph.TargetAssembled())

	e.morph.SetAssembled(true)
	e.applyGesture(gesture.Sample{HasHand: true, Label: gesture.LabelNone})
	assert.True(t, e.morph.TargetAssembled())
}

func TestQuitEventStopsRunLoop(t *testing.T) {
	e := newTestEngine(t)
	require.True(t, e.isRunning.Load())

	// The quit handler runs on the event goroutine; the flag crossing to
	// the frame loop is the only thing it touches.
	e.onEvent(core.EventContext{Type: core.EVENT_CODE_APPLICATION_QUIT})
	assert.False(t, e.isRunning.Load())
}

func TestMorphToggleAppliedAtFrameBoundary(t *testing.T) {
	e := newTestEngine(t)

	e.onMorphToggled(core.EventContext{Type: core.EVENT_CODE_MORPH_TOGGLED})
	// Not applied until the frame loop consumes it.
	assert.False(t, e.morph.TargetAssembled())

	if toggles := e.pendingToggles.Swap(0); toggles%2 != 0 {
		e.morph.Toggle()
	}
	assert.True(t, e.morph.TargetAssembled())
}

func TestResizeAppliedAtFrameBoundary(t *testing.T) {
	e := newTestEngine(t)

	resized := make([]uint32, 0, 2)
	e.appInstance.FnOnResize = func(width, height uint32) error {
		resized = append(resized, width, height)
		return nil
	}

	e.onResized(core.EventContext{
		Type: core.EVENT_CODE_RESIZED,
		Data: &core.SystemEvent{WindowWidth: 800, WindowHeight: 600},
	})

	// The handler only records the size; nothing changes until the frame
	// boundary.
	width, height := e.GetFramebufferSize()
	assert.Equal(t, uint32(1280), width)
	assert.Equal(t, uint32(720), height)
	assert.Empty(t, resized)

	e.applyPendingResize()
	width, height = e.GetFramebufferSize()
	assert.Equal(t, uint32(800), width)
	assert.Equal(t, uint32(600), height)
	assert.Equal(t, []uint32{800, 600}, resized)
}

func TestResizeOnlyNewestSizeApplies(t *testing.T) {
	e := newTestEngine(t)

	e.onResized(core.EventContext{
		Type: core.EVENT_CODE_RESIZED,
		Data: &core.SystemEvent{WindowWidth: 640, WindowHeight: 480},
	})
	e.onResized(core.EventContext{
		Type: core.EVENT_CODE_RESIZED,
		Data: &core.SystemEvent{WindowWidth: 1920, WindowHeight: 1080},
	})

	e.applyPendingResize()
	width, height := e.GetFramebufferSize()
	assert.Equal(t, uint32(1920), width)
	assert.Equal(t, uint32(1080), height)
}

func TestMinimizeSuspendsUntilRestore(t *testing.T) {
	e := newTestEngine(t)

	e.onResized(core.EventContext{
		Type: core.EVENT_CODE_RESIZED,
		Data: &core.SystemEvent{WindowWidth: 0, WindowHeight: 0},
	})
	e.applyPendingResize()
	assert.True(t, e.isSuspended.Load())

	e.onResized(core.EventContext{
		Type: core.EVENT_CODE_RESIZED,
		Data: &core.SystemEvent{WindowWidth: 1280, WindowHeight: 720},
	})
	e.applyPendingResize()
	assert.False(t, e.isSuspended.Load())
}

func TestSetAssembledMatchesGestureSemantics(t *testing.T) {
	e := newTestEngine(t)

	e.SetAssembled(true)
	assert.True(t, e.morph.TargetAssembled())
	e.SetAssembled(false)
	assert.False(t, e.morph.TargetAssembled())
}
