package engine

import (
	"fmt"
	"sync/atomic"

	"github.com/spaghettifunk/conifer/engine/config"
	"github.com/spaghettifunk/conifer/engine/core"
	"github.com/spaghettifunk/conifer/engine/gesture"
	"github.com/spaghettifunk/conifer/engine/morph"
	"github.com/spaghettifunk/conifer/engine/platform"
	"github.com/spaghettifunk/conifer/engine/renderer"
	"github.com/spaghettifunk/conifer/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently booting up
	EngineStageBooting
	// Engine completed boot process and is ready to be initialized
	EngineStageBootComplete
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

type Engine struct {
	currentStage  Stage
	appInstance   *App
	platform      *platform.Platform
	systemManager *systems.SystemManager
	renderer      renderer.Renderer
	morph         *morph.State
	configWatcher *config.Watcher
	width         uint32
	height        uint32
	clock         *core.Clock
	lastTime      float64
	lastLabel     gesture.Label
	lastHasHand   bool

	// Lifecycle flags written by the event goroutine and the shutdown
	// signal handler; every other engine field is frame-loop-private.
	isRunning   atomic.Bool
	isSuspended atomic.Bool

	// Latest window size from the event goroutine. Only the newest value
	// matters; the frame loop swaps it out at frame boundaries.
	pendingResize atomic.Pointer[core.SystemEvent]

	// Toggle requests arrive on the event goroutine; the frame loop,
	// which owns the morph state, consumes them at frame boundaries.
	pendingToggles atomic.Int32

	// Config values swapped by the reload callback; read at frame
	// boundaries only.
	pendingConfig chan *config.Config
}

func New(app *App, r renderer.Renderer) (*Engine, error) {
	if app == nil || app.ApplicationConfig == nil {
		return nil, fmt.Errorf("engine requires an app with a populated ApplicationConfig")
	}
	if r == nil {
		return nil, fmt.Errorf("engine requires a renderer collaborator")
	}

	cfg, err := config.Load(app.ApplicationConfig.ConfigPath)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	sm, err := systems.NewSystemManager(cfg)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	app.SystemManager = sm

	e := &Engine{
		currentStage:  EngineStageUninitialized,
		appInstance:   app,
		clock:         core.NewClock(),
		platform:      platform.New(),
		systemManager: sm,
		renderer:      r,
		morph:         morph.New(cfg.Morph.DampingRate),
		width:         app.ApplicationConfig.StartWidth,
		height:        app.ApplicationConfig.StartHeight,
		lastTime:      0,
		pendingConfig: make(chan *config.Config, 1),
	}
	e.isRunning.Store(true)
	return e, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageBooting
	core.SetLogLevel(e.appInstance.ApplicationConfig.LogLevel)

	// initialize input
	if err := core.InputInitialize(); err != nil {
		return err
	}

	// initialize events
	if !core.EventSystemInitialize() {
		return fmt.Errorf("failed to initialize the event system")
	}

	if err := core.MetricsInitialize(); err != nil {
		return err
	}

	// register some events
	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e.onEvent)
	core.EventRegister(core.EVENT_CODE_KEY_PRESSED, e.onKey)
	core.EventRegister(core.EVENT_CODE_RESIZED, e.onResized)
	core.EventRegister(core.EVENT_CODE_MORPH_TOGGLED, e.onMorphToggled)

	if err := e.platform.Startup(e.appInstance.ApplicationConfig.Name,
		e.appInstance.ApplicationConfig.StartPosX,
		e.appInstance.ApplicationConfig.StartPosY,
		e.appInstance.ApplicationConfig.StartWidth,
		e.appInstance.ApplicationConfig.StartHeight); err != nil {
		return err
	}

	// The scene contributes its element groups during boot.
	if e.appInstance.FnBoot != nil {
		if err := e.appInstance.FnBoot(); err != nil {
			return err
		}
	}
	e.currentStage = EngineStageBootComplete

	e.currentStage = EngineStageInitializing
	if err := e.systemManager.Initialize(); err != nil {
		return err
	}

	if err := e.systemManager.FormationCreate(e.appInstance.ApplicationConfig.GroupConfigs); err != nil {
		return err
	}

	if err := e.renderer.Initialize(); err != nil {
		return err
	}

	// Live tuning reload is best-effort; a broken watcher never stops
	// the engine.
	if path := e.appInstance.ApplicationConfig.ConfigPath; path != "" {
		watcher, err := config.Watch(path, e.onConfigReloaded)
		if err != nil {
			core.LogWarn("config watcher unavailable: %s", err)
		} else {
			e.configWatcher = watcher
		}
	}

	if e.appInstance.FnInitialize != nil {
		if err := e.appInstance.FnInitialize(); err != nil {
			return err
		}
	}

	if e.appInstance.FnOnResize != nil {
		if err := e.appInstance.FnOnResize(e.width, e.height); err != nil {
			return err
		}
	}
	e.currentStage = EngineStageInitialized
	return nil
}

func (e *Engine) Run() error {
	e.currentStage = EngineStageRunning
	e.clock.Start()
	e.clock.Update()

	e.lastTime = e.clock.Elapsed()

	// start goroutine to process all the events around the engine
	go core.ProcessEvents()

	for e.isRunning.Load() {
		if !e.platform.PumpMessages() {
			e.isRunning.Store(false)
		}

		// Resizes apply even while suspended: restoring the window is
		// itself a resize.
		e.applyPendingResize()

		if !e.isSuspended.Load() {
			// Update clock and get delta time.
			e.clock.Update()

			currentTime := e.clock.Elapsed()
			delta := currentTime - e.lastTime
			frameStartTime := platform.GetAbsoluteTime()

			e.applyPendingConfig()

			if toggles := e.pendingToggles.Swap(0); toggles%2 != 0 {
				e.morph.Toggle()
				core.LogDebug("morph toggled, target assembled=%t", e.morph.TargetAssembled())
			}

			// Snapshot the bridge once, before anything consumes it.
			sample, gestureActive := e.systemManager.GestureSample()
			if gestureActive {
				e.applyGesture(sample)
			}

			e.morph.Advance(delta)

			assembled := e.morph.CurrentPhase() == morph.PhaseAssembled
			e.systemManager.CameraSystem.Update(delta, sample, assembled)

			if e.appInstance.FnUpdate != nil {
				if err := e.appInstance.FnUpdate(delta); err != nil {
					core.LogError("app update failed, shutting down.")
					e.isRunning.Store(false)
					break
				}
			}

			azimuth, polar := e.systemManager.CameraSystem.Angles()
			packet := &renderer.FramePacket{
				DeltaTime:      delta,
				Elapsed:        currentTime,
				MorphValue:     e.morph.Eased(),
				CameraAzimuth:  azimuth,
				CameraPolar:    polar,
				CameraPosition: e.systemManager.CameraSystem.Position(),
			}

			if e.appInstance.FnRender != nil {
				if err := e.appInstance.FnRender(packet, delta); err != nil {
					core.LogError("app render failed, shutting down.")
					e.isRunning.Store(false)
					break
				}
			}

			if err := e.renderer.DrawFrame(packet); err != nil {
				core.LogError("draw frame failed: %s", err.Error())
			}

			frameElapsedTime := platform.GetAbsoluteTime() - frameStartTime
			core.MetricsUpdate(frameElapsedTime)

			// NOTE: Input update/state copying should always be handled
			// after any input should be recorded; I.E. before this line.
			// As a safety, input is the last thing to be updated before
			// this frame ends.
			core.InputUpdate(delta)

			// Update last time
			e.lastTime = currentTime
		}
	}

	return nil
}

func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown
	e.isRunning.Store(false)

	if e.appInstance.FnShutdown != nil {
		if err := e.appInstance.FnShutdown(); err != nil {
			core.LogError(err.Error())
		}
	}
	if e.configWatcher != nil {
		if err := e.configWatcher.Close(); err != nil {
			core.LogError(err.Error())
		}
	}
	// The asynchronous detection side stops before the event and input
	// systems it could otherwise write into.
	if err := e.systemManager.Shutdown(); err != nil {
		return err
	}
	if err := e.renderer.Shutdown(); err != nil {
		core.LogError(err.Error())
	}
	if err := core.EventSystemShutdown(); err != nil {
		return err
	}
	if err := core.InputShutdown(); err != nil {
		return err
	}
	if err := e.platform.Shutdown(); err != nil {
		return err
	}
	return nil
}

// GetFramebufferSize returns the width and height (in this order)
// of the application framebuffer.
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

// SetAssembled is the manual control surface: identical semantics to a
// gesture-driven target change.
func (e *Engine) SetAssembled(assembled bool) {
	e.morph.SetAssembled(assembled)
}

// applyGesture maps the classification label onto the morph target. Labels
// other than open/closed leave the target untouched.
func (e *Engine) applyGesture(sample gesture.Sample) {
	if sample.HasHand != e.lastHasHand {
		e.lastHasHand = sample.HasHand
		core.EventFire(core.EventContext{
			Type: core.EVENT_CODE_HAND_PRESENCE_CHANGED,
			Data: sample.HasHand,
		})
	}

	switch sample.Label {
	case gesture.LabelOpen:
		e.morph.SetAssembled(false)
	case gesture.LabelClosed:
		e.morph.SetAssembled(true)
	}
	if sample.Label != e.lastLabel {
		e.lastLabel = sample.Label
		core.LogDebug("gesture label now %q, morph target assembled=%t", sample.Label, e.morph.TargetAssembled())
		core.EventFire(core.EventContext{
			Type: core.EVENT_CODE_MORPH_TARGET_CHANGED,
			Data: e.morph.TargetAssembled(),
		})
	}
}

// applyPendingConfig publishes a reloaded config at a frame boundary.
func (e *Engine) applyPendingConfig() {
	select {
	case cfg := <-e.pendingConfig:
		e.morph.SetDampingRate(cfg.Morph.DampingRate)
		e.systemManager.ApplyConfig(cfg)
		core.EventFire(core.EventContext{Type: core.EVENT_CODE_CONFIG_RELOADED})
	default:
	}
}

// onConfigReloaded runs on the watcher goroutine; the parsed config is
// handed to the frame loop instead of being applied here.
func (e *Engine) onConfigReloaded(cfg *config.Config) {
	select {
	case e.pendingConfig <- cfg:
	default:
		// A newer reload is already pending; drop this one.
	}
}

func (e *Engine) onEvent(context core.EventContext) {
	switch context.Type {
	case core.EVENT_CODE_APPLICATION_QUIT:
		{
			core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
			e.isRunning.Store(false)
		}
	}
}

func (e *Engine) onMorphToggled(context core.EventContext) {
	e.pendingToggles.Add(1)
}

func (e *Engine) onKey(context core.EventContext) {
	ke, ok := context.Data.(*core.KeyEvent)
	if !ok {
		core.LogError("wrong event data associated with the event type `%d`", context.Type)
		return
	}

	if context.Type != core.EVENT_CODE_KEY_PRESSED {
		return
	}

	switch ke.KeyCode {
	case core.KEY_ESCAPE:
		// NOTE: Technically firing an event to itself, but there may be other listeners.
		core.EventFire(core.EventContext{
			Type: core.EVENT_CODE_APPLICATION_QUIT,
		})
	case core.KEY_SPACE:
		core.EventFire(core.EventContext{
			Type: core.EVENT_CODE_MORPH_TOGGLED,
		})
	}
}

// onResized runs on the event goroutine; it only records the newest size
// and leaves applying it to the frame loop.
func (e *Engine) onResized(context core.EventContext) {
	if context.Type != core.EVENT_CODE_RESIZED {
		return
	}
	se, ok := context.Data.(*core.SystemEvent)
	if !ok {
		core.LogError("wrong event data associated with the event type `%d`", context.Type)
		return
	}
	e.pendingResize.Store(se)
}

// applyPendingResize applies the latest recorded window size at a frame
// boundary, handling minimize/restore suspension.
func (e *Engine) applyPendingResize() {
	se := e.pendingResize.Swap(nil)
	if se == nil {
		return
	}

	width := se.WindowWidth
	height := se.WindowHeight
	if width == e.width && height == e.height {
		return
	}
	e.width = width
	e.height = height

	core.LogDebug("Window resize: %d, %d", width, height)

	// Handle minimization
	if width == 0 || height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended.Store(true)
		return
	}
	if e.isSuspended.Load() {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended.Store(false)
		// Drop the time accumulated while suspended so the first frame
		// back does not see a multi-second delta.
		e.clock.Update()
		e.lastTime = e.clock.Elapsed()
	}
	if e.appInstance.FnOnResize != nil {
		e.appInstance.FnOnResize(width, height)
	}
}
