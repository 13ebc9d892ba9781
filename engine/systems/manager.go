package systems

import (
	"fmt"
	"runtime"

	"github.com/spaghettifunk/conifer/engine/config"
	"github.com/spaghettifunk/conifer/engine/core"
	"github.com/spaghettifunk/conifer/engine/formation"
	"github.com/spaghettifunk/conifer/engine/gesture"
	"github.com/spaghettifunk/conifer/engine/math"
)

// SystemManager wires the engine subsystems together and owns their
// lifecycles: the orbit camera, the worker pool, the formation registry and
// the gesture bridge with its detection feed.
type SystemManager struct {
	Config       *config.Config
	CameraSystem *CameraSystem
	JobSystem    *JobSystem
	Registry     *formation.Registry
	Bridge       *gesture.Bridge

	feed           *gesture.Feed
	gestureEnabled bool
}

func NewSystemManager(cfg *config.Config) (*SystemManager, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	camera, err := NewCameraSystem(cameraConfigFrom(cfg))
	if err != nil {
		return nil, err
	}

	jobs, err := NewJobSystem(runtime.NumCPU(), 16)
	if err != nil {
		return nil, err
	}

	return &SystemManager{
		Config:       cfg,
		CameraSystem: camera,
		JobSystem:    jobs,
		Registry:     formation.NewRegistry(),
		Bridge:       gesture.NewBridge(cfg.Gesture.Smoothing),
	}, nil
}

func cameraConfigFrom(cfg *config.Config) *CameraSystemConfig {
	return &CameraSystemConfig{
		PolarMin:       math.DegToRad(cfg.Camera.PolarMinDeg),
		PolarMax:       math.DegToRad(cfg.Camera.PolarMaxDeg),
		Blend:          cfg.Camera.Blend,
		AutoRotateRate: cfg.Camera.AutoRotateRate,
		Radius:         cfg.Camera.Radius,
		Target:         math.NewVec3Zero(),
	}
}

// Initialize brings up the asynchronous side. A failed gesture feed is a
// setup failure, not a fatal one: the engine keeps running with the manual
// toggle only.
func (sm *SystemManager) Initialize() error {
	url := sm.Config.Gesture.FeedURL
	if url == "" {
		core.LogInfo("gesture feed disabled by configuration, manual toggle only")
		return nil
	}

	feed, err := gesture.Connect(url, sm.Bridge)
	if err != nil {
		core.LogWarn("gesture feed unavailable, continuing in manual mode: %s", err)
		return nil
	}
	sm.feed = feed
	sm.gestureEnabled = true
	core.LogInfo("gesture feed connected: %s", url)
	return nil
}

// FormationCreate generates every configured element group once, fanning
// the endpoint generation out over the worker pool, and registers the
// results in config order.
func (sm *SystemManager) FormationCreate(configs []*formation.GroupConfig) error {
	if len(configs) == 0 {
		return fmt.Errorf("no element groups configured")
	}

	groups := make([]*formation.ElementGroup, len(configs))
	errs := make([]error, len(configs))
	done := make(chan int, len(configs))

	for i, gc := range configs {
		i, gc := i, gc
		sm.JobSystem.Submit(JobTask{
			OnStart: func() error {
				g, err := formation.NewElementGroup(gc)
				groups[i] = g
				errs[i] = err
				return err
			},
			OnComplete: func() { done <- i },
			OnFailure:  func(error) { done <- i },
		})
	}
	for range configs {
		<-done
	}

	for i, g := range groups {
		if errs[i] != nil {
			return errs[i]
		}
		if err := sm.Registry.Add(g); err != nil {
			return err
		}
		core.LogDebug("element group %q registered with %d elements", g.Name, g.Count())
	}
	return nil
}

// GestureSample returns this frame's bridge snapshot. ok is false when the
// feed never came up, in which case the sample must be ignored.
func (sm *SystemManager) GestureSample() (gesture.Sample, bool) {
	if !sm.gestureEnabled {
		return gesture.Sample{}, false
	}
	return sm.Bridge.Next()
}

// ApplyConfig publishes reloaded tuning values to the running systems.
func (sm *SystemManager) ApplyConfig(cfg *config.Config) {
	sm.Config = cfg
	sm.CameraSystem.ApplyConfig(cameraConfigFrom(cfg))
}

// Shutdown tears the asynchronous side down before anything it writes to:
// the feed stops first, then the worker pool drains.
func (sm *SystemManager) Shutdown() error {
	if sm.feed != nil {
		if err := sm.feed.Close(); err != nil {
			core.LogError("closing gesture feed: %s", err.Error())
		}
		sm.feed = nil
		sm.gestureEnabled = false
	}
	return sm.JobSystem.Shutdown()
}
