package testbed

import (
	"fmt"

	"github.com/spaghettifunk/conifer/engine"
	"github.com/spaghettifunk/conifer/engine/core"
	"github.com/spaghettifunk/conifer/engine/formation"
	"github.com/spaghettifunk/conifer/engine/math"
	"github.com/spaghettifunk/conifer/engine/renderer"
)

// Scene is the demo application: a conical evergreen built from foliage,
// ornament, garland and topper element groups that morphs between a
// scattered cloud and the assembled tree.
type Scene struct {
	*engine.App
}

type sceneState struct {
	width  uint32
	height uint32

	elapsed float64

	// Per-group resolve buffers, keyed like the registry. Allocated once
	// after the groups exist so the frame path does not allocate.
	buffers map[string][]formation.Transform
	packets []*renderer.GroupTransforms
}

const (
	GroupFoliage       = "foliage"
	GroupOrnamentsGold = "ornaments_gold"
	GroupOrnamentsRed  = "ornaments_red"
	GroupGarland       = "garland"
	GroupTopper        = "topper"
)

func NewScene() (*Scene, error) {
	s := &Scene{
		App: &engine.App{
			ApplicationConfig: &engine.ApplicationConfig{
				StartPosX:   100,
				StartPosY:   100,
				StartWidth:  1280,
				StartHeight: 720,
				Name:        "Conifer",
				LogLevel:    core.DebugLevel,
				ConfigPath:  "config.toml",
			},
			State: &sceneState{
				buffers: make(map[string][]formation.Transform),
			},
		},
	}

	s.FnBoot = s.Boot
	s.FnInitialize = s.Initialize
	s.FnUpdate = s.Update
	s.FnRender = s.Render
	s.FnOnResize = s.OnResize
	s.FnShutdown = s.Shutdown

	return s, nil
}

// Boot contributes the element groups. Every generator closes over the
// loaded formation tuning; the endpoints themselves are produced once by
// the formation system, not here.
func (s *Scene) Boot() error {
	core.LogInfo("booting testbed scene...")

	if s.SystemManager == nil {
		return fmt.Errorf("the engine has not populated the system manager yet")
	}
	ft := s.SystemManager.Config.Formation

	scattered := func(i int) math.Vec3 {
		return formation.UniformInSphere(ft.ScatterRadius)
	}

	goldCount := ft.OrnamentCount / 2
	redCount := ft.OrnamentCount - goldCount
	// Ornaments hang just proud of the foliage surface.
	ornamentRadius := ft.BaseRadius * 1.04

	s.ApplicationConfig.GroupConfigs = append(s.ApplicationConfig.GroupConfigs,
		&formation.GroupConfig{
			Name:      GroupFoliage,
			Count:     ft.FoliageCount,
			Scattered: scattered,
			Assembled: func(i int) math.Vec3 {
				return formation.UniformInCone(ft.Height, ft.BaseRadius)
			},
			BaseScale:   0.05,
			ScaleJitter: 0.04,
		},
		&formation.GroupConfig{
			Name:      GroupOrnamentsGold,
			Count:     goldCount,
			Scattered: scattered,
			Assembled: func(i int) math.Vec3 {
				return formation.OnConeSurface(ft.Height, ornamentRadius, formation.SlantFraction())
			},
			BaseScale:      0.09,
			ScaleJitter:    0.03,
			FloatAmplitude: 0.05,
		},
		&formation.GroupConfig{
			Name:      GroupOrnamentsRed,
			Count:     redCount,
			Scattered: scattered,
			Assembled: func(i int) math.Vec3 {
				return formation.OnConeSurface(ft.Height, ornamentRadius, formation.SlantFraction())
			},
			BaseScale:      0.09,
			ScaleJitter:    0.03,
			FloatAmplitude: 0.05,
		},
		&formation.GroupConfig{
			Name:      GroupGarland,
			Count:     ft.GarlandCount,
			Scattered: scattered,
			Assembled: func(i int) math.Vec3 {
				return formation.SpiralPoint(i, ft.GarlandCount, ft.Height, ft.BaseRadius, ft.GarlandLoops, 0.08)
			},
			BaseScale:   0.04,
			ScaleJitter: 0.01,
		},
		&formation.GroupConfig{
			Name:      GroupTopper,
			Count:     1,
			Scattered: scattered,
			Assembled: func(i int) math.Vec3 {
				return math.NewVec3(0, ft.Height*0.5+0.2, 0)
			},
			BaseScale:      0.22,
			FloatAmplitude: 0.03,
		},
	)

	return nil
}

// Initialize runs after the registry is populated, so the resolve buffers
// can be sized to the final group counts.
func (s *Scene) Initialize() error {
	core.LogDebug("testbed scene initialize...")

	if s.SystemManager == nil {
		return fmt.Errorf("the engine is not yet initialized with all the system managers")
	}

	state := s.State.(*sceneState)
	groups := s.SystemManager.Registry.Groups()
	if len(groups) == 0 {
		return fmt.Errorf("no element groups registered")
	}

	state.packets = make([]*renderer.GroupTransforms, 0, len(groups))
	for _, g := range groups {
		buf := make([]formation.Transform, g.Count())
		state.buffers[g.Name] = buf
		state.packets = append(state.packets, &renderer.GroupTransforms{
			GroupID:    g.ID,
			Name:       g.Name,
			Transforms: buf,
		})
	}
	return nil
}

func (s *Scene) Update(deltaTime float64) error {
	state := s.State.(*sceneState)
	state.elapsed += deltaTime
	return nil
}

// Render resolves every group into its preallocated buffer and hands the
// result to the frame packet. The buffers are reused across frames.
func (s *Scene) Render(packet *renderer.FramePacket, deltaTime float64) error {
	state := s.State.(*sceneState)

	for _, g := range s.SystemManager.Registry.Groups() {
		if err := g.Resolve(packet.MorphValue, packet.Elapsed, state.buffers[g.Name]); err != nil {
			core.LogError("failed to resolve group %q", g.Name)
			return err
		}
	}
	packet.Groups = state.packets

	return nil
}

func (s *Scene) OnResize(width uint32, height uint32) error {
	state := s.State.(*sceneState)

	state.width = width
	state.height = height

	return nil
}

func (s *Scene) Shutdown() error {
	core.LogInfo("testbed scene shutting down")
	return nil
}
