package engine

import (
	"github.com/spaghettifunk/conifer/engine/renderer"
	"github.com/spaghettifunk/conifer/engine/systems"
)

// App is the scene-side contract: the engine drives these callbacks around
// its frame loop. SystemManager is populated by the engine before FnBoot.
type App struct {
	ApplicationConfig *ApplicationConfig
	SystemManager     *systems.SystemManager
	State             interface{}
	FnBoot            Boot
	FnInitialize      Initialize
	FnUpdate          Update
	FnRender          Render
	FnOnResize        OnResize
	FnShutdown        Shutdown
}

type Boot func() error
type Initialize func() error
type Update func(deltaTime float64) error
type Render func(packet *renderer.FramePacket, deltaTime float64) error
type OnResize func(width uint32, height uint32) error
type Shutdown func() error
