package testbed

import (
	"github.com/spaghettifunk/conifer/engine/core"
	"github.com/spaghettifunk/conifer/engine/math"
	"github.com/spaghettifunk/conifer/engine/renderer"
)

// DebugRenderer is a headless stand-in for the external drawing
// collaborator. It consumes the frame packet and periodically logs the
// morph and camera state so the simulation can be observed without a
// graphics backend attached.
type DebugRenderer struct {
	frameCount  uint64
	logInterval uint64
}

func NewDebugRenderer() *DebugRenderer {
	return &DebugRenderer{
		// Roughly twice a second at 60 fps.
		logInterval: 30,
	}
}

func (r *DebugRenderer) Initialize() error {
	core.LogInfo("debug renderer ready")
	return nil
}

func (r *DebugRenderer) DrawFrame(packet *renderer.FramePacket) error {
	r.frameCount++
	if r.frameCount%r.logInterval != 0 {
		return nil
	}

	elements := 0
	for _, g := range packet.Groups {
		elements += len(g.Transforms)
	}

	fps, frameTime := core.MetricsFrame()
	core.LogInfo("FPS: %5.1f(%4.1fms) morph=%.3f elements=%d cam az=%6.1f polar=%5.1f pos=[%6.2f %6.2f %6.2f]",
		fps, frameTime,
		packet.MorphValue,
		elements,
		math.RadToDeg(packet.CameraAzimuth),
		math.RadToDeg(packet.CameraPolar),
		packet.CameraPosition.X, packet.CameraPosition.Y, packet.CameraPosition.Z,
	)
	return nil
}

func (r *DebugRenderer) Shutdown() error {
	core.LogInfo("debug renderer shutting down")
	return nil
}
