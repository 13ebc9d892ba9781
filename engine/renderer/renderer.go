package renderer

import (
	"github.com/google/uuid"

	"github.com/spaghettifunk/conifer/engine/formation"
	"github.com/spaghettifunk/conifer/engine/math"
)

// GroupTransforms is one element group's resolved per-frame state.
type GroupTransforms struct {
	GroupID    uuid.UUID
	Name       string
	Transforms []formation.Transform
}

// FramePacket carries everything an external renderer needs for one frame:
// the resolved instance transforms and the orbit camera state. Built fresh
// each frame by the engine loop.
type FramePacket struct {
	DeltaTime  float64
	Elapsed    float64
	MorphValue float32
	Groups     []*GroupTransforms

	CameraAzimuth  float32
	CameraPolar    float32
	CameraPosition math.Vec3
}

// Renderer is the external drawing collaborator. Implementations must not
// block in DrawFrame; the engine calls it once per display frame.
type Renderer interface {
	Initialize() error
	DrawFrame(packet *FramePacket) error
	Shutdown() error
}
