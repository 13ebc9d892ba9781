package formation

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/spaghettifunk/conifer/engine/math"
)

// Transform is the per-frame resolved state of a single element, ready for
// consumption by a renderer.
type Transform struct {
	Position math.Vec3
	Scale    float32
	Rotation float32
}

// GroupConfig describes how one element group generates its endpoints.
// The two position callbacks are invoked exactly once per element at
// construction time.
type GroupConfig struct {
	Name  string
	Count int
	// Scattered produces the cloud-state position for element i.
	Scattered func(i int) math.Vec3
	// Assembled produces the formation-state position for element i.
	Assembled func(i int) math.Vec3
	// BaseScale is the intrinsic element scale; ScaleJitter adds a uniform
	// random amount on top, per element.
	BaseScale   float32
	ScaleJitter float32
	// FloatAmplitude scales the idle bob applied in the assembled state.
	// Zero disables floating for the group.
	FloatAmplitude float32
}

// ElementGroup holds the paired endpoint arrays for one visual category.
// Positions are generated once and never regenerated, so each element keeps
// a stable identity and travels between its own two endpoints for the whole
// session. Laid out structure-of-arrays for the per-frame resolve loop.
type ElementGroup struct {
	ID   uuid.UUID
	Name string

	scattered      []math.Vec3
	assembled      []math.Vec3
	scales         []float32
	rotationSeeds  []float32
	phaseOffsets   []float32
	floatAmplitude float32
}

const floatSpeed float32 = 1.2

// NewElementGroup generates the endpoint arrays for the given config.
func NewElementGroup(config *GroupConfig) (*ElementGroup, error) {
	if config.Count <= 0 {
		return nil, fmt.Errorf("element group %q must have a positive count", config.Name)
	}
	if config.Scattered == nil || config.Assembled == nil {
		return nil, fmt.Errorf("element group %q is missing a position generator", config.Name)
	}

	g := &ElementGroup{
		ID:             uuid.New(),
		Name:           config.Name,
		scattered:      make([]math.Vec3, config.Count),
		assembled:      make([]math.Vec3, config.Count),
		scales:         make([]float32, config.Count),
		rotationSeeds:  make([]float32, config.Count),
		phaseOffsets:   make([]float32, config.Count),
		floatAmplitude: config.FloatAmplitude,
	}

	baseScale := config.BaseScale
	if baseScale == 0 {
		baseScale = 1.0
	}

	for i := 0; i < config.Count; i++ {
		g.scattered[i] = config.Scattered(i)
		g.assembled[i] = config.Assembled(i)
		g.scales[i] = baseScale + math.RandomFloat()*config.ScaleJitter
		g.rotationSeeds[i] = math.RandomFloat() * math.K_PI_2
		g.phaseOffsets[i] = math.RandomFloat() * math.K_PI_2
	}
	return g, nil
}

// Count returns the number of elements in the group.
func (g *ElementGroup) Count() int {
	return len(g.scattered)
}

// ScatteredAt returns the fixed cloud-state endpoint of element i.
func (g *ElementGroup) ScatteredAt(i int) math.Vec3 {
	return g.scattered[i]
}

// AssembledAt returns the fixed formation-state endpoint of element i.
func (g *ElementGroup) AssembledAt(i int) math.Vec3 {
	return g.assembled[i]
}

// Resolve interpolates every element between its endpoints by the eased
// morph progress and writes the result into out, which must hold Count()
// transforms. elapsed drives the idle float motion, which fades in with the
// morph so scattered elements do not bob.
func (g *ElementGroup) Resolve(eased float32, elapsed float64, out []Transform) error {
	if len(out) != len(g.scattered) {
		return fmt.Errorf("resolve buffer for group %q has length %d, want %d", g.Name, len(out), len(g.scattered))
	}

	t := float32(elapsed)
	for i := range g.scattered {
		p := g.scattered[i].Lerp(g.assembled[i], eased)
		if g.floatAmplitude > 0 {
			p.Y += math.Sin(t*floatSpeed+g.phaseOffsets[i]) * g.floatAmplitude * eased
		}
		out[i].Position = p
		out[i].Scale = g.scales[i]
		out[i].Rotation = g.rotationSeeds[i]
	}
	return nil
}

// Registry owns every element group of the active scene. Groups are added
// once at startup and looked up by name afterwards.
type Registry struct {
	groups []*ElementGroup
	byName map[string]*ElementGroup
}

func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*ElementGroup),
	}
}

// Add registers a group. Duplicate names are rejected so lookups stay
// unambiguous for the whole session.
func (r *Registry) Add(group *ElementGroup) error {
	if _, exists := r.byName[group.Name]; exists {
		return fmt.Errorf("element group %q already registered", group.Name)
	}
	r.groups = append(r.groups, group)
	r.byName[group.Name] = group
	return nil
}

// Get returns the group with the given name, or nil.
func (r *Registry) Get(name string) *ElementGroup {
	return r.byName[name]
}

// Groups returns all registered groups in registration order.
func (r *Registry) Groups() []*ElementGroup {
	return r.groups
}
