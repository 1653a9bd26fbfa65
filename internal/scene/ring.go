// Package scene drives the emblem: five tumbling rings under one group
// node, a one-shot spin-up transition and pointer-driven tilt.
package scene

import (
	"github.com/iburimskiy/singularity/internal/geom"
)

const (
	// GlowScaleFactor sizes the glow billboard relative to the ring radius.
	GlowScaleFactor = 15
	// GlowDepthOffset pushes the billboard toward the viewer to avoid z-fighting.
	GlowDepthOffset = 0.5
	// DefaultEmissiveDivisor maps glow intensity onto emissive intensity.
	DefaultEmissiveDivisor = 10
)

// RingSpec is the fixed configuration of one layer.
type RingSpec struct {
	Name          string
	Radius        float64
	Tube          float64
	Position      geom.Vec3
	Speed         float64
	GlowIntensity float64
	// P and Q select the knot; zero means the plain (3, 1) variant.
	P, Q int
}

// Knot returns the geometry parameters of the ring.
func (s RingSpec) Knot() geom.KnotParams {
	if s.P == 0 && s.Q == 0 {
		return geom.Torus(s.Radius, s.Tube)
	}
	k := geom.Knot(s.Radius, s.Tube)
	k.P, k.Q = s.P, s.Q
	return k
}

// RingState is the per-frame mutable state of a ring.
type RingState struct {
	Rotation geom.Vec3
	Speed    float64
}

// Ring is one layer: a solid mesh and a glow billboard at the same anchor.
type Ring struct {
	spec     RingSpec
	mesh     *geom.Mesh
	state    RingState
	divisor  float64
	glow     float64
	node     *geom.Node
	glowNode *geom.Node
}

// NewRing builds the ring geometry through f. The ring is inert until
// mounted.
func NewRing(spec RingSpec, f *geom.Factory) *Ring {
	return &Ring{
		spec:    spec,
		mesh:    f.Mesh(spec.Knot()),
		state:   RingState{Speed: spec.Speed},
		divisor: DefaultEmissiveDivisor,
		glow:    spec.GlowIntensity,
	}
}

// Mount attaches the mesh and billboard nodes under parent.
func (r *Ring) Mount(parent *geom.Node) {
	r.node = geom.NewNode(r.spec.Name)
	r.node.Position = r.spec.Position
	r.node.Rotation = r.state.Rotation

	r.glowNode = geom.NewNode(r.spec.Name + "/glow")
	r.glowNode.Position = r.spec.Position.Add(geom.V(0, 0, GlowDepthOffset))

	parent.Add(r.node)
	parent.Add(r.glowNode)
}

// Update advances all three rotation axes by dt*speed. Before Mount it
// does nothing.
func (r *Ring) Update(dt float64) {
	if r.node == nil {
		return
	}
	step := dt * r.state.Speed
	r.state.Rotation = r.state.Rotation.Add(geom.V(step, step, step))
	r.node.Rotation = r.state.Rotation
}

// SetSpeed sets the current rotation speed; negative values are floored at 0.
func (r *Ring) SetSpeed(v float64) {
	if v < 0 {
		v = 0
	}
	r.state.Speed = v
}

func (r *Ring) Speed() float64 { return r.state.Speed }

func (r *Ring) State() RingState { return r.state }

func (r *Ring) Spec() RingSpec { return r.spec }

func (r *Ring) Mesh() *geom.Mesh { return r.mesh }

// Node is the mesh transform node, nil before Mount.
func (r *Ring) Node() *geom.Node { return r.node }

// GlowNode is the billboard anchor, nil before Mount.
func (r *Ring) GlowNode() *geom.Node { return r.glowNode }

func (r *Ring) GlowIntensity() float64 { return r.glow }

// SetGlowIntensity changes the glow; negative values are floored at 0.
func (r *Ring) SetGlowIntensity(v float64) {
	if v < 0 {
		v = 0
	}
	r.glow = v
}

// EmissiveIntensity is the lit material's self-illumination.
func (r *Ring) EmissiveIntensity() float64 {
	if r.divisor <= 0 {
		return r.glow
	}
	return r.glow / r.divisor
}

// GlowScale is the billboard edge length in world units.
func (r *Ring) GlowScale() float64 { return r.spec.Radius * GlowScaleFactor }
