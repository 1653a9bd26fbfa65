package scene

import (
	"math"

	"github.com/iburimskiy/singularity/internal/geom"
)

// DefaultMaxTilt bounds the group rotation on each axis.
const DefaultMaxTilt = math.Pi / 8

// Tilt is the group pitch (X) and yaw (Y) in radians.
type Tilt struct {
	X, Y float64
}

// ComputeTilt maps a pointer position inside a width x height viewport to
// a tilt. Offsets are clamped to the viewport so |angle| <= maxAngle.
func ComputeTilt(px, py, width, height, maxAngle float64) Tilt {
	cx, cy := width/2, height/2
	if cx <= 0 || cy <= 0 {
		return Tilt{}
	}
	x := clampUnit((px - cx) / cx)
	y := clampUnit((py - cy) / cy)
	return Tilt{
		X: -y * maxAngle,
		Y: x * maxAngle,
	}
}

func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}

// TiltController holds the latest tilt and writes it onto a group node.
type TiltController struct {
	maxAngle float64
	state    Tilt
}

func NewTiltController(maxAngle float64) *TiltController {
	return &TiltController{maxAngle: math.Abs(maxAngle)}
}

// PointerMoved replaces the tilt with the one for the new pointer position.
func (c *TiltController) PointerMoved(px, py, width, height float64) Tilt {
	c.state = ComputeTilt(px, py, width, height, c.maxAngle)
	return c.state
}

func (c *TiltController) Tilt() Tilt { return c.state }

func (c *TiltController) MaxAngle() float64 { return c.maxAngle }

// Apply overwrites the group's pitch and yaw. Roll is left alone.
func (c *TiltController) Apply(group *geom.Node) {
	if group == nil {
		return
	}
	group.Rotation.X = c.state.X
	group.Rotation.Y = c.state.Y
}
