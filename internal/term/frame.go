// Package term rasterizes a scene into a grid of shaded characters for
// terminal output. Mesh vertices are splatted as points into a depth
// buffer; glow billboards are not drawn.
package term

import (
	"math"

	"github.com/iburimskiy/singularity/internal/glow"
	"github.com/iburimskiy/singularity/internal/render"
	"github.com/iburimskiy/singularity/internal/scene"
)

// Ramp orders glyphs from dark to bright.
const Ramp = " .:-=+*#%@"

// CellAspect is the height of a terminal cell relative to its width.
const CellAspect = 2.0

type Cell struct {
	Rune  rune
	Color glow.Color
	Depth float64
}

// Frame is a cols x rows character buffer with a depth per cell.
type Frame struct {
	Cols, Rows int
	cells      []Cell
}

func NewFrame(cols, rows int) *Frame {
	f := &Frame{}
	f.Resize(cols, rows)
	return f
}

func (f *Frame) Resize(cols, rows int) {
	f.Cols, f.Rows = max(cols, 0), max(rows, 0)
	f.cells = make([]Cell, f.Cols*f.Rows)
	f.Clear()
}

func (f *Frame) Clear() {
	for i := range f.cells {
		f.cells[i] = Cell{Rune: ' ', Depth: math.Inf(1)}
	}
}

func (f *Frame) At(col, row int) Cell { return f.cells[row*f.Cols+col] }

// plot keeps the nearer of the stored and the new sample.
func (f *Frame) plot(col, row int, c Cell) {
	if col < 0 || row < 0 || col >= f.Cols || row >= f.Rows {
		return
	}
	i := row*f.Cols + col
	if c.Depth < f.cells[i].Depth {
		f.cells[i] = c
	}
}

// Rasterizer shades ring vertices the same way the window renderer shades
// faces, using vertex normals instead of face normals.
type Rasterizer struct {
	Camera   render.Camera
	Lighting render.Lighting
	Base     glow.Color
}

// Draw clears f and splats every mounted ring into it.
func (r *Rasterizer) Draw(f *Frame, s *scene.Scene) {
	f.Clear()
	cam := r.Camera
	cam.Width = float64(f.Cols)
	cam.Height = float64(f.Rows) * CellAspect
	eye := cam.Eye()

	for _, ring := range s.Rings {
		node := ring.Node()
		if node == nil {
			continue
		}
		world := node.World()
		m := ring.Mesh()
		emissive := ring.EmissiveIntensity()
		for i, v := range m.Vertices {
			p := world.Apply(v)
			x, y, depth, ok := cam.Project(p)
			if !ok {
				continue
			}
			n := world.Basis.Apply(m.Normals[i])
			c := render.Shade(r.Base, emissive, n, p, eye, r.Lighting)
			f.plot(int(x), int(y/CellAspect), Cell{Rune: glyph(luminance(c)), Color: c, Depth: depth})
		}
	}
}

func luminance(c glow.Color) float64 {
	return math.Max(c.R, math.Max(c.G, c.B))
}

// glyph maps a luminance in [0, 1] onto Ramp, never returning the blank.
func glyph(l float64) rune {
	last := len(Ramp) - 1
	i := int(math.Round(l * float64(last)))
	return rune(Ramp[min(max(i, 1), last)])
}
