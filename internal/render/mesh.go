package render

import (
	"sort"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/singularity/internal/geom"
	"github.com/iburimskiy/singularity/internal/glow"
)

// face is one projected, shaded triangle.
type face struct {
	x, y  [3]float32
	depth float64
	color glow.Color
}

// meshPass projects and shades meshes. Its buffers are reused between
// frames.
type meshPass struct {
	world    []geom.Vec3
	faces    []face
	vertices []ebiten.Vertex
	indices  []uint16
}

// buildFaces transforms m by t, drops triangles that cross the near plane
// and returns the rest sorted far to near.
func (p *meshPass) buildFaces(m *geom.Mesh, t geom.Transform, cam Camera, l Lighting, base glow.Color, emissive float64) []face {
	if cap(p.world) < len(m.Vertices) {
		p.world = make([]geom.Vec3, len(m.Vertices))
	}
	p.world = p.world[:len(m.Vertices)]
	for i, v := range m.Vertices {
		p.world[i] = t.Apply(v)
	}

	eye := cam.Eye()
	p.faces = p.faces[:0]
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := p.world[m.Indices[i]], p.world[m.Indices[i+1]], p.world[m.Indices[i+2]]

		var f face
		visible := true
		for k, v := range [3]geom.Vec3{a, b, c} {
			x, y, d, ok := cam.Project(v)
			if !ok {
				visible = false
				break
			}
			f.x[k], f.y[k] = float32(x), float32(y)
			f.depth += d / 3
		}
		if !visible {
			continue
		}

		normal := b.Sub(a).Cross(c.Sub(a))
		center := a.Add(b).Add(c).Scale(1.0 / 3)
		f.color = Shade(base, emissive, normal, center, eye, l)
		p.faces = append(p.faces, f)
	}

	sort.Slice(p.faces, func(i, j int) bool { return p.faces[i].depth > p.faces[j].depth })
	return p.faces
}

// triangles expands faces into unshared vertices so each face keeps its
// own flat colour. Every vertex samples the centre texel of the 1x1 white
// source.
func (p *meshPass) triangles(faces []face) ([]ebiten.Vertex, []uint16) {
	p.vertices = p.vertices[:0]
	p.indices = p.indices[:0]
	for _, f := range faces {
		base := uint16(len(p.vertices))
		for k := 0; k < 3; k++ {
			p.vertices = append(p.vertices, ebiten.Vertex{
				DstX:   f.x[k],
				DstY:   f.y[k],
				SrcX:   1,
				SrcY:   1,
				ColorR: float32(f.color.R),
				ColorG: float32(f.color.G),
				ColorB: float32(f.color.B),
				ColorA: 1,
			})
		}
		p.indices = append(p.indices, base, base+1, base+2)
	}
	return p.vertices, p.indices
}
