package geom

import (
	"math"
	"sync"
)

const (
	// TubularSegments is the resolution along the knot path.
	TubularSegments = 300
	// RadialSegments is the resolution around the tube.
	RadialSegments = 20
)

// KnotParams describes a tube swept along a (P, Q) torus knot.
type KnotParams struct {
	Radius          float64
	Tube            float64
	TubularSegments int
	RadialSegments  int
	P, Q            int
}

// Knot returns the (5, 15) knot used by the emblem core.
func Knot(radius, tube float64) KnotParams {
	return KnotParams{Radius: radius, Tube: tube, TubularSegments: TubularSegments, RadialSegments: RadialSegments, P: 5, Q: 15}
}

// Torus returns the (3, 1) variant used by the plain rings.
func Torus(radius, tube float64) KnotParams {
	return KnotParams{Radius: radius, Tube: tube, TubularSegments: TubularSegments, RadialSegments: RadialSegments, P: 3, Q: 1}
}

// Mesh is an indexed triangle mesh.
type Mesh struct {
	Vertices []Vec3
	Normals  []Vec3
	UVs      [][2]float64
	Indices  []uint32
}

func (m *Mesh) VertexCount() int { return len(m.Vertices) }

func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// TorusKnot sweeps a circle of radius p.Tube along the torus knot curve.
// The surface is closed: the first and last ring of vertices coincide.
func TorusKnot(p KnotParams) *Mesh {
	tubular, radial := p.TubularSegments, p.RadialSegments
	n := (tubular + 1) * (radial + 1)
	m := &Mesh{
		Vertices: make([]Vec3, 0, n),
		Normals:  make([]Vec3, 0, n),
		UVs:      make([][2]float64, 0, n),
		Indices:  make([]uint32, 0, tubular*radial*6),
	}

	for i := 0; i <= tubular; i++ {
		u := float64(i) / float64(tubular) * float64(p.P) * math.Pi * 2

		p1 := knotPoint(u, p.P, p.Q, p.Radius)
		p2 := knotPoint(u+0.01, p.P, p.Q, p.Radius)

		// Frenet-like frame from the curve tangent.
		t := p2.Sub(p1)
		nrm := p2.Add(p1)
		b := t.Cross(nrm)
		nrm = b.Cross(t)
		b = b.Normalize()
		nrm = nrm.Normalize()

		for j := 0; j <= radial; j++ {
			v := float64(j) / float64(radial) * math.Pi * 2
			cx := -p.Tube * math.Cos(v)
			cy := p.Tube * math.Sin(v)

			vert := p1.Add(nrm.Scale(cx)).Add(b.Scale(cy))
			m.Vertices = append(m.Vertices, vert)
			m.Normals = append(m.Normals, vert.Sub(p1).Normalize())
			m.UVs = append(m.UVs, [2]float64{float64(i) / float64(tubular), float64(j) / float64(radial)})
		}
	}

	stride := uint32(radial + 1)
	for j := 1; j <= tubular; j++ {
		for i := 1; i <= radial; i++ {
			a := stride*uint32(j-1) + uint32(i-1)
			b := stride*uint32(j) + uint32(i-1)
			c := stride*uint32(j) + uint32(i)
			d := stride*uint32(j-1) + uint32(i)
			m.Indices = append(m.Indices, a, b, d, b, c, d)
		}
	}
	return m
}

func knotPoint(u float64, p, q int, radius float64) Vec3 {
	cu, su := math.Cos(u), math.Sin(u)
	quOverP := float64(q) / float64(p) * u
	cs := math.Cos(quOverP)
	return Vec3{
		X: radius * (2 + cs) * 0.5 * cu,
		Y: radius * (2 + cs) * su * 0.5,
		Z: radius * math.Sin(quOverP) * 0.5,
	}
}

// Factory memoizes meshes by their parameters. Meshes are shared and must
// not be modified by callers.
type Factory struct {
	mu     sync.Mutex
	meshes map[KnotParams]*Mesh
	builds int
}

func NewFactory() *Factory {
	return &Factory{meshes: map[KnotParams]*Mesh{}}
}

// Mesh returns the cached mesh for p, building it on first use.
func (f *Factory) Mesh(p KnotParams) *Mesh {
	f.mu.Lock()
	defer f.mu.Unlock()

	if m, ok := f.meshes[p]; ok {
		return m
	}
	m := TorusKnot(p)
	f.meshes[p] = m
	f.builds++
	return m
}

// Builds reports how many meshes were actually generated.
func (f *Factory) Builds() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.builds
}
