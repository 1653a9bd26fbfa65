package render

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/singularity/internal/geom"
)

var quadIndices = []uint16{0, 1, 2, 1, 2, 3}

// billboardQuad returns the four screen-aligned corners of a sprite of
// edge length size (world units) centred on p, with texture coordinates
// spanning a texW x texH image. ok is false when p is behind the camera.
func billboardQuad(cam Camera, p geom.Vec3, size float64, texW, texH int) ([]ebiten.Vertex, float64, bool) {
	x, y, depth, ok := cam.Project(p)
	if !ok {
		return nil, depth, false
	}
	half := float32(size * cam.Focal() / depth / 2)
	cx, cy := float32(x), float32(y)
	w, h := float32(texW), float32(texH)

	vs := []ebiten.Vertex{
		{DstX: cx - half, DstY: cy - half, SrcX: 0, SrcY: 0, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
		{DstX: cx + half, DstY: cy - half, SrcX: w, SrcY: 0, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
		{DstX: cx - half, DstY: cy + half, SrcX: 0, SrcY: h, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
		{DstX: cx + half, DstY: cy + half, SrcX: w, SrcY: h, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
	}
	return vs, depth, true
}
