package render

import (
	"image"
	"image/color"
	"log/slog"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/singularity/internal/glow"
	"github.com/iburimskiy/singularity/internal/scene"
)

// maxBatchFaces keeps a single DrawTriangles call within uint16 indices.
const maxBatchFaces = 65535 / 3

// Options configure the look of the renderer.
type Options struct {
	Camera    Camera
	Lighting  Lighting
	BaseColor glow.Color
	// GlowBlend is how billboards combine with what is already drawn.
	GlowBlend ebiten.Blend
	Logger    *slog.Logger
}

// Renderer draws scenes. It is not safe for concurrent use.
type Renderer struct {
	opts  Options
	glow  *glow.Builder
	white *ebiten.Image
	mesh  meshPass
	log   *slog.Logger

	bg         *ebiten.Image
	bgW, bgH   int
	order      []*scene.Ring
	sprites    []sprite
	shaderErrd bool
}

type sprite struct {
	vertices []ebiten.Vertex
	depth    float64
	material *glow.Material
}

func New(b *glow.Builder, opts Options) *Renderer {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	white := ebiten.NewImage(3, 3)
	white.Fill(color.White)
	return &Renderer{
		opts:  opts,
		glow:  b,
		white: white.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image),
		log:   opts.Logger,
	}
}

// Resize updates the viewport the camera projects onto.
func (r *Renderer) Resize(width, height int) {
	r.opts.Camera.Width = float64(width)
	r.opts.Camera.Height = float64(height)
}

func (r *Renderer) Camera() Camera { return r.opts.Camera }

// Draw renders the background, every ring mesh back to front, then every
// glow billboard back to front. Unmounted rings are skipped.
func (r *Renderer) Draw(screen *ebiten.Image, s *scene.Scene) {
	r.drawBackground(screen)

	cam := r.opts.Camera
	r.order = r.order[:0]
	for _, ring := range s.Rings {
		if ring.Node() != nil {
			r.order = append(r.order, ring)
		}
	}
	sort.SliceStable(r.order, func(i, j int) bool {
		_, _, di, _ := cam.Project(r.order[i].Node().World().Origin)
		_, _, dj, _ := cam.Project(r.order[j].Node().World().Origin)
		return di > dj
	})

	for _, ring := range r.order {
		r.drawMesh(screen, ring)
	}
	r.drawGlows(screen)
}

func (r *Renderer) drawBackground(screen *ebiten.Image) {
	b := screen.Bounds()
	if r.bg == nil || r.bgW != b.Dx() || r.bgH != b.Dy() {
		if r.bg != nil {
			r.bg.Deallocate()
		}
		r.bg = ebiten.NewImageFromImage(Background(b.Dx(), b.Dy()))
		r.bgW, r.bgH = b.Dx(), b.Dy()
	}
	screen.DrawImage(r.bg, nil)
}

func (r *Renderer) drawMesh(screen *ebiten.Image, ring *scene.Ring) {
	faces := r.mesh.buildFaces(ring.Mesh(), ring.Node().World(), r.opts.Camera, r.opts.Lighting, r.opts.BaseColor, ring.EmissiveIntensity())
	for start := 0; start < len(faces); start += maxBatchFaces {
		end := min(start+maxBatchFaces, len(faces))
		vs, is := r.mesh.triangles(faces[start:end])
		screen.DrawTriangles(vs, is, r.white, &ebiten.DrawTrianglesOptions{})
	}
}

func (r *Renderer) drawGlows(screen *ebiten.Image) {
	shader, err := r.glow.Shader()
	if err != nil {
		if !r.shaderErrd {
			r.log.Error("glow disabled", "err", err)
			r.shaderErrd = true
		}
		return
	}
	tex := r.glow.Texture()
	if tex == nil {
		return
	}
	tb := tex.Bounds()

	r.sprites = r.sprites[:0]
	for _, ring := range r.order {
		vs, depth, ok := billboardQuad(r.opts.Camera, ring.GlowNode().World().Origin, ring.GlowScale(), tb.Dx(), tb.Dy())
		if !ok {
			continue
		}
		r.sprites = append(r.sprites, sprite{vertices: vs, depth: depth, material: r.glow.Material(ring.GlowIntensity())})
	}
	sort.SliceStable(r.sprites, func(i, j int) bool { return r.sprites[i].depth > r.sprites[j].depth })

	for _, sp := range r.sprites {
		op := &ebiten.DrawTrianglesShaderOptions{
			Uniforms: sp.material.Uniforms(),
			Blend:    r.opts.GlowBlend,
		}
		op.Images[0] = sp.material.Texture
		screen.DrawTrianglesShader(sp.vertices, quadIndices, shader, op)
	}
}
