// Package glow builds the billboard material that fakes bloom around each
// ring: one Kage program shared by every ring, with per-intensity uniform
// sets.
package glow

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// shaderSrc samples the glow texture and scales its colour by Tint and
// Intensity. Alpha passes through untouched. ebiten images hold
// premultiplied colour, so the sample is un-premultiplied first and the
// result premultiplied again.
const shaderSrc = `//kage:unit pixels

package main

var Tint vec3
var Intensity float

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	tex := imageSrc0At(srcPos)
	a := tex.a
	rgb := vec3(0)
	if a > 0 {
		rgb = tex.rgb / a
	}
	return vec4(Tint*rgb*Intensity*a, a)
}
`

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(slog.DiscardHandler))
}

// SetLogger routes the package's diagnostics to l. nil silences them.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	loggerPtr.Store(l)
}

func logger() *slog.Logger { return loggerPtr.Load() }

// Color is a linear RGB tint with channels in [0, 1].
type Color struct {
	R, G, B float64
}

// ParseColor reads a "#RRGGBB" hex colour.
func ParseColor(hex string) (Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, fmt.Errorf("parse colour %q: %w", hex, err)
	}
	return Color{R: c.R, G: c.G, B: c.B}, nil
}

// Material is the uniform set for one glow intensity. It is immutable.
type Material struct {
	Texture   *ebiten.Image
	Tint      Color
	Intensity float64
}

// Uniforms returns the values bound to the Kage program.
func (m *Material) Uniforms() map[string]any {
	return map[string]any{
		"Tint":      []float32{float32(m.Tint.R), float32(m.Tint.G), float32(m.Tint.B)},
		"Intensity": float32(m.Intensity),
	}
}

// Builder hands out glow materials, memoized on intensity, and the shared
// shader program.
type Builder struct {
	// Compile turns Kage source into a program. It defaults to
	// ebiten.NewShader.
	Compile func(src []byte) (*ebiten.Shader, error)

	mu        sync.Mutex
	texture   *ebiten.Image
	tint      Color
	shader    *ebiten.Shader
	compiled  bool
	materials map[float64]*Material
}

func NewBuilder(texture *ebiten.Image, tint Color) *Builder {
	return &Builder{
		Compile:   ebiten.NewShader,
		texture:   texture,
		tint:      tint,
		materials: map[float64]*Material{},
	}
}

// Shader compiles the program on first use and returns the cached one
// afterwards.
func (b *Builder) Shader() (*ebiten.Shader, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.compiled {
		return b.shader, nil
	}
	s, err := b.Compile([]byte(shaderSrc))
	if err != nil {
		return nil, fmt.Errorf("compile glow shader: %w", err)
	}
	b.shader = s
	b.compiled = true
	logger().Debug("glow shader compiled")
	return s, nil
}

// Material returns the material for intensity, building it once.
func (b *Builder) Material(intensity float64) *Material {
	b.mu.Lock()
	defer b.mu.Unlock()

	if m, ok := b.materials[intensity]; ok {
		return m
	}
	m := &Material{Texture: b.texture, Tint: b.tint, Intensity: intensity}
	b.materials[intensity] = m
	return m
}

// SetTexture swaps the shared texture and drops every cached material.
// The previous texture is not disposed; it belongs to the caller.
func (b *Builder) SetTexture(texture *ebiten.Image) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.texture = texture
	b.materials = map[float64]*Material{}
	logger().Info("glow texture replaced")
}

// Texture returns the shared texture.
func (b *Builder) Texture() *ebiten.Image {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.texture
}

// Cached reports how many materials are memoized.
func (b *Builder) Cached() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.materials)
}
