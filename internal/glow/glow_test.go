package glow

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func stubBuilder(t *testing.T, calls *int, err error) *Builder {
	t.Helper()
	b := NewBuilder(nil, Color{R: 0.5, G: 1, B: 1})
	b.Compile = func(src []byte) (*ebiten.Shader, error) {
		*calls++
		if !strings.Contains(string(src), "func Fragment") {
			t.Errorf("shader source has no Fragment entry point")
		}
		return nil, err
	}
	return b
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#7BFFFF", Color{R: 123.0 / 255, G: 1, B: 1}, false},
		{"#00ffff", Color{R: 0, G: 1, B: 1}, false},
		{"cyan", Color{}, true},
		{"", Color{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if math.Abs(got.R-tt.want.R) > 1e-6 || math.Abs(got.G-tt.want.G) > 1e-6 || math.Abs(got.B-tt.want.B) > 1e-6 {
				t.Errorf("ParseColor(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestBuilderMaterialMemoized(t *testing.T) {
	var calls int
	b := stubBuilder(t, &calls, nil)

	m1 := b.Material(5)
	m2 := b.Material(5)
	if m1 != m2 {
		t.Error("same intensity produced different materials")
	}
	if m3 := b.Material(2.5); m3 == m1 {
		t.Error("different intensity reused a material")
	}
	if b.Cached() != 2 {
		t.Errorf("Cached() = %d, want 2", b.Cached())
	}

	b.SetTexture(nil)
	if b.Cached() != 0 {
		t.Errorf("Cached() = %d after SetTexture, want 0", b.Cached())
	}
}

func TestBuilderShaderCompiledOnce(t *testing.T) {
	var calls int
	b := stubBuilder(t, &calls, nil)
	for i := 0; i < 3; i++ {
		if _, err := b.Shader(); err != nil {
			t.Fatalf("Shader() error: %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("compile calls = %d, want 1", calls)
	}
}

func TestBuilderShaderError(t *testing.T) {
	var calls int
	boom := errors.New("boom")
	b := stubBuilder(t, &calls, boom)
	if _, err := b.Shader(); !errors.Is(err, boom) {
		t.Fatalf("Shader() error = %v, want wrapped boom", err)
	}
	// A failed compile is retried on the next call.
	b.Shader()
	if calls != 2 {
		t.Errorf("compile calls = %d, want 2", calls)
	}
}

func TestMaterialUniforms(t *testing.T) {
	m := &Material{Tint: Color{R: 0.25, G: 0.5, B: 1}, Intensity: 5}
	u := m.Uniforms()

	tint, ok := u["Tint"].([]float32)
	if !ok || len(tint) != 3 {
		t.Fatalf("Tint uniform = %#v", u["Tint"])
	}
	if tint[0] != 0.25 || tint[1] != 0.5 || tint[2] != 1 {
		t.Errorf("Tint uniform = %v", tint)
	}
	if got, _ := u["Intensity"].(float32); got != 5 {
		t.Errorf("Intensity uniform = %v, want 5", u["Intensity"])
	}
}

func TestLoadTexture(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "glowtexture.png")

	src := image.NewNRGBA(image.Rect(0, 0, 8, 4))
	src.Set(1, 1, color.NRGBA{R: 255, A: 128})
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, src); err != nil {
		t.Fatal(err)
	}
	f.Close()

	img, err := LoadTexture(path)
	if err != nil {
		t.Fatalf("LoadTexture() error: %v", err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 4 {
		t.Errorf("bounds = %v, want 8x4", img.Bounds())
	}
}

func TestLoadTextureErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadTexture(filepath.Join(dir, "missing.png")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want ErrNotExist", err)
	}

	junk := filepath.Join(dir, "junk.png")
	if err := os.WriteFile(junk, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTexture(junk); err == nil {
		t.Error("LoadTexture() accepted garbage")
	}
}

func TestFallbackTexture(t *testing.T) {
	img := FallbackTexture(64)
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 64 {
		t.Fatalf("bounds = %v, want 64x64", img.Bounds())
	}
	_, _, _, center := img.At(32, 32).RGBA()
	_, _, _, corner := img.At(0, 0).RGBA()
	if center <= corner {
		t.Errorf("center alpha %d not above corner alpha %d", center, corner)
	}
}
