package glow

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/gogpu/gg"
	_ "golang.org/x/image/webp"
)

// LoadTexture decodes a PNG, JPEG or WebP glow sprite from disk.
func LoadTexture(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open glow texture: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode glow texture %s: %w", path, err)
	}
	logger().Debug("glow texture loaded", "path", path, "format", format, "size", img.Bounds().Size())
	return img, nil
}

// FallbackTexture rasterizes a soft white radial sprite of size x size
// pixels: opaque in the middle, fully transparent at the rim.
func FallbackTexture(size int) image.Image {
	if size < 2 {
		size = 2
	}
	half := float64(size) / 2

	dc := gg.NewContext(size, size)
	defer dc.Close()

	grad := gg.NewRadialGradientBrush(half, half, 0, half).
		AddColorStop(0, gg.RGBA2(1, 1, 1, 1)).
		AddColorStop(0.25, gg.RGBA2(1, 1, 1, 0.55)).
		AddColorStop(0.6, gg.RGBA2(1, 1, 1, 0.12)).
		AddColorStop(1, gg.RGBA2(1, 1, 1, 0))
	dc.SetFillBrush(grad)
	dc.DrawRectangle(0, 0, float64(size), float64(size))
	if err := dc.Fill(); err != nil {
		logger().Warn("fallback glow fill failed", "err", err)
	}
	return dc.Image()
}
