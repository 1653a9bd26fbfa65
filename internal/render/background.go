package render

import (
	"image"
	"math"

	"github.com/gogpu/gg"
)

const (
	backgroundBase   = "#2F2F2F"
	backgroundCenter = "#5F8D9D"
	// backgroundReach is the gradient radius as a share of the larger side.
	backgroundReach = 0.7097
)

// Background rasterizes the page backdrop: a teal glow in the middle
// fading into dark grey.
func Background(width, height int) image.Image {
	width, height = max(width, 1), max(height, 1)

	dc := gg.NewContext(width, height)
	defer dc.Close()

	dc.ClearWithColor(gg.Hex(backgroundBase))

	cx, cy := float64(width)/2, float64(height)/2
	reach := backgroundReach * math.Max(float64(width), float64(height))
	center := gg.Hex(backgroundCenter)
	grad := gg.NewRadialGradientBrush(cx, cy, 0, reach).
		AddColorStop(0, center).
		AddColorStop(1, gg.RGBA2(59.0/255, 71.0/255, 75.0/255, 0))
	dc.SetFillBrush(grad)
	dc.DrawRectangle(0, 0, float64(width), float64(height))
	_ = dc.Fill()

	return dc.Image()
}
