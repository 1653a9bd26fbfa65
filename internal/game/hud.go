package game

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// hudText is the debug overlay: phase, ring speeds, tilt, glow, frame rate
// and uptime, followed by the key help and any pending error.
func (g *Game) hudText(now time.Time) string {
	var b strings.Builder

	phase := g.scene.Phase()
	fmt.Fprintf(&b, "phase: %s", phase)
	if !g.startedAt.IsZero() && g.cfg.SpinUp.Duration > 0 {
		p := clamp01(float64(now.Sub(g.startedAt)) / float64(g.cfg.SpinUp.Duration))
		fmt.Fprintf(&b, " (%3.0f%%)", p*100)
	}
	b.WriteByte('\n')

	for _, r := range g.scene.Rings {
		fmt.Fprintf(&b, "%-12s %8.3f rad/s\n", r.Spec().Name, r.Speed())
	}

	t := g.scene.Tilt()
	fmt.Fprintf(&b, "tilt: x %+5.1f° y %+5.1f°\n", t.X*180/math.Pi, t.Y*180/math.Pi)
	fmt.Fprintf(&b, "glow: %.1f\n", g.prefs.Get().GlowIntensity)
	fmt.Fprintf(&b, "fps:  %.1f\n", g.stats.fps())

	var up time.Duration
	if !g.startedAt.IsZero() {
		up = now.Sub(g.startedAt)
	}
	fmt.Fprintf(&b, "up:   %s\n", formatUptime(up))

	b.WriteString("+/- glow  O texture  M hum  F fullscreen  H hud  Esc quit")
	if g.lastErr != nil {
		b.WriteString("\nerror: " + g.lastErr.Error())
	}
	return b.String()
}
