// Command singularity-term draws the emblem in a terminal. Move the mouse
// to tilt it; q or Esc quits.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/singularity/internal/config"
	"github.com/iburimskiy/singularity/internal/geom"
	"github.com/iburimskiy/singularity/internal/glow"
	"github.com/iburimskiy/singularity/internal/render"
	"github.com/iburimskiy/singularity/internal/scene"
	"github.com/iburimskiy/singularity/internal/term"
)

const frameInterval = time.Second / 30

type preview struct {
	screen tcell.Screen
	scene  *scene.Scene
	raster *term.Rasterizer
	frame  *term.Frame
}

func newPreview(cfg *config.Config, log *slog.Logger) (*preview, error) {
	base, err := glow.ParseColor(cfg.Material.Color)
	if err != nil {
		return nil, fmt.Errorf("material color: %w", err)
	}
	opts := cfg.SceneOptions()
	opts.Logger = log
	s, err := scene.Compose(cfg.RingSpecs(), opts)
	if err != nil {
		return nil, fmt.Errorf("compose scene: %w", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()

	cam := render.DefaultCamera(0, 0)
	cam.FOV = cfg.Camera.FOV
	cam.Distance = cfg.Camera.Distance
	lp := cfg.Lights.PointPosition

	cols, rows := screen.Size()
	return &preview{
		screen: screen,
		scene:  s,
		raster: &term.Rasterizer{
			Camera: cam,
			Lighting: render.Lighting{
				Ambient:        cfg.Lights.Ambient,
				PointPosition:  geom.V(lp[0], lp[1], lp[2]),
				PointIntensity: cfg.Lights.PointIntensity,
			},
			Base: base,
		},
		frame: term.NewFrame(cols, rows),
	}, nil
}

// handleInput reports false when the preview should stop.
func (p *preview) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q')) {
			return false
		}
	case *tcell.EventMouse:
		x, y := ev.Position()
		p.scene.PointerMoved(float64(x), float64(y), float64(p.frame.Cols), float64(p.frame.Rows))
	case *tcell.EventResize:
		p.screen.Sync()
		p.frame.Resize(p.screen.Size())
	}
	return true
}

func (p *preview) draw() {
	p.raster.Draw(p.frame, p.scene)
	for row := 0; row < p.frame.Rows; row++ {
		for col := 0; col < p.frame.Cols; col++ {
			c := p.frame.At(col, row)
			style := tcell.StyleDefault
			if c.Rune != ' ' {
				r, g, b := colorful.Color{R: c.Color.R, G: c.Color.G, B: c.Color.B}.Clamped().RGB255()
				style = style.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
			}
			p.screen.SetContent(col, row, c.Rune, nil, style)
		}
	}
	p.screen.Show()
}

// pollEvents forwards screen events until the screen is finalized or done
// is closed. events is closed on return.
func pollEvents(screen interface{ PollEvent() tcell.Event }, events chan<- tcell.Event, done <-chan struct{}) {
	defer close(events)
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

func (p *preview) run() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	go pollEvents(p.screen, events, done)

	p.scene.Mount(time.Now())
	dt := frameInterval.Seconds()
	for {
		select {
		case ev, ok := <-events:
			if !ok || !p.handleInput(ev) {
				return
			}
		case now := <-ticker.C:
			p.scene.Tick(now, dt)
			p.draw()
		}
	}
}

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	// The screen owns stdout; only warnings and worse go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg = loaded
	}

	p, err := newPreview(cfg, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	p.run()
	p.screen.Fini()
}
