// Package game runs the emblem as an ebiten game: it owns the scene, the
// renderer and the optional hum, and maps keyboard and mouse input onto
// them.
package game

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/ncruces/zenity"

	"github.com/iburimskiy/singularity/internal/audio"
	"github.com/iburimskiy/singularity/internal/config"
	"github.com/iburimskiy/singularity/internal/geom"
	"github.com/iburimskiy/singularity/internal/glow"
	"github.com/iburimskiy/singularity/internal/prefs"
	"github.com/iburimskiy/singularity/internal/render"
	"github.com/iburimskiy/singularity/internal/scene"
)

const (
	statsRingSize       = 120
	fallbackTextureSize = 256
)

// Game implements ebiten.Game.
type Game struct {
	cfg   *config.Config
	prefs *prefs.Manager
	log   *slog.Logger

	scene    *scene.Scene
	glow     *glow.Builder
	renderer *render.Renderer
	hum      *audio.Player
	stats    *frameStats

	width, height int
	cursor        image.Point
	cursorSeen    bool
	startedAt     time.Time
	showHUD       bool
	lastErr       error

	// now and pickTexture are replaced in tests.
	now         func() time.Time
	pickTexture func() (string, error)
}

// New composes the scene described by cfg. Stored preferences override
// the configured glow intensity and hum switch.
func New(cfg *config.Config, pm *prefs.Manager, log *slog.Logger) (*Game, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if pm == nil {
		pm = prefs.New(nil, prefs.Prefs{
			GlowIntensity: cfg.Glow.Intensity,
			AudioEnabled:  cfg.Audio.Enabled,
			Fullscreen:    cfg.Window.Fullscreen,
		}, log)
	}

	opts, err := rendererOptions(cfg)
	if err != nil {
		return nil, err
	}
	opts.Logger = log

	tint, err := glow.ParseColor(cfg.Glow.Tint)
	if err != nil {
		return nil, fmt.Errorf("glow tint: %w", err)
	}

	sceneOpts := cfg.SceneOptions()
	sceneOpts.Logger = log
	s, err := scene.Compose(cfg.RingSpecs(), sceneOpts)
	if err != nil {
		return nil, fmt.Errorf("compose scene: %w", err)
	}

	g := &Game{
		cfg:         cfg,
		prefs:       pm,
		log:         log,
		scene:       s,
		glow:        glow.NewBuilder(loadTexture(cfg.Glow.Texture, log), tint),
		hum:         audio.NewPlayer(cfg.Audio.Volume),
		stats:       newFrameStats(statsRingSize),
		width:       cfg.Window.Width,
		height:      cfg.Window.Height,
		showHUD:     true,
		now:         time.Now,
		pickTexture: selectTextureFile,
	}
	g.renderer = render.New(g.glow, opts)
	g.renderer.Resize(g.width, g.height)

	g.restoreGlow()
	if pm.Get().AudioEnabled {
		if err := g.hum.SetEnabled(true); err != nil {
			log.Warn("hum unavailable", "err", err)
		}
	}
	return g, nil
}

// rendererOptions translates the look-related config sections.
func rendererOptions(cfg *config.Config) (render.Options, error) {
	base, err := glow.ParseColor(cfg.Material.Color)
	if err != nil {
		return render.Options{}, fmt.Errorf("material color: %w", err)
	}
	var blend ebiten.Blend
	switch cfg.Glow.Blend {
	case "alpha":
		blend = ebiten.BlendSourceOver
	case "additive":
		blend = ebiten.BlendLighter
	default:
		return render.Options{}, fmt.Errorf("%w: glow blend %q", config.ErrInvalid, cfg.Glow.Blend)
	}

	cam := render.DefaultCamera(float64(cfg.Window.Width), float64(cfg.Window.Height))
	cam.FOV = cfg.Camera.FOV
	cam.Distance = cfg.Camera.Distance

	lp := cfg.Lights.PointPosition
	light := render.Lighting{
		Ambient:        cfg.Lights.Ambient,
		PointPosition:  geom.V(lp[0], lp[1], lp[2]),
		PointIntensity: cfg.Lights.PointIntensity,
	}

	return render.Options{
		Camera:    cam,
		Lighting:  light,
		BaseColor: base,
		GlowBlend: blend,
	}, nil
}

// loadTexture reads the glow sprite, falling back to a generated one.
func loadTexture(path string, log *slog.Logger) *ebiten.Image {
	img, err := glow.LoadTexture(path)
	if err != nil {
		log.Warn("glow texture unavailable, using generated sprite", "path", path, "err", err)
		img = glow.FallbackTexture(fallbackTextureSize)
	}
	return ebiten.NewImageFromImage(img)
}

func selectTextureFile() (string, error) {
	return zenity.SelectFile(
		zenity.Title("Open Glow Texture"),
		zenity.FileFilters{{
			Name:     "Images",
			Patterns: []string{"*.png", "*.jpg", "*.jpeg", "*.webp"},
		}},
	)
}

func (g *Game) Update() error {
	now := g.now()
	if !g.scene.Mounted() {
		g.scene.Mount(now)
		g.startedAt = now
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		g.hum.Close()
		return ebiten.Termination
	}
	g.handleKeys()

	x, y := ebiten.CursorPosition()
	if p := image.Pt(x, y); !g.cursorSeen || p != g.cursor {
		g.cursor, g.cursorSeen = p, true
		g.scene.PointerMoved(float64(x), float64(y), float64(g.width), float64(g.height))
	}

	g.scene.Tick(now, 1/float64(ebiten.TPS()))
	g.hum.Hum.SetLevel(audio.LevelFor(g.scene.MeanSpeedRatio(), g.scene.SpinUpFactor()))
	g.stats.tick(now)
	return nil
}

func (g *Game) handleKeys() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual), inpututil.IsKeyJustPressed(ebiten.KeyNumpadAdd):
		g.adjustGlow(config.GlowIntensityStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus), inpututil.IsKeyJustPressed(ebiten.KeyNumpadSubtract):
		g.adjustGlow(-config.GlowIntensityStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		on := !ebiten.IsFullscreen()
		ebiten.SetFullscreen(on)
		g.prefs.SetFullscreen(on)
		g.savePrefs()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		g.toggleHum()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyO) {
		if err := g.openTextureDialog(); err != nil {
			g.lastErr = err
			g.log.Error("texture not replaced", "err", err)
		}
	}
}

// restoreGlow applies the stored glow intensity, clamped to the allowed
// range since the store may hold a stale or hand-edited value.
func (g *Game) restoreGlow() {
	stored := g.prefs.Get().GlowIntensity
	v := g.prefs.SetGlowIntensity(stored, config.MinGlowIntensity, config.MaxGlowIntensity)
	if v != stored {
		g.log.Warn("stored glow intensity out of range", "stored", stored, "using", v)
	}
	g.scene.SetGlowIntensity(v)
}

// adjustGlow moves the glow intensity by delta within the allowed range.
func (g *Game) adjustGlow(delta float64) {
	cur := g.prefs.Get().GlowIntensity
	v := g.prefs.SetGlowIntensity(cur+delta, config.MinGlowIntensity, config.MaxGlowIntensity)
	if v == cur {
		return
	}
	g.scene.SetGlowIntensity(v)
	g.log.Debug("glow intensity", "value", v)
	g.savePrefs()
}

func (g *Game) toggleHum() {
	on := !g.prefs.Get().AudioEnabled
	if err := g.hum.SetEnabled(on); err != nil {
		g.lastErr = err
		g.log.Error("hum unavailable", "err", err)
		return
	}
	g.prefs.SetAudioEnabled(on)
	g.savePrefs()
}

func (g *Game) openTextureDialog() error {
	path, err := g.pickTexture()
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return nil
		}
		return err
	}
	img, err := glow.LoadTexture(path)
	if err != nil {
		return err
	}

	old := g.glow.Texture()
	g.glow.SetTexture(ebiten.NewImageFromImage(img))
	if old != nil {
		old.Deallocate()
	}
	g.lastErr = nil
	g.log.Info("glow texture replaced", "path", path)
	return nil
}

func (g *Game) savePrefs() {
	if err := g.prefs.Save(); err != nil {
		g.log.Warn("preferences not saved", "err", err)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen, g.scene)
	if g.showHUD {
		ebitenutil.DebugPrintAt(screen, g.hudText(g.now()), 12, 12)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.renderer.Resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}
