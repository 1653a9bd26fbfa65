package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/ncruces/zenity"

	"github.com/iburimskiy/singularity/internal/config"
	"github.com/iburimskiy/singularity/internal/game"
	"github.com/iburimskiy/singularity/internal/glow"
	"github.com/iburimskiy/singularity/internal/prefs"
)

const appName = "singularity"

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML config file")
		debug      = flag.Bool("debug", false, "enable debug logging")
		fullscreen = flag.Bool("fullscreen", false, "start in fullscreen")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	glow.SetLogger(log)

	if err := run(*configPath, *fullscreen, log); err != nil {
		log.Error("singularity stopped", "err", err)
		_ = zenity.Error(err.Error(), zenity.Title("Singularity"))
		os.Exit(1)
	}
}

func run(configPath string, fullscreen bool, log *slog.Logger) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	pm, err := prefs.Open(appName, prefs.Prefs{
		GlowIntensity: cfg.Glow.Intensity,
		AudioEnabled:  cfg.Audio.Enabled,
		Fullscreen:    cfg.Window.Fullscreen,
	}, log)
	if err != nil {
		log.Warn("preferences kept in memory", "err", err)
	}

	g, err := game.New(cfg, pm, log)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title + " - +/-: glow, O: texture, M: hum, Esc/Q: quit")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(fullscreen || pm.Get().Fullscreen)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
