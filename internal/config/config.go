package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/iburimskiy/singularity/internal/geom"
	"github.com/iburimskiy/singularity/internal/scene"
)

const (
	WindowWidth  = 1024
	WindowHeight = 768

	// Glow intensity limits for runtime adjustment.
	MinGlowIntensity  = 0
	MaxGlowIntensity  = 20
	GlowIntensityStep = 0.5
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is everything needed to put the emblem on screen.
type Config struct {
	Window   Window   `yaml:"window"`
	Camera   Camera   `yaml:"camera"`
	Lights   Lights   `yaml:"lights"`
	Material Material `yaml:"material"`
	Glow     Glow     `yaml:"glow"`
	SpinUp   SpinUp   `yaml:"spinUp"`
	Tilt     Tilt     `yaml:"tilt"`
	Rings    []Ring   `yaml:"rings"`
	Audio    Audio    `yaml:"audio"`
}

type Window struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Title      string `yaml:"title"`
	Fullscreen bool   `yaml:"fullscreen"`
}

type Camera struct {
	FOV      float64 `yaml:"fov"`
	Distance float64 `yaml:"distance"`
}

type Lights struct {
	Ambient        float64    `yaml:"ambient"`
	PointPosition  [3]float64 `yaml:"pointPosition"`
	PointIntensity float64    `yaml:"pointIntensity"`
}

type Material struct {
	Color           string  `yaml:"color"`
	EmissiveDivisor float64 `yaml:"emissiveDivisor"`
}

type Glow struct {
	Texture   string  `yaml:"texture"`
	Tint      string  `yaml:"tint"`
	Intensity float64 `yaml:"intensity"`
	// Blend is "alpha" or "additive".
	Blend string `yaml:"blend"`
}

type SpinUp struct {
	Duration time.Duration `yaml:"duration"`
	Factor   float64       `yaml:"factor"`
}

type Tilt struct {
	// MaxAngle is in radians.
	MaxAngle float64 `yaml:"maxAngle"`
}

type Ring struct {
	Name     string     `yaml:"name"`
	Radius   float64    `yaml:"radius"`
	Tube     float64    `yaml:"tube"`
	Position [3]float64 `yaml:"position"`
	Speed    float64    `yaml:"speed"`
	P        int        `yaml:"p"`
	Q        int        `yaml:"q"`
}

type Audio struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"`
}

// Default returns the stock emblem.
func Default() *Config {
	return &Config{
		Window: Window{Width: WindowWidth, Height: WindowHeight, Title: "Singularity"},
		Camera: Camera{FOV: 75, Distance: 5},
		Lights: Lights{Ambient: 0.5, PointPosition: [3]float64{0, 0, 10}, PointIntensity: 1},
		Material: Material{
			Color:           "#00FFFF",
			EmissiveDivisor: scene.DefaultEmissiveDivisor,
		},
		Glow: Glow{
			Texture:   "assets/glowtexture.png",
			Tint:      "#7BFFFF",
			Intensity: 5,
			Blend:     "alpha",
		},
		SpinUp: SpinUp{Duration: scene.DefaultSpinUpDuration, Factor: scene.DefaultSpinUpFactor},
		Tilt:   Tilt{MaxAngle: scene.DefaultMaxTilt},
		Rings: []Ring{
			{Name: "upper", Radius: 1.75, Tube: 0.02, Position: [3]float64{0, 0, 1.25}, Speed: 0.05, P: 3, Q: 1},
			{Name: "outer", Radius: 2.25, Tube: 0.0025, Position: [3]float64{0, 0, 0.75}, Speed: 0.02, P: 3, Q: 1},
			{Name: "inner", Radius: 1.5, Tube: 0.02, Position: [3]float64{0, 0, -0.25}, Speed: 0.1, P: 3, Q: 1},
			{Name: "center", Radius: 1, Tube: 0.01, Position: [3]float64{0, 0, -1}, Speed: 0.25, P: 3, Q: 1},
			{Name: "singularity", Radius: 0.25, Tube: 0.025, Position: [3]float64{0, 0, -1.25}, Speed: 0.5, P: 5, Q: 15},
		},
		Audio: Audio{Enabled: false, Volume: 0.3},
	}
}

// Load reads a YAML file over the defaults and validates the result.
// Keys missing from the file keep their default values; a rings list in
// the file replaces the default rings entirely.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse is Load without the file.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the emblem invariants: five rings at distinct depths,
// positive sizes, non-negative speeds and glow.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		return fmt.Errorf("%w: camera fov %v outside (0, 180)", ErrInvalid, c.Camera.FOV)
	}
	if c.Camera.Distance <= 0 {
		return fmt.Errorf("%w: camera distance %v", ErrInvalid, c.Camera.Distance)
	}
	if c.Glow.Intensity < MinGlowIntensity || c.Glow.Intensity > MaxGlowIntensity {
		return fmt.Errorf("%w: glow intensity %v outside [%v, %v]", ErrInvalid, c.Glow.Intensity, MinGlowIntensity, MaxGlowIntensity)
	}
	if c.Material.EmissiveDivisor <= 0 {
		return fmt.Errorf("%w: emissive divisor %v", ErrInvalid, c.Material.EmissiveDivisor)
	}
	if c.Glow.Blend != "alpha" && c.Glow.Blend != "additive" {
		return fmt.Errorf("%w: glow blend %q", ErrInvalid, c.Glow.Blend)
	}
	if c.SpinUp.Duration <= 0 || c.SpinUp.Factor < 1 {
		return fmt.Errorf("%w: spin-up duration %v factor %v", ErrInvalid, c.SpinUp.Duration, c.SpinUp.Factor)
	}
	if c.Tilt.MaxAngle <= 0 || c.Tilt.MaxAngle > scene.DefaultMaxTilt {
		return fmt.Errorf("%w: tilt max angle %v outside (0, pi/8]", ErrInvalid, c.Tilt.MaxAngle)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("%w: audio volume %v outside [0, 1]", ErrInvalid, c.Audio.Volume)
	}
	if len(c.Rings) != scene.RingCount {
		return fmt.Errorf("%w: %d rings, want %d", ErrInvalid, len(c.Rings), scene.RingCount)
	}

	depths := map[float64]string{}
	for _, r := range c.Rings {
		if r.Radius <= 0 || r.Tube <= 0 {
			return fmt.Errorf("%w: ring %q radius %v tube %v", ErrInvalid, r.Name, r.Radius, r.Tube)
		}
		if r.Speed < 0 {
			return fmt.Errorf("%w: ring %q speed %v", ErrInvalid, r.Name, r.Speed)
		}
		if (r.P == 0) != (r.Q == 0) || r.P < 0 || r.Q < 0 {
			return fmt.Errorf("%w: ring %q knot (%d, %d)", ErrInvalid, r.Name, r.P, r.Q)
		}
		z := r.Position[2]
		if other, ok := depths[z]; ok {
			return fmt.Errorf("%w: rings %q and %q share depth %v", ErrInvalid, other, r.Name, z)
		}
		depths[z] = r.Name
	}
	return nil
}

// RingSpecs converts the ring table for the scene composer.
func (c *Config) RingSpecs() []scene.RingSpec {
	specs := make([]scene.RingSpec, len(c.Rings))
	for i, r := range c.Rings {
		specs[i] = scene.RingSpec{
			Name:          r.Name,
			Radius:        r.Radius,
			Tube:          r.Tube,
			Position:      geom.V(r.Position[0], r.Position[1], r.Position[2]),
			Speed:         r.Speed,
			GlowIntensity: c.Glow.Intensity,
			P:             r.P,
			Q:             r.Q,
		}
	}
	return specs
}

// SceneOptions returns the controller tuning for the scene composer.
func (c *Config) SceneOptions() scene.Options {
	return scene.Options{
		SpinUpDuration:  c.SpinUp.Duration,
		SpinUpFactor:    c.SpinUp.Factor,
		MaxTilt:         c.Tilt.MaxAngle,
		EmissiveDivisor: c.Material.EmissiveDivisor,
	}
}
