// Package prefs keeps the few user choices that outlive a session: glow
// intensity, the hum switch and fullscreen. Animation state is never
// stored.
package prefs

import (
	"fmt"
	"log/slog"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const (
	prefsObject   = "prefs"
	prefsProperty = "global"
)

// Prefs is the persisted payload.
type Prefs struct {
	GlowIntensity float64 `yaml:"glowIntensity"`
	AudioEnabled  bool    `yaml:"audioEnabled"`
	Fullscreen    bool    `yaml:"fullscreen"`
}

// Manager loads and saves Prefs through gdata. With a nil gdata manager
// it keeps preferences in memory only.
type Manager struct {
	store    *gdata.Manager
	defaults Prefs
	prefs    Prefs
	log      *slog.Logger
}

// Open creates a gdata store for appName. Failing to open the store is
// not fatal: the returned manager works in memory and the error says why.
func Open(appName string, defaults Prefs, log *slog.Logger) (*Manager, error) {
	store, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		m := New(nil, defaults, log)
		return m, fmt.Errorf("open preference store: %w", err)
	}
	return New(store, defaults, log), nil
}

// New wraps an existing store (which may be nil) and loads any saved
// preferences over defaults.
func New(store *gdata.Manager, defaults Prefs, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	m := &Manager{store: store, defaults: defaults, prefs: defaults, log: log}
	if err := m.Load(); err != nil {
		log.Warn("preferences not loaded, using defaults", "err", err)
	}
	return m
}

// Load replaces the in-memory preferences with the stored ones. A missing
// entry resets to defaults without error.
func (m *Manager) Load() error {
	if m.store == nil || !m.store.ObjectPropExists(prefsObject, prefsProperty) {
		m.prefs = m.defaults
		return nil
	}

	data, err := m.store.LoadObjectProp(prefsObject, prefsProperty)
	if err != nil {
		m.prefs = m.defaults
		return fmt.Errorf("failed to load preferences: %w", err)
	}

	loaded := m.defaults
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		m.prefs = m.defaults
		return fmt.Errorf("failed to unmarshal preferences: %w", err)
	}
	m.prefs = loaded
	m.log.Debug("preferences loaded", "glow", loaded.GlowIntensity, "audio", loaded.AudioEnabled)
	return nil
}

// Save writes the current preferences. Without a store it does nothing.
func (m *Manager) Save() error {
	if m.store == nil {
		return nil
	}
	data, err := yaml.Marshal(m.prefs)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}
	if err := m.store.SaveObjectProp(prefsObject, prefsProperty, data); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}

func (m *Manager) Get() Prefs { return m.prefs }

// SetGlowIntensity stores v clamped to [lo, hi] and returns the stored value.
func (m *Manager) SetGlowIntensity(v, lo, hi float64) float64 {
	m.prefs.GlowIntensity = min(max(v, lo), hi)
	return m.prefs.GlowIntensity
}

func (m *Manager) SetAudioEnabled(on bool) { m.prefs.AudioEnabled = on }

func (m *Manager) SetFullscreen(on bool) { m.prefs.Fullscreen = on }
