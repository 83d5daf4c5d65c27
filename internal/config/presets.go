package config

import (
	"sort"
	"time"
)

// Presets are named starting points; flags still override them.
var Presets = map[string]func(*Config){
	"g1": func(c *Config) {
		c.Model.Path = DefaultModelPath
		c.Playback.FPS = 50
		c.Playback.Warmup = 5 * time.Second
		c.Decoder.ZOffset = 0.05
	},
	"preview": func(c *Config) {
		c.Playback.FPS = 30
		c.Playback.Warmup = 0
		c.Playback.Mode = "interactive"
	},
	"step": func(c *Config) {
		c.Playback.Warmup = 0
		c.Playback.Mode = "step"
	},
	"headless": func(c *Config) {
		c.Playback.Warmup = 0
		c.Renderer = "headless"
	},
	"slowmo": func(c *Config) {
		c.Playback.FPS = 10
		c.Playback.Mode = "interactive"
	},
}

// GetPreset returns the defaults with the named preset applied, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
