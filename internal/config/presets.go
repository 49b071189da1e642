package config

import "sort"

// Presets are named layout tunings for workflows of different shapes.
var Presets = map[string]LayoutConfig{
	"default": DefaultLayout(),
	"dense": {
		Width: 960, Height: 500, Charge: -60, LinkDistance: 25,
		LinkStrength: 1, Friction: 0.9, Gravity: 0.2, Theta: 0.8,
	},
	"sparse": {
		Width: 960, Height: 500, Charge: -240, LinkDistance: 80,
		LinkStrength: 0.7, Friction: 0.9, Gravity: 0.05, Theta: 0.8,
	},
	"wide": {
		Width: 1440, Height: 900, Charge: -180, LinkDistance: 60,
		LinkStrength: 1, Friction: 0.9, Gravity: 0.08, Theta: 0.8,
	},
}

func GetPreset(name string) (LayoutConfig, bool) {
	p, ok := Presets[name]
	return p, ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
