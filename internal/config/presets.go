package config

import (
	"sort"

	"github.com/san-kum/vehsim/internal/control"
)

func preset(scn string, duration float64, edit func(*Config)) *Config {
	cfg := DefaultConfig()
	cfg.Scenario = scn
	cfg.Duration = duration
	if edit != nil {
		edit(cfg)
	}
	return cfg
}

func flat(c *Config) { c.Profile.Grade = nil }

var Presets = map[string]map[string]*Config{
	"ramp": {
		"hill":  preset("ramp", 20, nil),
		"flat":  preset("ramp", 20, flat),
		"heavy": preset("ramp", 30, func(c *Config) { c.Vehicle.Mass = 3500 }),
	},
	"coast": {
		"flat": preset("coast", 120, flat),
		"hill": preset("coast", 30, nil),
	},
	"cruise": {
		"light": preset("cruise", 400, func(c *Config) {
			flat(c)
			c.Profile.Throttle = 0.2
		}),
		"half": preset("cruise", 400, func(c *Config) {
			flat(c)
			c.Profile.Throttle = 0.5
		}),
		"full": preset("cruise", 400, func(c *Config) {
			flat(c)
			c.Profile.Throttle = 1.0
		}),
	},
	"track": {
		"urban": preset("track", 150, func(c *Config) {
			flat(c)
			c.TargetSpeed = 12
		}),
		"highway": preset("track", 200, func(c *Config) {
			flat(c)
			c.TargetSpeed = 25
		}),
		"hill": preset("track", 30, func(c *Config) {
			c.TargetSpeed = 8
		}),
		"aggressive": preset("track", 150, func(c *Config) {
			flat(c)
			c.Controller = control.Gains{Kp: 4, Ki: 0.5, Kd: 0.05, Wheelbase: control.DefaultWheelbase}
		}),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(scn, name string) *Config {
	scenarioPresets, ok := Presets[scn]
	if !ok {
		return nil
	}
	cfg, ok := scenarioPresets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(scn string) []string {
	scenarioPresets, ok := Presets[scn]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenarioPresets))
	for name := range scenarioPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
