package config

import "sort"

// Presets maps a scenario to its named configurations. Use GetPreset, which
// returns a copy.
var Presets = map[string]map[string]*Config{
	ScenarioFree: {
		"default":     DefaultConfig(),
		"three_balls": threeBalls(),
		"drop":        drop(),
	},
	ScenarioPendulum: {
		"default": pendulum(DefaultPendulum()),
		"wide": pendulum(PendulumConfig{
			Anchor: [2]float64{400, 100}, Bob: [2]float64{650, 100}, Mass: 2, Radius: 20, Elasticity: 0.9,
		}),
	},
	ScenarioCentripetal: {
		"default": centripetal(DefaultCentripetal()),
		"fast": centripetal(CentripetalConfig{
			Center: [2]float64{400, 300}, Orbit: 150, Speed: 300, Mass: 1, Radius: 10, Elasticity: 1,
		}),
	},
	ScenarioSlope: {
		"default": slope(DefaultSlope()),
		"steep": slope(SlopeConfig{
			From: [2]float64{150, 100}, To: [2]float64{550, 500}, Thickness: 4, Elasticity: 0.2, Friction: 0.3,
			Blocks: []BodyConfig{
				BlockOnSlope([2]float64{150, 100}, [2]float64{550, 500}, 80, 30, 30, 3, 2),
				BlockOnSlope([2]float64{150, 100}, [2]float64{550, 500}, 200, 50, 30, 3, 4),
			},
		}),
	},
	ScenarioCar: {
		"default": car(),
	},
}

func threeBalls() *Config {
	cfg := DefaultConfig()
	cfg.Bodies = nil
	for i, vx := range []float64{100, 300, 500} {
		cfg.Bodies = append(cfg.Bodies, BodyConfig{
			Type: TypeCircle, X: 200, Y: 300 - float64(i)*100, VX: vx,
			Mass: 2, Radius: 15, Elasticity: 1,
		})
	}
	return cfg
}

func drop() *Config {
	cfg := DefaultConfig()
	cfg.Bodies = []BodyConfig{
		{Type: TypeBox, Label: "crate", X: 300, Y: 100, Mass: 2, Width: 60, Height: 40, Elasticity: 0.2, Friction: 0.7},
		{Type: TypePolygon, Label: "wedge", X: 500, Y: 80, Angle: 0.3, Mass: 1.5,
			Vertices: [][2]float64{{-25, 15}, {25, 15}, {0, -25}}, Elasticity: 0.3, Friction: 0.6},
		{Type: TypeCircle, Label: "ball", X: 420, Y: 40, VX: -60, Mass: 1, Radius: 12, Elasticity: 0.7, Friction: 0.4},
		{Type: TypeSegment, Label: "ledge", Vertices: [][2]float64{{80, 350}, {280, 420}}, Thickness: 6,
			Elasticity: 0.5, Friction: 0.6},
	}
	cfg.RandomBalls = 6
	cfg.Seed = 7
	return cfg
}

func pendulum(p PendulumConfig) *Config {
	cfg := DefaultConfig()
	cfg.Scenario = ScenarioPendulum
	cfg.Bodies = nil
	cfg.Pendulum = p
	return cfg
}

func centripetal(c CentripetalConfig) *Config {
	cfg := DefaultConfig()
	cfg.Scenario = ScenarioCentripetal
	cfg.Bodies = nil
	cfg.Gravity = 0
	cfg.Centripetal = c
	return cfg
}

func slope(s SlopeConfig) *Config {
	cfg := DefaultConfig()
	cfg.Scenario = ScenarioSlope
	cfg.Bodies = nil
	cfg.Slope = s
	return cfg
}

func car() *Config {
	cfg := DefaultConfig()
	cfg.Scenario = ScenarioCar
	cfg.Bodies = nil
	cfg.Walls.Friction = 0.9
	cfg.Walls.Thickness = 10
	return cfg
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(scenario, preset string) *Config {
	byName, ok := Presets[scenario]
	if !ok {
		return nil
	}
	cfg, ok := byName[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

// ListPresets returns the preset names of a scenario in sorted order.
func ListPresets(scenario string) []string {
	byName, ok := Presets[scenario]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ForScenario returns the default preset of a scenario.
func ForScenario(scenario string) *Config {
	return GetPreset(scenario, "default")
}
