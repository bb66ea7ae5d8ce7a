package config

import "sort"

var Presets = map[string]*Config{
	"reference": DefaultConfig(),
	"coarse": {
		StepSizesPi: []float64{0.5, 0.25, 0.1},
		Span:        SpanConfig{Start: 0, EndPi: DefaultSpanEndPi},
		Initial:     InitialConfig{Position: DefaultPosition, Velocity: DefaultVelocity},
		Schemes:     DefaultConfig().Schemes,
		Workers:     DefaultWorkers,
	},
	"fine": {
		StepSizesPi: []float64{0.01, 0.005, 0.001},
		Span:        SpanConfig{Start: 0, EndPi: DefaultSpanEndPi},
		Initial:     InitialConfig{Position: DefaultPosition, Velocity: DefaultVelocity},
		Schemes:     DefaultConfig().Schemes,
		Parallel:    true,
		Workers:     DefaultWorkers,
	},
	"long": {
		StepSizesPi: []float64{0.1, 0.01, 0.001},
		Span:        SpanConfig{Start: 0, EndPi: 40},
		Initial:     InitialConfig{Position: DefaultPosition, Velocity: DefaultVelocity},
		Schemes:     DefaultConfig().Schemes,
		Parallel:    true,
		Workers:     DefaultWorkers,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return p.clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
