package config

func ptr(v float64) *float64 { return &v }

// Presets are ready-made example topologies.
var Presets = map[string]*Config{
	"lab-span": {
		Name: "single 80 km span",
		Nodes: []NodeConfig{
			{ID: "a", Name: "Lab A"},
			{ID: "b", Name: "Lab B"},
		},
		Fibers: []FiberConfig{
			{
				ID: "a-b", Origin: "a", Dest: "b",
				LengthKm: 80, AttenuationDBPerKm: 0.2,
				CdPsPerNmKm: 16, PmdPsPerSqrtKm: 0.1,
			},
		},
		Lightpaths: []LightpathConfig{
			{ID: "lp1", Slots: []int{0, 1, 2, 3}, InjectionPowerDBm: 0, Route: []string{"a-b"}},
		},
	},
	"backbone": {
		Name: "three-node amplified line",
		Nodes: []NodeConfig{
			{ID: "mad", Name: "Madrid", Params: map[string]float64{
				"add_attenuation_db": 4, "fabric_attenuation_db": 6, "fabric_pmd_ps": 0.5,
			}},
			{ID: "zgz", Name: "Zaragoza", Params: map[string]float64{
				"add_attenuation_db": 4, "fabric_attenuation_db": 6, "fabric_pmd_ps": 0.5,
			}},
			{ID: "bcn", Name: "Barcelona", Params: map[string]float64{
				"add_attenuation_db": 4, "fabric_attenuation_db": 6, "fabric_pmd_ps": 0.5,
			}},
		},
		Fibers: []FiberConfig{
			{
				ID: "mad-zgz", Origin: "mad", Dest: "zgz",
				LengthKm: 320, AttenuationDBPerKm: 0.25,
				CdPsPerNmKm: 16, PmdPsPerSqrtKm: 0.1,
				Booster: &AmplifierConfig{GainDB: 10, NoiseFigureDB: 6, PmdPs: 0.1},
				Preamp:  &AmplifierConfig{GainDB: 20, NoiseFigureDB: 5.5, PmdPs: 0.1},
				Amplifiers: []AmplifierConfig{
					{PositionKm: 80, GainDB: 20, NoiseFigureDB: 5, PmdPs: 0.2,
						MinOutputPowerDBm: ptr(-10.0), MaxOutputPowerDBm: ptr(23.0)},
					{PositionKm: 160, GainDB: 20, NoiseFigureDB: 5, PmdPs: 0.2,
						MinOutputPowerDBm: ptr(-10.0), MaxOutputPowerDBm: ptr(23.0)},
					{PositionKm: 240, GainDB: 20, NoiseFigureDB: 5, PmdPs: 0.2,
						MinOutputPowerDBm: ptr(-10.0), MaxOutputPowerDBm: ptr(23.0)},
				},
			},
			{
				ID: "zgz-bcn", Origin: "zgz", Dest: "bcn",
				LengthKm: 250, AttenuationDBPerKm: 0.25,
				CdPsPerNmKm: 16, PmdPsPerSqrtKm: 0.1,
				Booster: &AmplifierConfig{GainDB: 10, NoiseFigureDB: 6, PmdPs: 0.1},
				Preamp:  &AmplifierConfig{GainDB: 18, NoiseFigureDB: 5.5, PmdPs: 0.1},
				Amplifiers: []AmplifierConfig{
					{PositionKm: 85, GainDB: 21, NoiseFigureDB: 5, PmdPs: 0.2,
						MinOutputPowerDBm: ptr(-10.0), MaxOutputPowerDBm: ptr(23.0)},
					{PositionKm: 170, GainDB: 21, NoiseFigureDB: 5, PmdPs: 0.2,
						MinOutputPowerDBm: ptr(-10.0), MaxOutputPowerDBm: ptr(23.0)},
				},
			},
		},
		Lightpaths: []LightpathConfig{
			{ID: "mad-bcn-1", Slots: []int{0, 1, 2, 3}, InjectionPowerDBm: 1,
				Route: []string{"mad-zgz", "zgz-bcn"}},
			{ID: "mad-zgz-1", Slots: []int{8, 9, 10, 11}, InjectionPowerDBm: 1,
				Route: []string{"mad-zgz"}},
			{ID: "zgz-bcn-1", Slots: []int{16, 17, 18, 19}, InjectionPowerDBm: 1,
				Route: []string{"zgz-bcn"}},
		},
	},
}

// GetPreset returns a named preset, or nil.
func GetPreset(name string) *Config { return Presets[name] }

// ListPresets returns the available preset names.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
