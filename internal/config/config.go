package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/optiqa/wdmsim/internal/topology"
)

// Config is the on-disk YAML form of a network topology.
type Config struct {
	Name       string            `yaml:"name"`
	Nodes      []NodeConfig      `yaml:"nodes"`
	Fibers     []FiberConfig     `yaml:"fibers"`
	Lightpaths []LightpathConfig `yaml:"lightpaths"`
}

type NodeConfig struct {
	ID           string             `yaml:"id"`
	Name         string             `yaml:"name,omitempty"`
	Architecture string             `yaml:"architecture,omitempty"`
	Params       map[string]float64 `yaml:"params,omitempty"`
}

type AmplifierConfig struct {
	PositionKm            float64  `yaml:"position_km,omitempty"`
	GainDB                float64  `yaml:"gain_db"`
	NoiseFigureDB         float64  `yaml:"noise_figure_db"`
	PmdPs                 float64  `yaml:"pmd_ps,omitempty"`
	CdCompensationPsPerNm float64  `yaml:"cd_compensation_ps_per_nm,omitempty"`
	MinOutputPowerDBm     *float64 `yaml:"min_output_power_dbm,omitempty"`
	MaxOutputPowerDBm     *float64 `yaml:"max_output_power_dbm,omitempty"`
}

type FiberConfig struct {
	ID                 string            `yaml:"id"`
	Origin             string            `yaml:"origin"`
	Dest               string            `yaml:"dest"`
	LengthKm           float64           `yaml:"length_km"`
	AttenuationDBPerKm float64           `yaml:"attenuation_db_per_km"`
	CdPsPerNmKm        float64           `yaml:"cd_ps_per_nm_km,omitempty"`
	PmdPsPerSqrtKm     float64           `yaml:"pmd_ps_per_sqrt_km,omitempty"`
	Booster            *AmplifierConfig  `yaml:"booster,omitempty"`
	Preamp             *AmplifierConfig  `yaml:"preamp,omitempty"`
	Amplifiers         []AmplifierConfig `yaml:"amplifiers,omitempty"`
	EqualizationTarget *float64          `yaml:"equalization_target_mw_per_ghz,omitempty"`
}

type LightpathConfig struct {
	ID                string   `yaml:"id"`
	Slots             []int    `yaml:"slots"`
	InjectionPowerDBm float64  `yaml:"injection_power_dbm"`
	AddModuleIndex    int      `yaml:"add_module_index,omitempty"`
	Route             []string `yaml:"route"`
}

// Load reads a topology config from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a topology config as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func buildAmplifier(ac *AmplifierConfig) *topology.Amplifier {
	if ac == nil {
		return nil
	}
	a := topology.Amplifier{
		PositionKm:            ac.PositionKm,
		GainDB:                ac.GainDB,
		NoiseFigureDB:         ac.NoiseFigureDB,
		PmdPs:                 ac.PmdPs,
		CdCompensationPsPerNm: ac.CdCompensationPsPerNm,
		MinOutputPowerDBm:     -math.MaxFloat64,
		MaxOutputPowerDBm:     math.MaxFloat64,
	}
	if ac.MinOutputPowerDBm != nil {
		a.MinOutputPowerDBm = *ac.MinOutputPowerDBm
	}
	if ac.MaxOutputPowerDBm != nil {
		a.MaxOutputPowerDBm = *ac.MaxOutputPowerDBm
	}
	return &a
}

// Build resolves the config into a topology ready for the engine.
func (c *Config) Build() (*topology.Network, error) {
	net := &topology.Network{}

	nodes := make(map[string]*topology.Node)
	for _, nc := range c.Nodes {
		archName := nc.Architecture
		if archName == "" {
			archName = "broadcast_select"
		}
		arch, err := topology.NewArchitecture(archName, nc.Params)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", nc.ID, err)
		}
		node := &topology.Node{ID: nc.ID, Name: nc.Name, OADM: arch}
		nodes[nc.ID] = node
		net.Nodes = append(net.Nodes, node)
	}

	fibers := make(map[string]*topology.Fiber)
	for _, fc := range c.Fibers {
		origin, ok := nodes[fc.Origin]
		if !ok {
			return nil, fmt.Errorf("fiber %s: unknown origin node %s", fc.ID, fc.Origin)
		}
		dest, ok := nodes[fc.Dest]
		if !ok {
			return nil, fmt.Errorf("fiber %s: unknown dest node %s", fc.ID, fc.Dest)
		}
		f := &topology.Fiber{
			ID:                         fc.ID,
			Origin:                     origin,
			Dest:                       dest,
			LengthKm:                   fc.LengthKm,
			AttenuationDBPerKm:         fc.AttenuationDBPerKm,
			CdPsPerNmKm:                fc.CdPsPerNmKm,
			PmdPsPerSqrtKm:             fc.PmdPsPerSqrtKm,
			Booster:                    buildAmplifier(fc.Booster),
			Preamp:                     buildAmplifier(fc.Preamp),
			EqualizationTargetMwPerGHz: fc.EqualizationTarget,
		}
		for i := range fc.Amplifiers {
			f.Amplifiers = append(f.Amplifiers, *buildAmplifier(&fc.Amplifiers[i]))
		}
		fibers[fc.ID] = f
		net.Fibers = append(net.Fibers, f)
	}

	for _, lc := range c.Lightpaths {
		lp := &topology.Lightpath{
			ID:                lc.ID,
			SlotIDs:           lc.Slots,
			InjectionPowerDBm: lc.InjectionPowerDBm,
			AddModuleIndex:    lc.AddModuleIndex,
		}
		for _, fid := range lc.Route {
			f, ok := fibers[fid]
			if !ok {
				return nil, fmt.Errorf("lightpath %s: unknown fiber %s in route", lc.ID, fid)
			}
			lp.Route = append(lp.Route, f)
		}
		net.Lightpaths = append(net.Lightpaths, lp)
	}

	if err := net.Validate(); err != nil {
		return nil, err
	}
	return net, nil
}
