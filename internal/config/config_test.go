package config

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/optiqa/wdmsim/internal/engine"
)

func TestPresetsBuild(t *testing.T) {
	for name, cfg := range Presets {
		net, err := cfg.Build()
		if err != nil {
			t.Fatalf("preset %s does not build: %v", name, err)
		}
		if _, err := engine.New(net).Recompute(); err != nil {
			t.Errorf("preset %s does not propagate: %v", name, err)
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "net.yaml")
	if err := Save(path, Presets["backbone"]); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Name != Presets["backbone"].Name {
		t.Errorf("name lost in round trip: %q", cfg.Name)
	}
	if len(cfg.Fibers) != 2 || len(cfg.Lightpaths) != 3 {
		t.Errorf("topology lost in round trip: %d fibers, %d lightpaths",
			len(cfg.Fibers), len(cfg.Lightpaths))
	}
	net, err := cfg.Build()
	if err != nil {
		t.Fatal(err)
	}
	f := net.FiberByID("mad-zgz")
	if f == nil || len(f.Amplifiers) != 3 {
		t.Fatal("amplifier chain lost in round trip")
	}
	if f.Amplifiers[0].MinOutputPowerDBm != -10 || f.Amplifiers[0].MaxOutputPowerDBm != 23 {
		t.Error("amplifier power bounds lost in round trip")
	}
}

func TestOmittedBoundsAreUnbounded(t *testing.T) {
	cfg := &Config{
		Nodes: []NodeConfig{{ID: "a"}, {ID: "b"}},
		Fibers: []FiberConfig{
			{ID: "f", Origin: "a", Dest: "b", LengthKm: 80, AttenuationDBPerKm: 0.2,
				Amplifiers: []AmplifierConfig{{PositionKm: 40, GainDB: 16, NoiseFigureDB: 5}}},
		},
		Lightpaths: []LightpathConfig{
			{ID: "lp", Slots: []int{0}, Route: []string{"f"}},
		},
	}
	net, err := cfg.Build()
	if err != nil {
		t.Fatal(err)
	}
	a := net.FiberByID("f").Amplifiers[0]
	if a.MinOutputPowerDBm != -math.MaxFloat64 || a.MaxOutputPowerDBm != math.MaxFloat64 {
		t.Error("omitted bounds should not constrain feasibility")
	}
}

func TestBuildRejectsDanglingReferences(t *testing.T) {
	cfg := &Config{
		Nodes:  []NodeConfig{{ID: "a"}},
		Fibers: []FiberConfig{{ID: "f", Origin: "a", Dest: "missing", LengthKm: 1}},
	}
	if _, err := cfg.Build(); err == nil {
		t.Error("expected error for unknown dest node")
	}

	cfg = &Config{
		Nodes:      []NodeConfig{{ID: "a"}, {ID: "b"}},
		Fibers:     []FiberConfig{{ID: "f", Origin: "a", Dest: "b", LengthKm: 1}},
		Lightpaths: []LightpathConfig{{ID: "lp", Slots: []int{0}, Route: []string{"ghost"}}},
	}
	if _, err := cfg.Build(); err == nil {
		t.Error("expected error for unknown fiber in route")
	}
}
