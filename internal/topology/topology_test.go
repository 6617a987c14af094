package topology

import (
	"errors"
	"math"
	"testing"

	"github.com/optiqa/wdmsim/internal/signal"
)

func TestCentralFrequency(t *testing.T) {
	lp := &Lightpath{SlotIDs: []int{0}}
	if math.Abs(lp.CentralFrequencyTHz()-193.1) > 1e-12 {
		t.Errorf("slot 0 lightpath must sit at 193.1 THz, got %f", lp.CentralFrequencyTHz())
	}

	// four contiguous slots center between slots 3 and 4
	lp = &Lightpath{SlotIDs: []int{2, 3, 4, 5}}
	want := 193.1 + 3.5*0.0125
	if math.Abs(lp.CentralFrequencyTHz()-want) > 1e-12 {
		t.Errorf("expected %f, got %f", want, lp.CentralFrequencyTHz())
	}
}

func TestBroadcastAndSelectTransforms(t *testing.T) {
	arch := &BroadcastAndSelect{AddAttenuationDB: 4, FabricAttenuationDB: 6, FabricPmdPs: 0.5}
	in := signal.State{PowerDBm: 1, OSNR: signal.InfiniteOSNR()}

	added := arch.AddedLightpathState(in, 0, nil)
	if math.Abs(added.PowerDBm-(-9)) > 1e-12 {
		t.Errorf("added power: expected -9 dBm, got %f", added.PowerDBm)
	}
	if math.Abs(added.PmdSquaredPs2-0.25) > 1e-12 {
		t.Errorf("added pmd²: expected 0.25, got %f", added.PmdSquaredPs2)
	}

	express := arch.ExpressLightpathState(in, nil, nil)
	if math.Abs(express.PowerDBm-(-5)) > 1e-12 {
		t.Errorf("express power: expected -5 dBm, got %f", express.PowerDBm)
	}
	if in.PowerDBm != 1 {
		t.Error("transform must not mutate its input")
	}
}

func TestFilterlessSplitterLoss(t *testing.T) {
	arch := &Filterless{BaseLossDB: 3, Degree: 4}
	want := 3 + 10*math.Log10(4)
	if math.Abs(arch.SwitchFabricAttenuationDB()-want) > 1e-12 {
		t.Errorf("expected %f dB, got %f", want, arch.SwitchFabricAttenuationDB())
	}
}

func TestArchitectureRegistry(t *testing.T) {
	arch, err := NewArchitecture("broadcast_select", map[string]float64{"fabric_attenuation_db": 6})
	if err != nil {
		t.Fatal(err)
	}
	if arch.SwitchFabricAttenuationDB() != 6 {
		t.Error("params not applied")
	}
	if _, err := NewArchitecture("nonexistent", nil); err == nil {
		t.Error("expected error for unknown architecture")
	}
}

func TestFiberBalances(t *testing.T) {
	f := &Fiber{
		LengthKm:           160,
		AttenuationDBPerKm: 0.2,
		CdPsPerNmKm:        16,
		PmdPsPerSqrtKm:     0.1,
		Amplifiers: []Amplifier{
			{PositionKm: 80, GainDB: 16, CdCompensationPsPerNm: -100, PmdPs: 0.3},
		},
	}
	if math.Abs(f.TotalAttenuationDB()-32) > 1e-12 {
		t.Errorf("attenuation: got %f", f.TotalAttenuationDB())
	}
	if math.Abs(f.TotalInlineGainDB()-16) > 1e-12 {
		t.Errorf("gain: got %f", f.TotalInlineGainDB())
	}
	if math.Abs(f.TotalCdBalancePsPerNm()-(160*16-100)) > 1e-12 {
		t.Errorf("cd balance: got %f", f.TotalCdBalancePsPerNm())
	}
	wantPmd2 := 160*0.1*0.1 + 0.3*0.3
	if math.Abs(f.TotalPmdSquaredBalancePs2()-wantPmd2) > 1e-12 {
		t.Errorf("pmd² balance: got %f", f.TotalPmdSquaredBalancePs2())
	}
}

func TestValidate(t *testing.T) {
	arch := &BroadcastAndSelect{}
	a := &Node{ID: "a", OADM: arch}
	b := &Node{ID: "b", OADM: arch}
	f := &Fiber{ID: "f1", Origin: a, Dest: b, LengthKm: 80}
	lp := &Lightpath{ID: "lp1", SlotIDs: []int{0}, Route: []*Fiber{f}}
	net := &Network{Nodes: []*Node{a, b}, Fibers: []*Fiber{f}, Lightpaths: []*Lightpath{lp}}

	if err := net.Validate(); err != nil {
		t.Fatalf("valid network rejected: %v", err)
	}

	b.OADM = nil
	err := net.Validate()
	if !errors.Is(err, ErrMissingOADM) {
		t.Errorf("expected ErrMissingOADM, got %v", err)
	}
	b.OADM = arch

	f.Amplifiers = []Amplifier{{PositionKm: 100}}
	if err := net.Validate(); err == nil {
		t.Error("expected error for amplifier beyond fiber end")
	}
	f.Amplifiers = nil

	lp.Route = nil
	if err := net.Validate(); err == nil {
		t.Error("expected error for empty route")
	}
}

func TestTraversingLightpaths(t *testing.T) {
	arch := &BroadcastAndSelect{}
	a := &Node{ID: "a", OADM: arch}
	b := &Node{ID: "b", OADM: arch}
	c := &Node{ID: "c", OADM: arch}
	f1 := &Fiber{ID: "f1", Origin: a, Dest: b, LengthKm: 80}
	f2 := &Fiber{ID: "f2", Origin: b, Dest: c, LengthKm: 80}
	lp1 := &Lightpath{ID: "lp1", SlotIDs: []int{0}, Route: []*Fiber{f1, f2}}
	lp2 := &Lightpath{ID: "lp2", SlotIDs: []int{4}, Route: []*Fiber{f2}}
	net := &Network{Nodes: []*Node{a, b, c}, Fibers: []*Fiber{f1, f2}, Lightpaths: []*Lightpath{lp1, lp2}}

	if got := net.TraversingLightpaths(f1); len(got) != 1 || got[0] != lp1 {
		t.Errorf("f1 traversing set wrong: %v", got)
	}
	if got := net.TraversingLightpaths(f2); len(got) != 2 {
		t.Errorf("f2 should carry both lightpaths, got %d", len(got))
	}
}
