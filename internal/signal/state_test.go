package signal

import (
	"math"
	"testing"
)

func TestAccumulateEmptyIsInfinite(t *testing.T) {
	if !AccumulateOSNR().IsInfinite() {
		t.Error("expected infinite OSNR for empty accumulation")
	}
	if !AccumulateOSNR(InfiniteOSNR(), InfiniteOSNR()).IsInfinite() {
		t.Error("expected infinite OSNR when every contribution is noiseless")
	}
}

func TestAccumulateSingle(t *testing.T) {
	for _, x := range []float64{-3.0, 0.0, 18.5, 40.0} {
		got, ok := AccumulateOSNR(MeasuredOSNR(x)).DB()
		if !ok {
			t.Fatalf("expected measured OSNR for input %f", x)
		}
		if math.Abs(got-x) > 1e-9 {
			t.Errorf("expected %f, got %f", x, got)
		}
	}
}

func TestAccumulateCommutative(t *testing.T) {
	a := AccumulateOSNR(MeasuredOSNR(20), MeasuredOSNR(25), InfiniteOSNR(), MeasuredOSNR(18))
	b := AccumulateOSNR(MeasuredOSNR(18), InfiniteOSNR(), MeasuredOSNR(25), MeasuredOSNR(20))
	av, _ := a.DB()
	bv, _ := b.DB()
	if math.Abs(av-bv) > 1e-12 {
		t.Errorf("accumulation not commutative: %f vs %f", av, bv)
	}
}

func TestAccumulateEqualContributions(t *testing.T) {
	// two identical noise sources halve the linear OSNR: -3.0103 dB
	got, _ := AccumulateOSNR(MeasuredOSNR(20), MeasuredOSNR(20)).DB()
	want := 20 - 10*math.Log10(2)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("expected %f, got %f", want, got)
	}
}

func TestDBRoundTrip(t *testing.T) {
	for _, x := range []float64{-60, -16, -3, 0, 0.2, 17, 33.3, 60} {
		got := Linear2DB(DB2Linear(x))
		if math.Abs(got-x) > 1e-9*math.Max(1, math.Abs(x)) {
			t.Errorf("round trip of %f gave %f", x, got)
		}
	}
}

func TestLinear2DBNonPositive(t *testing.T) {
	if Linear2DB(0) != -math.MaxFloat64 {
		t.Error("expected -MaxFloat64 for zero input")
	}
	if Linear2DB(-1) != -math.MaxFloat64 {
		t.Error("expected -MaxFloat64 for negative input")
	}
}

func TestAmplifierNoiseContribution(t *testing.T) {
	freqHz := SlotCentralFreqTHz(0) * 1e12
	nf := 5.0
	in := -16.0

	got, ok := AmplifierNoiseOSNR(freqHz, nf, in).DB()
	if !ok {
		t.Fatal("expected measured contribution")
	}

	inputW := math.Pow(10, in/10) * 1e-3
	noiseW := math.Pow(10, nf/10) * PlanckConstant * freqHz * 12.5e9
	want := 10 * math.Log10(inputW/noiseW)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("expected %f, got %f", want, got)
	}
}

func TestSlotFrequencies(t *testing.T) {
	if math.Abs(SlotCentralFreqTHz(0)-193.1) > 1e-12 {
		t.Error("slot 0 must sit at 193.1 THz")
	}
	if math.Abs(SlotCentralFreqTHz(4)-193.15) > 1e-12 {
		t.Errorf("slot 4 central frequency wrong: %f", SlotCentralFreqTHz(4))
	}
	if math.Abs(SlotHighestFreqTHz(2)-SlotLowestFreqTHz(3)) > 1e-12 {
		t.Error("adjacent slots must share an edge")
	}
}

func TestPmdPs(t *testing.T) {
	s := State{PmdSquaredPs2: 9}
	if math.Abs(s.PmdPs()-3) > 1e-12 {
		t.Errorf("expected 3 ps, got %f", s.PmdPs())
	}
}
