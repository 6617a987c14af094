package signal

import (
	"fmt"
	"math"
)

// Physical constants and fixed-grid parameters.
const (
	// PlanckConstant in m^2 kg / s.
	PlanckConstant = 6.62607004e-34
	// SpeedOfLight in m/s.
	SpeedOfLight = 299792458.0

	// ReferenceBandwidthGHz is the bandwidth all OSNR values refer to.
	ReferenceBandwidthGHz = 12.5
	// SlotWidthGHz is the width of one optical slot in the fixed grid.
	SlotWidthGHz = 12.5
	// SlotZeroCentralFreqTHz is the central frequency of optical slot 0.
	// Slot i sits at 193.1 + i*0.0125 THz.
	SlotZeroCentralFreqTHz = 193.1
)

type osnrKind int

const (
	osnrUndefined osnrKind = iota
	osnrMeasured
	osnrInfinite
)

// OSNR is an optical signal-to-noise ratio in the 12.5 GHz reference
// bandwidth. The zero value is undefined. Infinite marks a signal that has
// not crossed any noise source yet.
type OSNR struct {
	kind osnrKind
	dB   float64
}

func MeasuredOSNR(dB float64) OSNR { return OSNR{kind: osnrMeasured, dB: dB} }
func InfiniteOSNR() OSNR           { return OSNR{kind: osnrInfinite} }

func (o OSNR) IsMeasured() bool { return o.kind == osnrMeasured }
func (o OSNR) IsInfinite() bool { return o.kind == osnrInfinite }

// DB returns the value in dB; ok is false for undefined or infinite OSNR.
func (o OSNR) DB() (float64, bool) { return o.dB, o.kind == osnrMeasured }

func (o OSNR) String() string {
	switch o.kind {
	case osnrMeasured:
		return fmt.Sprintf("%.2f dB", o.dB)
	case osnrInfinite:
		return "inf"
	default:
		return "undef"
	}
}

// State is the optical signal condition at one point along a lightpath.
// PMD is kept squared so successive stages combine by plain addition; take
// the square root only when reporting a physical PMD value. States are
// values: a copy is independent of the original.
type State struct {
	PowerDBm      float64
	CdPsPerNm     float64
	PmdSquaredPs2 float64
	OSNR          OSNR
}

// PmdPs is the physical PMD in picoseconds.
func (s State) PmdPs() float64 { return math.Sqrt(s.PmdSquaredPs2) }

// DB2Linear converts dB to linear units.
func DB2Linear(dB float64) float64 { return math.Pow(10, dB/10) }

// Linear2DB converts a linear quantity to dB. Non-positive input has no dB
// representation and maps to -math.MaxFloat64.
func Linear2DB(v float64) float64 {
	if v <= 0 {
		return -math.MaxFloat64
	}
	return 10 * math.Log10(v)
}

// AccumulateOSNR combines the OSNR contributions gathered along a path.
// Infinite (no-noise) and undefined entries are skipped; the remaining
// linear values combine as 1/sum(1/x). With no finite contribution at all
// the result is Infinite: a chain without noise sources leaves the signal
// clean. The rule is commutative.
func AccumulateOSNR(contribs ...OSNR) OSNR {
	denom := 0.0
	for _, c := range contribs {
		dB, ok := c.DB()
		if !ok {
			continue
		}
		denom += 1.0 / DB2Linear(dB)
	}
	if denom == 0 {
		return InfiniteOSNR()
	}
	return MeasuredOSNR(Linear2DB(1.0 / denom))
}

// AmplifierNoiseOSNR is the OSNR contribution of a single EDFA stage in the
// reference bandwidth: the channel power entering the amplifier over the ASE
// noise power the amplifier adds at the channel frequency.
func AmplifierNoiseOSNR(freqHz, noiseFigureDB, inputPowerDBm float64) OSNR {
	inputPowerW := DB2Linear(inputPowerDBm) * 1e-3
	addedNoiseW := DB2Linear(noiseFigureDB) * PlanckConstant * freqHz * ReferenceBandwidthGHz * 1e9
	return MeasuredOSNR(Linear2DB(inputPowerW / addedNoiseW))
}

// SlotCentralFreqTHz is the central frequency of an optical slot.
func SlotCentralFreqTHz(slot int) float64 {
	return SlotZeroCentralFreqTHz + float64(slot)*SlotWidthGHz/1000
}

// SlotLowestFreqTHz is the lower edge of an optical slot.
func SlotLowestFreqTHz(slot int) float64 {
	return SlotZeroCentralFreqTHz + (float64(slot)-0.5)*SlotWidthGHz/1000
}

// SlotHighestFreqTHz is the upper edge of an optical slot.
func SlotHighestFreqTHz(slot int) float64 {
	return SlotZeroCentralFreqTHz + (float64(slot)+0.5)*SlotWidthGHz/1000
}

// NmToTHz converts a wavelength in nm to a frequency in THz.
func NmToTHz(wavelengthNm float64) float64 { return SpeedOfLight / (1000 * wavelengthNm) }

// THzToNm converts a frequency in THz to a wavelength in nm.
func THzToNm(freqTHz float64) float64 { return SpeedOfLight / (1000 * freqTHz) }
