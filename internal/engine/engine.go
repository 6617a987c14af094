package engine

import (
	"fmt"

	"github.com/optiqa/wdmsim/internal/signal"
	"github.com/optiqa/wdmsim/internal/topology"
)

// Engine computes the physical-layer performance of every lightpath in one
// network snapshot. One engine per snapshot; independent scenarios need
// independent engines.
type Engine struct {
	net *topology.Network
}

func New(net *topology.Network) *Engine {
	return &Engine{net: net}
}

// Recompute walks the whole topology and builds a fresh performance
// snapshot. The computation is synchronous and single-threaded; the returned
// Performance is never mutated afterwards, so callers may keep serving an
// older snapshot while a new one is computed. Batch topology edits and call
// Recompute once per batch.
func (e *Engine) Recompute() (*Performance, error) {
	if err := e.net.Validate(); err != nil {
		return nil, err
	}

	perf := newPerformance(e.net)

	// Phase A: per-lightpath, per-fiber, per-amplifier propagation.
	for _, lp := range e.net.Lightpaths {
		e.propagate(lp, perf)
	}

	// Phase B: receiver-end state of every lightpath.
	for _, lp := range e.net.Lightpaths {
		e.receiverState(lp, perf)
	}

	// Phase C: per-fiber aggregate power across co-propagating lightpaths.
	for _, f := range e.net.Fibers {
		e.aggregatePower(f, perf)
	}

	if err := perf.checkInvariants(e.net); err != nil {
		return nil, err
	}
	return perf, nil
}

// applyAmplifier applies gain, CD compensation and PMD of an optional
// amplifier stage. OSNR bookkeeping happens separately through the
// accumulation rule.
func applyAmplifier(s signal.State, a *topology.Amplifier) signal.State {
	if a == nil {
		return s
	}
	s.PowerDBm += a.GainDB
	s.CdPsPerNm += a.CdCompensationPsPerNm
	s.PmdSquaredPs2 += a.PmdPs * a.PmdPs
	return s
}

// propagate walks one lightpath's fiber sequence, carrying the previous
// fiber's output-boundary state forward, and records boundary and per-OLA
// states.
func (e *Engine) propagate(lp *topology.Lightpath, perf *Performance) {
	freqHz := lp.CentralFrequencyTHz() * 1e12

	var prevEnd signal.State
	for i, fiber := range lp.Route {
		first := i == 0
		oadm := fiber.Origin.OADM

		// State before the booster, right after the origin switch fabric.
		var preBooster signal.State
		if first {
			injected := signal.State{
				PowerDBm: lp.InjectionPowerDBm,
				OSNR:     signal.InfiniteOSNR(),
			}
			preBooster = oadm.AddedLightpathState(injected, lp.AddModuleIndex, fiber)
		} else {
			prev := lp.Route[i-1]
			afterPreamp := applyAmplifier(prevEnd, prev.Preamp)
			preBooster = oadm.ExpressLightpathState(afterPreamp, prev, fiber)
		}
		if target := fiber.EqualizationTargetMwPerGHz; target != nil {
			preBooster.PowerDBm = signal.Linear2DB(
				float64(len(lp.SlotIDs)) * (*target) * signal.SlotWidthGHz)
		}

		postBooster := applyAmplifier(preBooster, fiber.Booster)

		// OSNR entering the fiber: for the first fiber only the booster can
		// have added noise; afterwards the carried OSNR combines with the
		// previous preamplifier and this booster.
		var startOSNR signal.OSNR
		if first {
			startOSNR = signal.InfiniteOSNR()
			if fiber.Booster != nil {
				startOSNR = signal.AmplifierNoiseOSNR(freqHz, fiber.Booster.NoiseFigureDB, preBooster.PowerDBm)
			}
		} else {
			prev := lp.Route[i-1]
			contribs := []signal.OSNR{prevEnd.OSNR}
			if prev.Preamp != nil {
				contribs = append(contribs,
					signal.AmplifierNoiseOSNR(freqHz, prev.Preamp.NoiseFigureDB, prevEnd.PowerDBm))
			}
			if fiber.Booster != nil {
				contribs = append(contribs,
					signal.AmplifierNoiseOSNR(freqHz, fiber.Booster.NoiseFigureDB, preBooster.PowerDBm))
			}
			startOSNR = signal.AccumulateOSNR(contribs...)
		}
		postBooster.OSNR = startOSNR

		// Inline OLAs by increasing position. Each input state attenuates
		// the post-booster state over the distance covered so far, plus the
		// gains and compensations of the OLAs already passed.
		contribs := []signal.OSNR{startOSNR}
		ampPairs := make([]statePair, 0, len(fiber.Amplifiers))
		gainSoFar, cdSoFar, pmd2SoFar := 0.0, 0.0, 0.0
		for _, ola := range fiber.Amplifiers {
			in := signal.State{
				PowerDBm:      postBooster.PowerDBm - ola.PositionKm*fiber.AttenuationDBPerKm + gainSoFar,
				CdPsPerNm:     postBooster.CdPsPerNm + ola.PositionKm*fiber.CdPsPerNmKm + cdSoFar,
				PmdSquaredPs2: postBooster.PmdSquaredPs2 + ola.PositionKm*fiber.PmdPsPerSqrtKm*fiber.PmdPsPerSqrtKm + pmd2SoFar,
				OSNR:          signal.AccumulateOSNR(contribs...),
			}
			contribs = append(contribs, signal.AmplifierNoiseOSNR(freqHz, ola.NoiseFigureDB, in.PowerDBm))
			out := signal.State{
				PowerDBm:      in.PowerDBm + ola.GainDB,
				CdPsPerNm:     in.CdPsPerNm + ola.CdCompensationPsPerNm,
				PmdSquaredPs2: in.PmdSquaredPs2 + ola.PmdPs*ola.PmdPs,
				OSNR:          signal.AccumulateOSNR(contribs...),
			}
			ampPairs = append(ampPairs, statePair{in: in, out: out})
			gainSoFar += ola.GainDB
			cdSoFar += ola.CdCompensationPsPerNm
			pmd2SoFar += ola.PmdPs * ola.PmdPs
		}

		end := signal.State{
			PowerDBm:      postBooster.PowerDBm + fiber.TotalInlineGainDB() - fiber.TotalAttenuationDB(),
			CdPsPerNm:     postBooster.CdPsPerNm + fiber.TotalCdBalancePsPerNm(),
			PmdSquaredPs2: postBooster.PmdSquaredPs2 + fiber.TotalPmdSquaredBalancePs2(),
			OSNR:          signal.AccumulateOSNR(contribs...),
		}

		key := fiberLpKey{fiber: fiber.ID, lp: lp.ID}
		perf.boundary[key] = statePair{in: postBooster, out: end}
		perf.amps[key] = ampPairs
		prevEnd = end
	}
}

// receiverState applies the last fiber's preamplifier and the destination
// switch fabric to the final output-boundary state.
func (e *Engine) receiverState(lp *topology.Lightpath, perf *Performance) {
	freqHz := lp.CentralFrequencyTHz() * 1e12
	last := lp.Route[len(lp.Route)-1]
	end := perf.boundary[fiberLpKey{fiber: last.ID, lp: lp.ID}].out

	s := applyAmplifier(end, last.Preamp)
	oadm := last.Dest.OADM
	s.PowerDBm -= oadm.SwitchFabricAttenuationDB()
	s.PmdSquaredPs2 += oadm.SwitchFabricPmdPs() * oadm.SwitchFabricPmdPs()

	contribs := []signal.OSNR{end.OSNR}
	if last.Preamp != nil {
		contribs = append(contribs,
			signal.AmplifierNoiseOSNR(freqHz, last.Preamp.NoiseFigureDB, end.PowerDBm))
	}
	s.OSNR = signal.AccumulateOSNR(contribs...)

	perf.receiver[lp.ID] = s
}

// aggregatePower sums, in the linear domain, the per-lightpath boundary
// powers of every traversing lightpath, then derives the OLA profile by
// attenuating and amplifying the fiber-start aggregate along the chain. The
// profile is deliberately not the sum of the per-lightpath per-OLA records.
func (e *Engine) aggregatePower(f *topology.Fiber, perf *Performance) {
	linStart, linEnd := 0.0, 0.0
	for _, lp := range e.net.TraversingLightpaths(f) {
		pair := perf.boundary[fiberLpKey{fiber: f.ID, lp: lp.ID}]
		linStart += signal.DB2Linear(pair.in.PowerDBm)
		linEnd += signal.DB2Linear(pair.out.PowerDBm)
	}

	agg := fiberAggregate{
		startDBm:  signal.Linear2DB(linStart),
		endDBm:    signal.Linear2DB(linEnd),
		olaInDBm:  make([]float64, 0, len(f.Amplifiers)),
		olaOutDBm: make([]float64, 0, len(f.Amplifiers)),
	}
	gainSoFar := 0.0
	for _, ola := range f.Amplifiers {
		in := agg.startDBm - ola.PositionKm*f.AttenuationDBPerKm + gainSoFar
		agg.olaInDBm = append(agg.olaInDBm, in)
		agg.olaOutDBm = append(agg.olaOutDBm, in+ola.GainDB)
		gainSoFar += ola.GainDB
	}
	perf.aggregate[f.ID] = agg
}

// checkInvariants verifies the snapshot is complete and consistent with the
// topology: every fiber tracks exactly its traversing lightpaths, each with
// one record per declared inline amplifier.
func (p *Performance) checkInvariants(net *topology.Network) error {
	tracked := make(map[string]int)
	for key := range p.boundary {
		tracked[key.fiber]++
	}
	for _, f := range net.Fibers {
		lps := net.TraversingLightpaths(f)
		if tracked[f.ID] != len(lps) {
			return fmt.Errorf("%w: fiber %s tracks %d lightpaths, topology declares %d",
				ErrInvariant, f.ID, tracked[f.ID], len(lps))
		}
		for _, lp := range lps {
			key := fiberLpKey{fiber: f.ID, lp: lp.ID}
			if _, ok := p.boundary[key]; !ok {
				return fmt.Errorf("%w: no boundary record for lightpath %s on fiber %s",
					ErrInvariant, lp.ID, f.ID)
			}
			if got := len(p.amps[key]); got != len(f.Amplifiers) {
				return fmt.Errorf("%w: lightpath %s on fiber %s has %d amplifier records, fiber declares %d",
					ErrInvariant, lp.ID, f.ID, got, len(f.Amplifiers))
			}
		}
		if agg, ok := p.aggregate[f.ID]; !ok || len(agg.olaInDBm) != len(f.Amplifiers) {
			return fmt.Errorf("%w: incomplete aggregate power profile for fiber %s", ErrInvariant, f.ID)
		}
	}
	return nil
}
