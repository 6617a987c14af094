package engine

import (
	"errors"
	"fmt"

	"github.com/optiqa/wdmsim/internal/signal"
	"github.com/optiqa/wdmsim/internal/topology"
)

var (
	// ErrAmplifierIndex marks a query for an amplifier index the fiber does
	// not declare.
	ErrAmplifierIndex = errors.New("amplifier index out of range")
	// ErrInvariant marks a post-recompute consistency failure; the snapshot
	// must not be trusted.
	ErrInvariant = errors.New("performance invariant violation")
)

type fiberLpKey struct {
	fiber string
	lp    string
}

type statePair struct {
	in  signal.State
	out signal.State
}

type fiberAggregate struct {
	startDBm  float64
	endDBm    float64
	olaInDBm  []float64
	olaOutDBm []float64
}

// Performance is the memoized result of one Recompute run: a read-only
// cache of signal states at every relevant point of the network. It holds
// no reference to live topology state and is safe for concurrent reads.
type Performance struct {
	// boundary holds the post-booster fiber-start and pre-preamplifier
	// fiber-end states per (fiber, lightpath).
	boundary map[fiberLpKey]statePair
	// amps holds the input/output states at each inline OLA, ordered by
	// amplifier index.
	amps map[fiberLpKey][]statePair
	// receiver holds the state at the drop transponder of each lightpath.
	receiver map[string]signal.State
	// aggregate holds the linear-summed power of all co-propagating
	// lightpaths per fiber.
	aggregate map[string]fiberAggregate

	// ampCount is the declared inline amplifier count per fiber, for
	// range-checking queries.
	ampCount map[string]int
}

func newPerformance(net *topology.Network) *Performance {
	p := &Performance{
		boundary:  make(map[fiberLpKey]statePair),
		amps:      make(map[fiberLpKey][]statePair),
		receiver:  make(map[string]signal.State),
		aggregate: make(map[string]fiberAggregate),
		ampCount:  make(map[string]int),
	}
	for _, f := range net.Fibers {
		p.ampCount[f.ID] = len(f.Amplifiers)
	}
	return p
}

// LightpathStateAtFiberEnds returns the signal state at the start (after
// the booster) and end (before the preamplifier) of a fiber for one
// lightpath. ok is false when the lightpath does not traverse the fiber;
// that is a legitimate question, not an error.
func (p *Performance) LightpathStateAtFiberEnds(f *topology.Fiber, lp *topology.Lightpath) (start, end signal.State, ok bool) {
	pair, ok := p.boundary[fiberLpKey{fiber: f.ID, lp: lp.ID}]
	return pair.in, pair.out, ok
}

// LightpathStateAtAmplifier returns the signal state at the input and
// output of the idx-th inline amplifier of a fiber for one lightpath.
func (p *Performance) LightpathStateAtAmplifier(f *topology.Fiber, lp *topology.Lightpath, idx int) (in, out signal.State, err error) {
	if idx < 0 || idx >= p.ampCount[f.ID] {
		return signal.State{}, signal.State{}, fmt.Errorf("%w: %d on fiber %s (%d declared)",
			ErrAmplifierIndex, idx, f.ID, p.ampCount[f.ID])
	}
	pairs, ok := p.amps[fiberLpKey{fiber: f.ID, lp: lp.ID}]
	if !ok {
		return signal.State{}, signal.State{}, fmt.Errorf("lightpath %s does not traverse fiber %s", lp.ID, f.ID)
	}
	return pairs[idx].in, pairs[idx].out, nil
}

// ReceiverState returns the signal state at the lightpath's drop
// transponder, after the destination preamplifier and switch fabric.
func (p *Performance) ReceiverState(lp *topology.Lightpath) (signal.State, bool) {
	s, ok := p.receiver[lp.ID]
	return s, ok
}

// TotalPowerAtFiberEnds returns the aggregate power of all co-propagating
// lightpaths at the fiber start and end, in dBm.
func (p *Performance) TotalPowerAtFiberEnds(f *topology.Fiber) (startDBm, endDBm float64, ok bool) {
	agg, ok := p.aggregate[f.ID]
	return agg.startDBm, agg.endDBm, ok
}

// TotalPowerAtAmplifierInputsDBm returns the aggregate power at the input
// of every inline amplifier, by amplifier index.
func (p *Performance) TotalPowerAtAmplifierInputsDBm(f *topology.Fiber) []float64 {
	agg := p.aggregate[f.ID]
	out := make([]float64, len(agg.olaInDBm))
	copy(out, agg.olaInDBm)
	return out
}

// TotalPowerAtAmplifierOutputsDBm returns the aggregate power at the output
// of every inline amplifier, by amplifier index.
func (p *Performance) TotalPowerAtAmplifierOutputsDBm(f *topology.Fiber) []float64 {
	agg := p.aggregate[f.ID]
	out := make([]float64, len(agg.olaOutDBm))
	copy(out, agg.olaOutDBm)
	return out
}

// TotalPowerAtAmplifierInputDBm returns the aggregate power entering one
// inline amplifier.
func (p *Performance) TotalPowerAtAmplifierInputDBm(f *topology.Fiber, idx int) (float64, error) {
	if idx < 0 || idx >= p.ampCount[f.ID] {
		return 0, fmt.Errorf("%w: %d on fiber %s (%d declared)", ErrAmplifierIndex, idx, f.ID, p.ampCount[f.ID])
	}
	return p.aggregate[f.ID].olaInDBm[idx], nil
}

// TotalPowerAtAmplifierOutputDBm returns the aggregate power leaving one
// inline amplifier.
func (p *Performance) TotalPowerAtAmplifierOutputDBm(f *topology.Fiber, idx int) (float64, error) {
	if idx < 0 || idx >= p.ampCount[f.ID] {
		return 0, fmt.Errorf("%w: %d on fiber %s (%d declared)", ErrAmplifierIndex, idx, f.ID, p.ampCount[f.ID])
	}
	return p.aggregate[f.ID].olaOutDBm[idx], nil
}

// FeasibleAmplifierInputPower reports whether every inline amplifier's
// aggregate output power lies within its declared acceptable range,
// boundaries included.
func (p *Performance) FeasibleAmplifierInputPower(f *topology.Fiber) bool {
	agg := p.aggregate[f.ID]
	for i, ola := range f.Amplifiers {
		if i >= len(agg.olaOutDBm) {
			return false
		}
		out := agg.olaOutDBm[i]
		if out < ola.MinOutputPowerDBm || out > ola.MaxOutputPowerDBm {
			return false
		}
	}
	return true
}
