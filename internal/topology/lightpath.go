package topology

import "github.com/optiqa/wdmsim/internal/signal"

// Lightpath is an end-to-end optical channel routed over a sequence of
// fibers, occupying a contiguous set of optical slots.
type Lightpath struct {
	ID                string
	SlotIDs           []int
	InjectionPowerDBm float64
	AddModuleIndex    int
	Route             []*Fiber
}

// CentralFrequencyTHz derives the channel's central frequency from the
// occupied slots.
func (lp *Lightpath) CentralFrequencyTHz() float64 {
	if len(lp.SlotIDs) == 0 {
		return signal.SlotZeroCentralFreqTHz
	}
	sum := 0.0
	for _, s := range lp.SlotIDs {
		sum += signal.SlotCentralFreqTHz(s)
	}
	return sum / float64(len(lp.SlotIDs))
}

// Traverses reports whether the lightpath's route includes the fiber.
func (lp *Lightpath) Traverses(f *Fiber) bool {
	for _, hop := range lp.Route {
		if hop == f {
			return true
		}
	}
	return false
}
