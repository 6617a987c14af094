package topology

import (
	"errors"
	"fmt"
)

// ErrMissingOADM marks a node that needs a switching architecture but has
// none configured.
var ErrMissingOADM = errors.New("node has no OADM architecture")

// Network is one topology snapshot: nodes, amplified fibers and the
// lightpaths routed over them.
type Network struct {
	Nodes      []*Node
	Fibers     []*Fiber
	Lightpaths []*Lightpath
}

// TraversingLightpaths returns the lightpaths whose route includes the
// fiber, in declaration order.
func (n *Network) TraversingLightpaths(f *Fiber) []*Lightpath {
	var lps []*Lightpath
	for _, lp := range n.Lightpaths {
		if lp.Traverses(f) {
			lps = append(lps, lp)
		}
	}
	return lps
}

func (n *Network) NodeByID(id string) *Node {
	for _, node := range n.Nodes {
		if node.ID == id {
			return node
		}
	}
	return nil
}

func (n *Network) FiberByID(id string) *Fiber {
	for _, f := range n.Fibers {
		if f.ID == id {
			return f
		}
	}
	return nil
}

func (n *Network) LightpathByID(id string) *Lightpath {
	for _, lp := range n.Lightpaths {
		if lp.ID == id {
			return lp
		}
	}
	return nil
}

// Validate checks the topology is propagation-ready: every node carries an
// OADM architecture, routes are non-empty and contiguous, and inline
// amplifiers sit inside their fiber ordered by position.
func (n *Network) Validate() error {
	for _, node := range n.Nodes {
		if node.OADM == nil {
			return fmt.Errorf("%w: %s", ErrMissingOADM, node.ID)
		}
	}
	for _, f := range n.Fibers {
		if f.Origin == nil || f.Dest == nil {
			return fmt.Errorf("fiber %s: missing endpoint node", f.ID)
		}
		if f.LengthKm <= 0 {
			return fmt.Errorf("fiber %s: non-positive length", f.ID)
		}
		prev := 0.0
		for i, a := range f.Amplifiers {
			if a.PositionKm < prev || a.PositionKm > f.LengthKm {
				return fmt.Errorf("fiber %s: amplifier %d at %.1f km outside ordered span", f.ID, i, a.PositionKm)
			}
			prev = a.PositionKm
		}
	}
	for _, lp := range n.Lightpaths {
		if len(lp.Route) == 0 {
			return fmt.Errorf("lightpath %s: empty route", lp.ID)
		}
		if len(lp.SlotIDs) == 0 {
			return fmt.Errorf("lightpath %s: no optical slots", lp.ID)
		}
		for i := 1; i < len(lp.Route); i++ {
			if lp.Route[i-1].Dest != lp.Route[i].Origin {
				return fmt.Errorf("lightpath %s: route breaks between %s and %s",
					lp.ID, lp.Route[i-1].ID, lp.Route[i].ID)
			}
		}
	}
	return nil
}
