package topology

import (
	"fmt"
	"math"

	"github.com/optiqa/wdmsim/internal/signal"
)

// Node is one OADM site of the network.
type Node struct {
	ID   string
	Name string
	OADM OADMArchitecture
}

// OADMArchitecture is the switching behaviour of a node. Implementations
// produce the signal state right after the switch fabric, before any booster
// of the outgoing fiber. OSNR bookkeeping stays with the propagation engine;
// architectures only shape power, CD and PMD.
type OADMArchitecture interface {
	Name() string
	// AddedLightpathState transforms the transponder output of a lightpath
	// added at this node towards its first fiber.
	AddedLightpathState(initial signal.State, addModuleIndex int, firstFiber *Fiber) signal.State
	// ExpressLightpathState transforms a pass-through lightpath, given the
	// state after the input fiber's destination preamplifier.
	ExpressLightpathState(afterPreamp signal.State, in, out *Fiber) signal.State
	SwitchFabricAttenuationDB() float64
	SwitchFabricPmdPs() float64
}

// BroadcastAndSelect is the classic OADM architecture: adds pass an add
// module, everything crosses the switch fabric once.
type BroadcastAndSelect struct {
	AddAttenuationDB    float64
	FabricAttenuationDB float64
	FabricPmdPs         float64
}

func (a *BroadcastAndSelect) Name() string { return "broadcast_select" }

func (a *BroadcastAndSelect) AddedLightpathState(initial signal.State, addModuleIndex int, firstFiber *Fiber) signal.State {
	out := initial
	out.PowerDBm -= a.AddAttenuationDB + a.FabricAttenuationDB
	out.PmdSquaredPs2 += a.FabricPmdPs * a.FabricPmdPs
	return out
}

func (a *BroadcastAndSelect) ExpressLightpathState(afterPreamp signal.State, in, out *Fiber) signal.State {
	s := afterPreamp
	s.PowerDBm -= a.FabricAttenuationDB
	s.PmdSquaredPs2 += a.FabricPmdPs * a.FabricPmdPs
	return s
}

func (a *BroadcastAndSelect) SwitchFabricAttenuationDB() float64 { return a.FabricAttenuationDB }
func (a *BroadcastAndSelect) SwitchFabricPmdPs() float64         { return a.FabricPmdPs }

// Filterless is a drop-and-waste architecture: the fabric is a passive
// splitter, so its loss grows with the node degree.
type Filterless struct {
	AddAttenuationDB float64
	BaseLossDB       float64
	FabricPmdPs      float64
	// Degree is the number of output directions fed by the splitter.
	Degree int
}

func (a *Filterless) Name() string { return "filterless" }

func (a *Filterless) splitterLossDB() float64 {
	if a.Degree <= 1 {
		return a.BaseLossDB
	}
	return a.BaseLossDB + 10*math.Log10(float64(a.Degree))
}

func (a *Filterless) AddedLightpathState(initial signal.State, addModuleIndex int, firstFiber *Fiber) signal.State {
	out := initial
	out.PowerDBm -= a.AddAttenuationDB + a.splitterLossDB()
	out.PmdSquaredPs2 += a.FabricPmdPs * a.FabricPmdPs
	return out
}

func (a *Filterless) ExpressLightpathState(afterPreamp signal.State, in, out *Fiber) signal.State {
	s := afterPreamp
	s.PowerDBm -= a.splitterLossDB()
	s.PmdSquaredPs2 += a.FabricPmdPs * a.FabricPmdPs
	return s
}

func (a *Filterless) SwitchFabricAttenuationDB() float64 { return a.splitterLossDB() }
func (a *Filterless) SwitchFabricPmdPs() float64         { return a.FabricPmdPs }

var architectures = map[string]func(params map[string]float64) OADMArchitecture{
	"broadcast_select": func(params map[string]float64) OADMArchitecture {
		return &BroadcastAndSelect{
			AddAttenuationDB:    params["add_attenuation_db"],
			FabricAttenuationDB: params["fabric_attenuation_db"],
			FabricPmdPs:         params["fabric_pmd_ps"],
		}
	},
	"filterless": func(params map[string]float64) OADMArchitecture {
		return &Filterless{
			AddAttenuationDB: params["add_attenuation_db"],
			BaseLossDB:       params["base_loss_db"],
			FabricPmdPs:      params["fabric_pmd_ps"],
			Degree:           int(params["degree"]),
		}
	},
}

// RegisterArchitecture adds a named OADM architecture factory. Registering an
// existing name replaces it.
func RegisterArchitecture(name string, fn func(params map[string]float64) OADMArchitecture) {
	architectures[name] = fn
}

// NewArchitecture builds a registered OADM architecture by name.
func NewArchitecture(name string, params map[string]float64) (OADMArchitecture, error) {
	fn, ok := architectures[name]
	if !ok {
		return nil, fmt.Errorf("unknown OADM architecture: %s", name)
	}
	return fn(params), nil
}

// ListArchitectures returns the registered architecture names.
func ListArchitectures() []string {
	names := make([]string, 0, len(architectures))
	for name := range architectures {
		names = append(names, name)
	}
	return names
}
