package export

import (
	"encoding/json"
	"io"

	"github.com/optiqa/wdmsim/internal/engine"
	"github.com/optiqa/wdmsim/internal/topology"
)

// Document is the JSON form of one performance snapshot.
type Document struct {
	Lightpaths []LightpathReport `json:"lightpaths"`
	Fibers     []FiberReport     `json:"fibers"`
}

type LightpathReport struct {
	ID                  string   `json:"id"`
	CentralFrequencyTHz float64  `json:"central_frequency_thz"`
	Hops                int      `json:"hops"`
	RxPowerDBm          float64  `json:"rx_power_dbm"`
	RxCdPsPerNm         float64  `json:"rx_cd_ps_per_nm"`
	RxPmdPs             float64  `json:"rx_pmd_ps"`
	// RxOsnrDB is null when the path crossed no noise source.
	RxOsnrDB *float64 `json:"rx_osnr_db"`
}

type FiberReport struct {
	ID                 string    `json:"id"`
	LengthKm           float64   `json:"length_km"`
	StartPowerDBm      float64   `json:"start_power_dbm"`
	EndPowerDBm        float64   `json:"end_power_dbm"`
	OlaInputPowersDBm  []float64 `json:"ola_input_powers_dbm"`
	OlaOutputPowersDBm []float64 `json:"ola_output_powers_dbm"`
	FeasiblePower      bool      `json:"feasible_power"`
}

// BuildDocument collects the snapshot into an exportable document.
func BuildDocument(net *topology.Network, perf *engine.Performance) *Document {
	doc := &Document{}
	for _, lp := range net.Lightpaths {
		recv, ok := perf.ReceiverState(lp)
		if !ok {
			continue
		}
		rep := LightpathReport{
			ID:                  lp.ID,
			CentralFrequencyTHz: lp.CentralFrequencyTHz(),
			Hops:                len(lp.Route),
			RxPowerDBm:          recv.PowerDBm,
			RxCdPsPerNm:         recv.CdPsPerNm,
			RxPmdPs:             recv.PmdPs(),
		}
		if dB, measured := recv.OSNR.DB(); measured {
			v := dB
			rep.RxOsnrDB = &v
		}
		doc.Lightpaths = append(doc.Lightpaths, rep)
	}
	for _, f := range net.Fibers {
		start, end, _ := perf.TotalPowerAtFiberEnds(f)
		doc.Fibers = append(doc.Fibers, FiberReport{
			ID:                 f.ID,
			LengthKm:           f.LengthKm,
			StartPowerDBm:      start,
			EndPowerDBm:        end,
			OlaInputPowersDBm:  perf.TotalPowerAtAmplifierInputsDBm(f),
			OlaOutputPowersDBm: perf.TotalPowerAtAmplifierOutputsDBm(f),
			FeasiblePower:      perf.FeasibleAmplifierInputPower(f),
		})
	}
	return doc
}

// WriteJSON writes the snapshot as an indented JSON document.
func WriteJSON(w io.Writer, net *topology.Network, perf *engine.Performance) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildDocument(net, perf))
}
