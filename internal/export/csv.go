package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/optiqa/wdmsim/internal/engine"
	"github.com/optiqa/wdmsim/internal/signal"
	"github.com/optiqa/wdmsim/internal/topology"
)

func fmtOSNR(o signal.OSNR) string {
	if dB, measured := o.DB(); measured {
		return strconv.FormatFloat(dB, 'f', 6, 64)
	}
	return ""
}

func stateRow(fiberID, lpID, stage string, idx int, posKm float64, s signal.State) []string {
	return []string{
		fiberID, lpID, stage, strconv.Itoa(idx),
		strconv.FormatFloat(posKm, 'f', 3, 64),
		strconv.FormatFloat(s.PowerDBm, 'f', 6, 64),
		strconv.FormatFloat(s.CdPsPerNm, 'f', 6, 64),
		strconv.FormatFloat(s.PmdPs(), 'f', 6, 64),
		fmtOSNR(s.OSNR),
	}
}

// WriteCSV writes one row per tracked signal state: fiber boundaries and
// every inline amplifier input/output, for every traversing lightpath.
// Empty OSNR cells mean no noise source was crossed yet.
func WriteCSV(w io.Writer, net *topology.Network, perf *engine.Performance) error {
	cw := csv.NewWriter(w)
	header := []string{"fiber", "lightpath", "stage", "amp_index", "position_km", "power_dbm", "cd_ps_per_nm", "pmd_ps", "osnr_db"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, f := range net.Fibers {
		for _, lp := range net.TraversingLightpaths(f) {
			start, end, ok := perf.LightpathStateAtFiberEnds(f, lp)
			if !ok {
				continue
			}
			if err := cw.Write(stateRow(f.ID, lp.ID, "fiber_start", -1, 0, start)); err != nil {
				return err
			}
			for i, ola := range f.Amplifiers {
				in, out, err := perf.LightpathStateAtAmplifier(f, lp, i)
				if err != nil {
					return fmt.Errorf("fiber %s lightpath %s: %w", f.ID, lp.ID, err)
				}
				if err := cw.Write(stateRow(f.ID, lp.ID, "ola_input", i, ola.PositionKm, in)); err != nil {
					return err
				}
				if err := cw.Write(stateRow(f.ID, lp.ID, "ola_output", i, ola.PositionKm, out)); err != nil {
					return err
				}
			}
			if err := cw.Write(stateRow(f.ID, lp.ID, "fiber_end", -1, f.LengthKm, end)); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
