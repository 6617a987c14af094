package report

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/optiqa/wdmsim/internal/engine"
	"github.com/optiqa/wdmsim/internal/topology"
)

var (
	okStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	badStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// fmtDBm renders a power value, hiding the -MaxFloat64 a dark fiber reports.
func fmtDBm(v float64) string {
	if v <= -math.MaxFloat64/2 {
		return "-"
	}
	return fmt.Sprintf("%.2f", v)
}

func fmtDBmList(vals []float64) string {
	if len(vals) == 0 {
		return "-"
	}
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmtDBm(v)
	}
	return strings.Join(parts, " ")
}

// FiberTable writes the per-fiber aggregate power summary.
func FiberTable(w io.Writer, net *topology.Network, perf *engine.Performance) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FIBER\tKM\tLPS\tOLAS\tP IN (dBm)\tP OUT (dBm)\tOLA OUT (dBm)\tPOWER")

	for _, f := range net.Fibers {
		start, end, _ := perf.TotalPowerAtFiberEnds(f)
		status := okStyle.Render("ok")
		if !perf.FeasibleAmplifierInputPower(f) {
			status = badStyle.Render("violation")
		}
		fmt.Fprintf(tw, "%s\t%.0f\t%d\t%d\t%s\t%s\t%s\t%s\n",
			f.ID,
			f.LengthKm,
			len(net.TraversingLightpaths(f)),
			len(f.Amplifiers),
			fmtDBm(start),
			fmtDBm(end),
			fmtDBmList(perf.TotalPowerAtAmplifierOutputsDBm(f)),
			status,
		)
	}
	return tw.Flush()
}

// LightpathTable writes the receiver-end summary of every lightpath.
func LightpathTable(w io.Writer, net *topology.Network, perf *engine.Performance) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LIGHTPATH\tHOPS\tSLOTS\tFREQ (THz)\tRX PWR (dBm)\tRX CD (ps/nm)\tRX PMD (ps)\tRX OSNR")

	for _, lp := range net.Lightpaths {
		recv, ok := perf.ReceiverState(lp)
		if !ok {
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.5f\t%.2f\t%.1f\t%.3f\t%s\n",
			lp.ID,
			len(lp.Route),
			len(lp.SlotIDs),
			lp.CentralFrequencyTHz(),
			recv.PowerDBm,
			recv.CdPsPerNm,
			recv.PmdPs(),
			recv.OSNR,
		)
	}
	return tw.Flush()
}
