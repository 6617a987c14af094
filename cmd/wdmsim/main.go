package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/optiqa/wdmsim/internal/config"
	"github.com/optiqa/wdmsim/internal/engine"
	"github.com/optiqa/wdmsim/internal/export"
	"github.com/optiqa/wdmsim/internal/report"
	"github.com/optiqa/wdmsim/internal/topology"
	"github.com/optiqa/wdmsim/internal/tui"
)

var (
	preset      string
	fiberID     string
	lightpathID string
	outPath     string
	samples     int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "wdmsim",
		Short: "physical-layer performance simulator for WDM optical networks",
	}
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use a preset topology instead of a file")

	checkCmd := &cobra.Command{
		Use:   "check [topology.yaml]",
		Short: "check amplifier power feasibility",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCheck,
	}

	reportCmd := &cobra.Command{
		Use:   "report [topology.yaml]",
		Short: "print fiber and lightpath performance tables",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runReport,
	}

	profileCmd := &cobra.Command{
		Use:   "profile [topology.yaml]",
		Short: "plot a lightpath's power along one fiber",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runProfile,
	}
	profileCmd.Flags().StringVar(&fiberID, "fiber", "", "fiber id")
	profileCmd.Flags().StringVar(&lightpathID, "lightpath", "", "lightpath id")
	profileCmd.Flags().IntVar(&samples, "samples", 81, "number of samples along the fiber")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [topology.yaml]",
		Short: "export the performance snapshot as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runExportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [topology.yaml]",
		Short: "export per-stage signal states as CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runExportCSV,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [topology.yaml]",
		Short: "render a fiber's total power profile to PNG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPlot,
	}
	plotCmd.Flags().StringVar(&fiberID, "fiber", "", "fiber id")
	plotCmd.Flags().StringVar(&outPath, "out", "profile.png", "output file")

	tuiCmd := &cobra.Command{
		Use:   "tui [topology.yaml]",
		Short: "browse lightpath performance interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTUI,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset topologies",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [topology.yaml]",
		Short: "write a preset topology to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := preset
			if name == "" {
				name = "lab-span"
			}
			cfg := config.GetPreset(name)
			if cfg == nil {
				return fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
			}
			return config.Save(args[0], cfg)
		},
	}

	rootCmd.AddCommand(checkCmd, reportCmd, profileCmd, exportJSONCmd, exportCSVCmd, plotCmd, tuiCmd, presetsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadNetwork resolves the topology from a preset or a YAML file and runs
// one recompute over it.
func loadNetwork(args []string) (*topology.Network, *engine.Performance, error) {
	var cfg *config.Config
	switch {
	case preset != "":
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	case len(args) == 1:
		var err error
		cfg, err = config.Load(args[0])
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load topology: %w", err)
		}
	default:
		return nil, nil, fmt.Errorf("need a topology file or --preset")
	}

	net, err := cfg.Build()
	if err != nil {
		return nil, nil, err
	}
	perf, err := engine.New(net).Recompute()
	if err != nil {
		return nil, nil, err
	}
	return net, perf, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	net, perf, err := loadNetwork(args)
	if err != nil {
		return err
	}
	if err := report.FiberTable(os.Stdout, net, perf); err != nil {
		return err
	}
	violations := 0
	for _, f := range net.Fibers {
		if !perf.FeasibleAmplifierInputPower(f) {
			violations++
		}
	}
	if violations > 0 {
		return fmt.Errorf("%d fiber(s) with amplifier power violations", violations)
	}
	fmt.Println("\nall amplifier output powers within bounds")
	return nil
}

func runReport(cmd *cobra.Command, args []string) error {
	net, perf, err := loadNetwork(args)
	if err != nil {
		return err
	}
	if err := report.FiberTable(os.Stdout, net, perf); err != nil {
		return err
	}
	fmt.Println()
	return report.LightpathTable(os.Stdout, net, perf)
}

func runProfile(cmd *cobra.Command, args []string) error {
	net, perf, err := loadNetwork(args)
	if err != nil {
		return err
	}
	f := net.FiberByID(fiberID)
	if f == nil {
		return fmt.Errorf("unknown fiber: %q", fiberID)
	}
	lp := net.LightpathByID(lightpathID)
	if lp == nil {
		return fmt.Errorf("unknown lightpath: %q", lightpathID)
	}
	graph, err := report.PowerProfile(f, lp, perf, samples)
	if err != nil {
		return err
	}
	fmt.Println(graph)
	return nil
}

func runExportJSON(cmd *cobra.Command, args []string) error {
	net, perf, err := loadNetwork(args)
	if err != nil {
		return err
	}
	return export.WriteJSON(os.Stdout, net, perf)
}

func runExportCSV(cmd *cobra.Command, args []string) error {
	net, perf, err := loadNetwork(args)
	if err != nil {
		return err
	}
	return export.WriteCSV(os.Stdout, net, perf)
}

func runPlot(cmd *cobra.Command, args []string) error {
	net, perf, err := loadNetwork(args)
	if err != nil {
		return err
	}
	f := net.FiberByID(fiberID)
	if f == nil {
		return fmt.Errorf("unknown fiber: %q", fiberID)
	}
	if err := export.PlotPNG(outPath, f, perf); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outPath)
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	net, perf, err := loadNetwork(args)
	if err != nil {
		return err
	}
	return tui.Run(net, perf)
}
