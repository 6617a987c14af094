package report

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/optiqa/wdmsim/internal/engine"
	"github.com/optiqa/wdmsim/internal/topology"
)

// samplePower evaluates the power at distance x from the fiber start, given
// the power entering the fiber: linear attenuation in dB, with a jump at
// every inline amplifier already passed.
func samplePower(f *topology.Fiber, startDBm, x float64) float64 {
	p := startDBm - f.AttenuationDBPerKm*x
	for _, ola := range f.Amplifiers {
		if ola.PositionKm <= x {
			p += ola.GainDB
		}
	}
	return p
}

// ProfileSamples returns the power of one lightpath sampled along a fiber.
func ProfileSamples(f *topology.Fiber, lp *topology.Lightpath, perf *engine.Performance, samples int) ([]float64, error) {
	start, _, ok := perf.LightpathStateAtFiberEnds(f, lp)
	if !ok {
		return nil, fmt.Errorf("lightpath %s does not traverse fiber %s", lp.ID, f.ID)
	}
	if samples < 2 {
		samples = 81
	}
	data := make([]float64, samples)
	for i := range data {
		x := f.LengthKm * float64(i) / float64(samples-1)
		data[i] = samplePower(f, start.PowerDBm, x)
	}
	return data, nil
}

// AggregateProfileSamples returns the total co-propagating power sampled
// along a fiber.
func AggregateProfileSamples(f *topology.Fiber, perf *engine.Performance, samples int) []float64 {
	start, _, _ := perf.TotalPowerAtFiberEnds(f)
	if samples < 2 {
		samples = 81
	}
	data := make([]float64, samples)
	for i := range data {
		x := f.LengthKm * float64(i) / float64(samples-1)
		data[i] = samplePower(f, start, x)
	}
	return data
}

// PowerProfile renders an ascii chart of one lightpath's power along a fiber.
func PowerProfile(f *topology.Fiber, lp *topology.Lightpath, perf *engine.Performance, samples int) (string, error) {
	data, err := ProfileSamples(f, lp, perf, samples)
	if err != nil {
		return "", err
	}
	graph := asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s on %s: power (dBm) over %.0f km", lp.ID, f.ID, f.LengthKm)),
	)
	return graph, nil
}
