package topology

// Amplifier models one EDFA stage: an inline OLA, an origin booster or a
// destination preamplifier. PositionKm is measured from the fiber origin and
// only meaningful for inline amplifiers.
type Amplifier struct {
	PositionKm            float64
	GainDB                float64
	NoiseFigureDB         float64
	PmdPs                 float64
	CdCompensationPsPerNm float64
	MinOutputPowerDBm     float64
	MaxOutputPowerDBm     float64
}

// Fiber is one amplified WDM link between two OADM nodes.
type Fiber struct {
	ID     string
	Origin *Node
	Dest   *Node

	LengthKm           float64
	AttenuationDBPerKm float64
	CdPsPerNmKm        float64
	PmdPsPerSqrtKm     float64

	Booster *Amplifier
	Preamp  *Amplifier
	// Amplifiers holds the inline OLAs, ordered by increasing position.
	Amplifiers []Amplifier

	// EqualizationTargetMwPerGHz, when set, makes the origin OADM equalize
	// every outgoing channel to this spectral density before the booster,
	// regardless of the power the channel arrives with.
	EqualizationTargetMwPerGHz *float64
}

// TotalInlineGainDB is the summed gain of all inline OLAs.
func (f *Fiber) TotalInlineGainDB() float64 {
	total := 0.0
	for _, a := range f.Amplifiers {
		total += a.GainDB
	}
	return total
}

// TotalAttenuationDB is the passive attenuation over the full length.
func (f *Fiber) TotalAttenuationDB() float64 {
	return f.AttenuationDBPerKm * f.LengthKm
}

// TotalCdBalancePsPerNm is the distributed chromatic dispersion plus every
// inline compensation.
func (f *Fiber) TotalCdBalancePsPerNm() float64 {
	total := f.CdPsPerNmKm * f.LengthKm
	for _, a := range f.Amplifiers {
		total += a.CdCompensationPsPerNm
	}
	return total
}

// TotalPmdSquaredBalancePs2 is the squared PMD the full fiber adds: the
// distributed design coefficient over the length plus every inline OLA
// contribution, all in quadrature.
func (f *Fiber) TotalPmdSquaredBalancePs2() float64 {
	total := f.LengthKm * f.PmdPsPerSqrtKm * f.PmdPsPerSqrtKm
	for _, a := range f.Amplifiers {
		total += a.PmdPs * a.PmdPs
	}
	return total
}
