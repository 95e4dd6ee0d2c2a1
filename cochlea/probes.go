package cochlea

import (
	"fmt"
	"math"
)

type probeKind int

const (
	probeAll probeKind = iota
	probeHalf
	probeList
)

// ProbeSpec selects which membrane sections are sampled into the output
// trajectory. The zero value behaves like ProbeAll.
type ProbeSpec struct {
	kind  probeKind
	freqs []float64
}

// ProbeAll samples every non-boundary section.
func ProbeAll() ProbeSpec {
	return ProbeSpec{kind: probeAll}
}

// ProbeHalf samples every other non-boundary section.
func ProbeHalf() ProbeSpec {
	return ProbeSpec{kind: probeHalf}
}

// ProbeFrequencies samples the section whose resonance frequency is nearest
// to each target, in the order given. Ties resolve to the lower section
// index.
func ProbeFrequencies(freqs ...float64) ProbeSpec {
	return ProbeSpec{kind: probeList, freqs: freqs}
}

// resolve maps the spec onto the resonance-frequency array (one entry per
// grid point, descending from base to apex). It returns the selected section
// indices and their center frequencies.
func (p ProbeSpec) resolve(fres []float64) ([]int, []float64, error) {
	n1 := len(fres)

	switch p.kind {
	case probeHalf:
		var idx []int
		for i := 1; i < n1; i += 2 {
			idx = append(idx, i)
		}
		return idx, centersFor(idx, fres), nil

	case probeList:
		idx := make([]int, len(p.freqs))
		for k, target := range p.freqs {
			if math.IsNaN(target) || math.IsInf(target, 0) || target <= 0 {
				return nil, nil, fmt.Errorf("%w: target %v Hz", ErrInvalidProbeSpec, target)
			}
			if target > fres[0] || target < fres[n1-1] {
				return nil, nil, fmt.Errorf("%w: target %v Hz outside resonance range [%.4g, %.4g] Hz",
					ErrInvalidProbeSpec, target, fres[n1-1], fres[0])
			}

			best := 0
			bestDiff := math.Abs(fres[0] - target)
			for i := 1; i < n1; i++ {
				if d := math.Abs(fres[i] - target); d < bestDiff {
					best, bestDiff = i, d
				}
			}
			idx[k] = best
		}
		return idx, centersFor(idx, fres), nil

	default: // probeAll
		idx := make([]int, n1-1)
		for i := range idx {
			idx[i] = i + 1
		}
		return idx, centersFor(idx, fres), nil
	}
}

func centersFor(idx []int, fres []float64) []float64 {
	cf := make([]float64, len(idx))
	for k, i := range idx {
		cf[k] = fres[i]
	}
	return cf
}
