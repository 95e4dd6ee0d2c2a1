package cochlea

import "math"

// Physical constants of the human cochlea and middle ear, after the Verhulst
// transmission-line formulation. Lengths in meters, frequencies in Hz,
// pressures in pascals.
const (
	cochleaLength     = 0.035
	helicotremaWidth  = 0.001
	scalaWidth        = 0.001
	scalaHeight       = 0.001
	fluidDensity      = 1000.0
	bmMass            = 0.5
	bmImpedanceFactor = 1.0

	// Greenwood place-frequency map: f(x) = A*10^(-alpha*x) - B.
	greenwoodA     = 20682.0
	greenwoodAlpha = 61.765
	greenwoodB     = 140.6

	stapesArea          = 3e-6
	middleEarResistance = 0.30451925e12

	zweigN = 1.5
	// Upper bound on the feedback delay in periods; sizes the delay buffer.
	sheraMuMax = 4.3
	// Constant of the Shera pole-to-parameter map.
	sheraC = 120.8998691636393

	// The saturating nonlinearity works on poles scaled by this factor.
	poleScale = 100.0

	// Reference pressure for SPL, 20 uPa.
	refPressure = 2e-5

	// Passband of the middle-ear (Puria) filter; the emission output filter
	// uses the same band.
	puriaLowHz  = 600.0
	puriaHighHz = 3000.0
	puriaGainDB = 18.0

	// First-stage compression knee points, common to all slopes.
	yKnee1 = 6.9183e-10
	vKnee1 = 4.3652e-6
)

// puriaGain is the input gain of the middle-ear filter.
var puriaGain = 2 * math.Pow(10, puriaGainDB/20)

// kneeTable holds the second compression knee and the reference level that
// anchor the pole ceiling for one compression slope.
type kneeTable struct {
	yKnee2 float64
	vKnee2 float64
	refDB  float64
}

// kneeForSlope returns the knee table for the given compression slope
// (dB/dB). Unknown slopes fall back to the 0.4 table.
func kneeForSlope(slope float64) kneeTable {
	switch slope {
	case 0.2:
		return kneeTable{yKnee2: 3.228e-9, vKnee2: 2.037e-5, refDB: 80.59}
	case 0.3:
		return kneeTable{yKnee2: 7.015e-9, vKnee2: 4.426e-5, refDB: 87.77}
	case 0.5:
		return kneeTable{yKnee2: 1.766e-8, vKnee2: 1.114e-4, refDB: 97.82}
	default:
		return kneeTable{yKnee2: 1.5488e-8, vKnee2: 9.7836e-5, refDB: 97.4}
	}
}

// poleCeiling returns the per-section pole ceiling for the given base pole
// values and knee table. The ceiling follows a fixed line through the
// (30 dB, 0.06) and (refDB, 0.7) operating points.
func poleCeiling(dst, poleBase []float64, kt kneeTable) {
	ax := (0.7 - 0.06) / (kt.refDB - 30)
	for i := range dst {
		dst[i] = ax*kt.refDB + poleBase[i] - ax*30
	}
}
