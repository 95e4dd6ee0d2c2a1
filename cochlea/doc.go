// Package cochlea implements a nonlinear transmission-line model of the
// mammalian cochlea.
//
// The basilar membrane is discretized into n+1 coupled sections, each a
// damped oscillator whose resonance frequency follows a Greenwood map. The
// sections are coupled through a tridiagonal system solved at every
// derivative evaluation; an embedded Dormand-Prince 4(5) integrator advances
// the section velocities and displacements through the stimulus one sample
// at a time. Active feedback with a level-dependent, delayed impedance
// (Zweig/Shera) provides the compressive nonlinearity of the healthy
// cochlea.
//
// Typical use:
//
//	var m cochlea.Model
//	err := m.Init(cochlea.Config{
//		Stimulus:        stim, // pascals
//		SampleRate:      100e3,
//		Sections:        1000,
//		Probes:          cochlea.ProbeFrequencies(500, 1000, 4000),
//		PoleBase:        0.06,
//		IrregularityPct: 0.05,
//		Nonlinearity:    cochlea.NonlinearityVelocity,
//		Subject:         1,
//	})
//	...
//	res, err := m.Solve(ctx)
//
// A Model instance is not safe for concurrent use, but distinct instances
// share no state: each seeds its own random generator from Config.Subject,
// so independent channels may be solved in parallel without coordination.
package cochlea
