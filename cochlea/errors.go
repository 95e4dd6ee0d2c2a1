package cochlea

import (
	"errors"
	"fmt"
)

// Errors returned by model initialization and solving.
var (
	ErrInvalidProbeSpec       = errors.New("cochlea: probe specification does not resolve to a section")
	ErrNotInitialized         = errors.New("cochlea: model not initialized")
	ErrNumericalInstability   = errors.New("cochlea: numerical instability detected")
	ErrInvalidSectionCount    = errors.New("cochlea: section count must be positive")
	ErrInvalidSampleRate      = errors.New("cochlea: sample rate must exceed twice the middle-ear passband")
	ErrStimulusTooShort       = errors.New("cochlea: stimulus must contain at least 3 samples")
	ErrInvalidIrregularityPct = errors.New("cochlea: irregularity percentage must be in [0,1]")
	ErrInvalidPoleProfile     = errors.New("cochlea: pole profile length must equal sections+1")
)

// SolveError wraps a solver failure with the step and model time at which
// it occurred.
type SolveError struct {
	Step int
	Time float64
	Err  error
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("%v (step %d, t=%gs)", e.Err, e.Step, e.Time)
}

func (e *SolveError) Unwrap() error {
	return e.Err
}
