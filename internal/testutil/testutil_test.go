package testutil

import (
	"math"
	"testing"
)

func TestSine(t *testing.T) {
	s := Sine(1000, 48000, 1, 48)
	if len(s) != 48 {
		t.Fatalf("len = %d, want 48", len(s))
	}
	if s[0] != 0 {
		t.Fatalf("s[0] = %v, want 0", s[0])
	}
	if math.Abs(s[12]-1) > 1e-12 {
		t.Fatalf("quarter period = %v, want 1", s[12])
	}
}

func TestNoiseReproducible(t *testing.T) {
	a := Noise(42, 1, 64)
	b := Noise(42, 1, 64)
	if MaxAbsDiff(a, b) != 0 {
		t.Fatal("same seed produced different noise")
	}
	c := Noise(43, 1, 64)
	if MaxAbsDiff(a, c) == 0 {
		t.Fatal("different seeds produced identical noise")
	}
}

func TestImpulseAndSilence(t *testing.T) {
	imp := Impulse(8, 3)
	if imp[3] != 1 || PeakAbs(imp) != 1 {
		t.Fatalf("impulse = %v", imp)
	}
	if !AllZero(Silence(16)) {
		t.Fatal("Silence not all zero")
	}
}

func TestToneBurstRamps(t *testing.T) {
	b := ToneBurst(1000, 48000, 1, 96, 16)
	if b[0] != 0 {
		t.Fatalf("burst start = %v, want 0", b[0])
	}
	if PeakAbs(b) > 1 {
		t.Fatalf("burst peak = %v, want <= 1", PeakAbs(b))
	}
}
