package korg35

import "math"

// OnePole is a virtual analog one-pole filter (TPT structure). It provides
// lowpass and highpass outputs and exposes its state scaled by B as a
// feedback signal.
type OnePole struct {
	// A is the integrator gain G = g/(1+g)
	A float64
	// B scales the feedback output
	B float64
	// Highpass selects the highpass output of Tick
	Highpass bool

	z1 float64
}

// NewOnePole creates a lowpass one-pole passing everything through
func NewOnePole() *OnePole {
	return &OnePole{A: 1, B: 1}
}

// Reset clears the filter state
func (f *OnePole) Reset() {
	f.z1 = 0
}

// SetCutoff computes A for a cutoff frequency in Hz
func (f *OnePole) SetCutoff(freq, srate float64) {
	g := prewarp(clampFreq(freq, srate), srate)
	f.A = g / (1 + g)
}

// Tick processes one sample
func (f *OnePole) Tick(x float64) float64 {
	v := (x - f.z1) * f.A
	lpf := v + f.z1
	f.z1 = v + lpf

	if f.Highpass {
		return x - lpf
	}
	return lpf
}

// Feedback returns the state contribution to a surrounding feedback loop
func (f *OnePole) Feedback() float64 {
	return f.z1 * f.B
}

// prewarp returns g, the bilinear-transform gain for an analog cutoff
func prewarp(freq, srate float64) float64 {
	T := 1 / srate
	wd := 2 * math.Pi * freq
	wa := (2 / T) * math.Tan(wd*T/2)
	return wa * T / 2
}

func clampFreq(freq, srate float64) float64 {
	return math.Min(math.Max(freq, MinFreq), srate/2)
}
