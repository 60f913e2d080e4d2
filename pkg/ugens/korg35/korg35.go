// Package korg35 implements the Korg35 lowpass filter as a ChucK unit
// generator, after Will Pirkle's virtual analog model.
package korg35

import "math"

// Parameter limits and defaults
const (
	MinFreq     = 10.0
	DefaultFreq = 500.0
	DefaultK    = 1.5
)

// Saturator shapes the signal inside the feedback loop
type Saturator int

const (
	// SaturateNone leaves the loop linear
	SaturateNone Saturator = iota
	// SaturateTanh applies tanh
	SaturateTanh
)

// Filter is a virtual analog Korg35 lowpass filter
type Filter struct {
	srate float64
	freq  float64
	k     float64

	lpf1 *OnePole
	lpf2 *OnePole
	hpf  *OnePole

	a0    float64
	kNorm float64

	saturation float64
	saturator  Saturator
}

// New creates a filter at the given sample rate with freq 500 and K 1.5
func New(srate float64) *Filter {
	f := &Filter{
		srate:      srate,
		lpf1:       NewOnePole(),
		lpf2:       NewOnePole(),
		hpf:        NewOnePole(),
		a0:         1,
		kNorm:      1,
		saturation: 1,
		saturator:  SaturateTanh,
	}
	f.Set(DefaultFreq, DefaultK)
	return f
}

// Set updates cutoff and resonance. The cutoff is clamped to
// [MinFreq, srate/2].
func (f *Filter) Set(freq, k float64) {
	freq = clampFreq(freq, f.srate)
	f.freq = freq
	f.k = k

	g := prewarp(freq, f.srate)
	G := g / (1 + g)

	f.lpf1.A = G
	f.lpf2.A = G
	f.hpf.A = G

	f.lpf2.B = (k - k*G) / (1 + g)
	f.hpf.B = -1 / (1 + g)

	f.a0 = 1 / (1 - k*G + k*G*G)

	if k > 0 {
		f.kNorm = 1 / k
	} else {
		f.kNorm = 1
	}
}

// SetFreq changes the cutoff, keeping K
func (f *Filter) SetFreq(freq float64) {
	f.Set(freq, f.k)
}

// SetK changes the resonance, keeping the cutoff
func (f *Filter) SetK(k float64) {
	f.Set(f.freq, k)
}

// Freq returns the cutoff in Hz
func (f *Filter) Freq() float64 {
	return f.freq
}

// K returns the resonance
func (f *Filter) K() float64 {
	return f.k
}

// SetSaturation sets the drive into the saturator
func (f *Filter) SetSaturation(s float64) {
	f.saturation = s
}

// Saturation returns the drive into the saturator
func (f *Filter) Saturation() float64 {
	return f.saturation
}

// SetSaturator selects the feedback nonlinearity
func (f *Filter) SetSaturator(s Saturator) {
	if s != SaturateNone {
		s = SaturateTanh
	}
	f.saturator = s
}

// Saturator returns the feedback nonlinearity
func (f *Filter) Saturator() Saturator {
	return f.saturator
}

// Reset clears the filter state
func (f *Filter) Reset() {
	f.lpf1.Reset()
	f.lpf2.Reset()
	f.hpf.Reset()
}

// Tick processes one sample
func (f *Filter) Tick(x float64) float64 {
	y1 := f.lpf1.Tick(x)
	s35 := f.hpf.Feedback() + f.lpf2.Feedback()

	u := f.a0 * (y1 + s35)
	if f.saturator == SaturateTanh {
		u = math.Tanh(u * f.saturation)
	}

	y := f.k * f.lpf2.Tick(u)
	f.hpf.Tick(y)

	return f.kNorm * y
}
