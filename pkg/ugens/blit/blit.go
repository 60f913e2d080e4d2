// Package blit implements a bandlimited impulse train oscillator after
// Stilson and Smith, "Alias-free digital synthesis of classic analog
// waveforms" (ICMC 1996).
package blit

import "math"

// Defaults
const (
	DefaultFreq = 220.0
	MinFreq     = 1.0
)

const epsilon = 1e-12

// Blit generates a bandlimited impulse train
type Blit struct {
	srate     float64
	freq      float64
	harmonics int64

	// period in samples
	p float64
	// odd number of harmonics in use
	m float64

	phase  float64
	update float64
}

// New creates an oscillator at 220 Hz using every harmonic below Nyquist
func New(srate float64) *Blit {
	b := &Blit{srate: srate}
	b.SetFreq(DefaultFreq)
	return b
}

// SetFreq sets the impulse rate, clamped to [MinFreq, srate/2]
func (b *Blit) SetFreq(freq float64) {
	b.freq = math.Min(math.Max(freq, MinFreq), b.srate/2)
	b.p = b.srate / b.freq
	b.update = 1 / b.p
	b.updateHarmonics()
}

// Freq returns the impulse rate in Hz
func (b *Blit) Freq() float64 {
	return b.freq
}

// SetHarmonics limits the number of harmonics. Zero or less selects the
// maximum that fits below Nyquist.
func (b *Blit) SetHarmonics(n int64) {
	if n < 0 {
		n = 0
	}
	b.harmonics = n
	b.updateHarmonics()
}

// Harmonics returns the harmonics setting, zero meaning maximum
func (b *Blit) Harmonics() int64 {
	return b.harmonics
}

func (b *Blit) updateHarmonics() {
	full := floorOdd(b.p)
	if b.harmonics > 0 {
		b.m = math.Min(float64(2*b.harmonics+1), full)
		return
	}
	b.m = full
}

// Phase returns the normalized phase in [0, 1]
func (b *Blit) Phase() float64 {
	return b.phase
}

// Reset restarts the train at phase zero
func (b *Blit) Reset() {
	b.phase = 0
}

// Tick returns the next sample
func (b *Blit) Tick() float64 {
	var y float64
	denom := math.Sin(math.Pi * b.phase)
	if denom < epsilon {
		y = 1
	} else {
		y = math.Sin(b.m*math.Pi*b.phase) / (b.p * denom)
	}

	b.phase = wrapUnder(b.phase+b.update, 1)
	return y
}

// wrapUnder subtracts limit from x until it is no greater than limit
func wrapUnder(x, limit float64) float64 {
	for x > limit {
		x -= limit
	}
	return x
}

// floorOdd returns the largest odd integer not greater than x+1
func floorOdd(x float64) float64 {
	return 2*math.Floor(x/2) + 1
}
