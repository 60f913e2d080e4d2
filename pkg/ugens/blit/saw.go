package blit

import "math"

// DCBlocker is a first-order highpass: y[n] = x[n] - x[n-1] + R*y[n-1].
type DCBlocker struct {
	r      float64
	x1, y1 float64
}

// NewDCBlocker creates a blocker with the given cutoff. R is kept within
// [0.9, 0.999] for stability.
func NewDCBlocker(cutoff, srate float64) *DCBlocker {
	r := 1 - 2*math.Pi*cutoff/srate
	return &DCBlocker{r: math.Min(math.Max(r, 0.9), 0.999)}
}

// Tick processes one sample
func (d *DCBlocker) Tick(x float64) float64 {
	y := x - d.x1 + d.r*d.y1
	d.x1 = x
	d.y1 = y
	return y
}

// Reset clears the blocker state
func (d *DCBlocker) Reset() {
	d.x1, d.y1 = 0, 0
}

// Leak of the integrator turning the impulse train into a ramp
const leak = 0.999

// Saw is a bandlimited sawtooth: a DC-free impulse train through a leaky
// integrator, then a DC blocker.
type Saw struct {
	*Blit
	state float64
	dc    *DCBlocker
}

// NewSaw creates a sawtooth at 220 Hz
func NewSaw(srate float64) *Saw {
	return &Saw{
		Blit: New(srate),
		dc:   NewDCBlocker(5, srate),
	}
}

// Tick returns the next sample
func (s *Saw) Tick() float64 {
	x := s.Blit.Tick() - 1/s.p
	s.state = leak*s.state + x
	return s.dc.Tick(s.state)
}

// Reset restarts the waveform
func (s *Saw) Reset() {
	s.Blit.Reset()
	s.state = 0
	s.dc.Reset()
}
