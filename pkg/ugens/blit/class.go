package blit

import (
	"github.com/justyntemme/chuckgo/pkg/chuck"
	"github.com/justyntemme/chuckgo/pkg/chugin"
)

// Class names
const (
	ClassName    = "Blit"
	SawClassName = "BlitSaw"
)

// Class describes the Blit unit generator: no input, one output.
func Class() *chugin.Class[Blit] {
	return chugin.NewClass(ClassName, chuck.ParentUGen, func() *Blit {
		return New(chugin.SampleRate())
	}).
		Doc("Bandlimited impulse train after Stilson and Smith.").
		Tick(0, 1, func(b *Blit, _ chuck.Sample) chuck.Sample {
			return chuck.Sample(b.Tick())
		}).
		FloatProperty("freq", "f", (*Blit).Freq, (*Blit).SetFreq).
		IntProperty("harmonics", "n", (*Blit).Harmonics, (*Blit).SetHarmonics).
		FloatGetter("phase", (*Blit).Phase)
}

// SawClass describes the BlitSaw unit generator
func SawClass() *chugin.Class[Saw] {
	return chugin.NewClass(SawClassName, chuck.ParentUGen, func() *Saw {
		return NewSaw(chugin.SampleRate())
	}).
		Doc("Bandlimited sawtooth from an integrated impulse train.").
		Tick(0, 1, func(s *Saw, _ chuck.Sample) chuck.Sample {
			return chuck.Sample(s.Tick())
		}).
		FloatProperty("freq", "f", (*Saw).Freq, (*Saw).SetFreq).
		IntProperty("harmonics", "n", (*Saw).Harmonics, (*Saw).SetHarmonics)
}
