package korg35

import (
	"github.com/justyntemme/chuckgo/pkg/chuck"
	"github.com/justyntemme/chuckgo/pkg/chugin"
)

// ClassName is the name the filter is registered under
const ClassName = "Korg35"

// Class describes the Korg35 unit generator. The sample rate is read from
// the chugin configuration when an instance is constructed.
func Class() *chugin.Class[Filter] {
	return chugin.NewClass(ClassName, chuck.ParentUGen, func() *Filter {
		return New(chugin.SampleRate())
	}).
		Doc("Virtual analog Korg35 lowpass filter after Will Pirkle.").
		Tick(1, 1, func(f *Filter, in chuck.Sample) chuck.Sample {
			return chuck.Sample(f.Tick(float64(in)))
		}).
		FloatProperty("freq", "f", (*Filter).Freq, (*Filter).SetFreq).
		FloatProperty("K", "K", (*Filter).K, (*Filter).SetK).
		FloatProperty("saturation", "s", (*Filter).Saturation, (*Filter).SetSaturation).
		IntProperty("saturator", "type",
			func(f *Filter) int64 { return int64(f.Saturator()) },
			func(f *Filter, v int64) { f.SetSaturator(Saturator(v)) })
}
