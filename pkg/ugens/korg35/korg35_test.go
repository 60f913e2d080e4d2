package korg35

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/chuckgo/pkg/chugin"
	"github.com/justyntemme/chuckgo/pkg/framework/debug"
	"github.com/justyntemme/chuckgo/pkg/host"
)

const srate = 44100.0

func rms(f *Filter, freq float64, n int) float64 {
	var sum float64
	for i := 0; i < n; i++ {
		x := 0.5 * math.Sin(2*math.Pi*freq*float64(i)/srate)
		y := f.Tick(x)
		if i >= n/2 {
			sum += y * y
		}
	}
	return math.Sqrt(sum / float64(n/2))
}

func TestDefaults(t *testing.T) {
	f := New(srate)
	assert.Equal(t, DefaultFreq, f.Freq())
	assert.Equal(t, DefaultK, f.K())
	assert.Equal(t, SaturateTanh, f.Saturator())
}

func TestFreqClamped(t *testing.T) {
	f := New(srate)

	f.SetFreq(1)
	assert.Equal(t, MinFreq, f.Freq())

	f.SetFreq(30000)
	assert.Equal(t, srate/2, f.Freq())

	f.SetFreq(440)
	assert.Equal(t, 440.0, f.Freq())
	assert.Equal(t, DefaultK, f.K())

	f.SetK(0.5)
	assert.Equal(t, 440.0, f.Freq())
	assert.Equal(t, 0.5, f.K())
}

func TestSilenceInSilenceOut(t *testing.T) {
	f := New(srate)
	for i := 0; i < 1000; i++ {
		assert.Zero(t, f.Tick(0))
	}
}

func TestLowpass(t *testing.T) {
	f := New(srate)
	f.Set(500, 0.01)
	low := rms(f, 50, 8192)

	f.Reset()
	high := rms(f, 15000, 8192)

	assert.Greater(t, low, 10*high)
}

func TestImpulseResponseBounded(t *testing.T) {
	for _, k := range []float64{0.1, 1, 1.9} {
		f := New(srate)
		f.Set(1000, k)
		for i := 0; i < 4096; i++ {
			x := 0.0
			if i == 0 {
				x = 1
			}
			y := f.Tick(x)
			require.False(t, math.IsNaN(y) || math.IsInf(y, 0), "K=%v sample %d", k, i)
		}
	}
}

func TestOnePoleSplitsBands(t *testing.T) {
	lp := NewOnePole()
	lp.SetCutoff(1000, srate)
	hp := NewOnePole()
	hp.SetCutoff(1000, srate)
	hp.Highpass = true

	// A constant input settles on the lowpass output.
	var l, h float64
	for i := 0; i < 10000; i++ {
		l = lp.Tick(1)
		h = hp.Tick(1)
	}
	assert.InDelta(t, 1, l, 1e-6)
	assert.InDelta(t, 0, h, 1e-6)
}

func TestClassInChuckHost(t *testing.T) {
	quiet := debug.New(&bytes.Buffer{}, "test", 0)
	m := chugin.NewModule(ClassName, Class())
	m.SetLogger(quiet)

	vm := host.New(host.WithLogger(quiet))
	require.NoError(t, vm.Load(m))

	inst, err := vm.Instantiate(ClassName)
	require.NoError(t, err)
	defer inst.Destroy()

	ret, err := inst.Call("freq", 1200.0)
	require.NoError(t, err)
	assert.Equal(t, 1200.0, ret.Float())

	ret, err = inst.Call("K", 2)
	require.NoError(t, err)
	assert.Equal(t, 2.0, ret.Float())

	ret, err = inst.Call("freq")
	require.NoError(t, err)
	assert.Equal(t, 1200.0, ret.Float())

	ret, err = inst.Call("saturator", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(SaturateNone), ret.Int())

	out, ok, err := inst.Tick(0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Zero(t, out)
}
