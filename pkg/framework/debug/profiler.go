package debug

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Profiler times named callbacks (ctor, tick, method calls) and keeps a ring
// of recent durations for percentiles.
type Profiler struct {
	mu           sync.RWMutex
	measurements map[string]*Measurement
	enabled      atomic.Bool
	window       int
}

// Measurement holds timing statistics for one name.
type Measurement struct {
	Name  string        `json:"name"`
	Count uint64        `json:"count"`
	Total time.Duration `json:"total_ns"`
	Min   time.Duration `json:"min_ns"`
	Max   time.Duration `json:"max_ns"`
	Last  time.Duration `json:"last_ns"`

	recent []time.Duration
	next   int
}

// DefaultProfiler is the global profiler instance.
var DefaultProfiler = NewProfiler(1024)

// NewProfiler creates a profiler keeping the last window durations per name.
func NewProfiler(window int) *Profiler {
	if window <= 0 {
		window = 1
	}
	p := &Profiler{
		measurements: make(map[string]*Measurement),
		window:       window,
	}
	p.enabled.Store(true)
	return p
}

// SetEnabled enables or disables profiling.
func (p *Profiler) SetEnabled(enabled bool) {
	p.enabled.Store(enabled)
}

// IsEnabled returns whether profiling is enabled.
func (p *Profiler) IsEnabled() bool {
	return p.enabled.Load()
}

// Start begins timing name; call the returned function to stop.
func (p *Profiler) Start(name string) func() {
	if !p.enabled.Load() {
		return func() {}
	}
	start := time.Now()
	return func() {
		p.Record(name, time.Since(start))
	}
}

// Time runs fn and records how long it took.
func (p *Profiler) Time(name string, fn func()) {
	stop := p.Start(name)
	defer stop()
	fn()
}

// Record adds one duration for name.
func (p *Profiler) Record(name string, elapsed time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	m, ok := p.measurements[name]
	if !ok {
		m = &Measurement{Name: name, Min: elapsed, Max: elapsed}
		p.measurements[name] = m
	}

	m.Count++
	m.Total += elapsed
	m.Last = elapsed
	m.Min = min(m.Min, elapsed)
	m.Max = max(m.Max, elapsed)

	if len(m.recent) < p.window {
		m.recent = append(m.recent, elapsed)
	} else {
		m.recent[m.next] = elapsed
	}
	m.next = (m.next + 1) % p.window
}

// Measurement returns a copy of the statistics for name.
func (p *Profiler) Measurement(name string) (Measurement, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	m, ok := p.measurements[name]
	if !ok {
		return Measurement{}, false
	}
	return m.clone(), true
}

// Measurements returns copies of all statistics, sorted by name.
func (p *Profiler) Measurements() []Measurement {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]Measurement, 0, len(p.measurements))
	for _, m := range p.measurements {
		out = append(out, m.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Reset clears all measurements.
func (p *Profiler) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.measurements = make(map[string]*Measurement)
}

// Report formats every measurement as one line.
func (p *Profiler) Report() string {
	ms := p.Measurements()
	if len(ms) == 0 {
		return "no measurements\n"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%-16s %8s %12s %12s %12s %12s\n", "name", "count", "mean", "min", "max", "p99")
	for _, m := range ms {
		fmt.Fprintf(&sb, "%-16s %8d %12v %12v %12v %12v\n",
			m.Name, m.Count, m.Mean(), m.Min, m.Max, m.Percentile(99))
	}
	return sb.String()
}

func (m *Measurement) clone() Measurement {
	c := *m
	c.recent = append([]time.Duration(nil), m.recent...)
	return c
}

// Mean returns the average duration.
func (m Measurement) Mean() time.Duration {
	if m.Count == 0 {
		return 0
	}
	return m.Total / time.Duration(m.Count)
}

// Percentile returns the pth percentile (0..100) of the recent window.
func (m Measurement) Percentile(p float64) time.Duration {
	if len(m.recent) == 0 {
		return 0
	}
	sorted := append([]time.Duration(nil), m.recent...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	p = min(max(p, 0), 100)
	return sorted[int(float64(len(sorted)-1)*p/100)]
}

// RealtimeLoad returns the mean duration as a percentage of one sample
// period at srate. Above 100 a tick cannot keep up with real time.
func (m Measurement) RealtimeLoad(srate float64) float64 {
	if srate <= 0 {
		return 0
	}
	period := float64(time.Second) / srate
	return float64(m.Mean()) / period * 100
}

// Start begins timing name using the default profiler.
func Start(name string) func() {
	return DefaultProfiler.Start(name)
}

// Time measures fn using the default profiler.
func Time(name string, fn func()) {
	DefaultProfiler.Time(name, fn)
}

// ProfilingReport returns the default profiler's report.
func ProfilingReport() string {
	return DefaultProfiler.Report()
}
