package debug

import (
	"fmt"
	"math"
	"strings"
)

// SignalAnalyzer summarizes blocks of unit generator output.
type SignalAnalyzer struct {
	ClipThreshold    float32
	DCThreshold      float32
	SilenceThreshold float32
}

// NewSignalAnalyzer returns an analyzer with the usual thresholds.
func NewSignalAnalyzer() *SignalAnalyzer {
	return &SignalAnalyzer{
		ClipThreshold:    0.99,
		DCThreshold:      0.01,
		SilenceThreshold: 0.0001,
	}
}

// SignalStats describes a block of samples. NaN and Inf samples are counted
// and excluded from every other statistic.
type SignalStats struct {
	Samples       int     `json:"samples"`
	Peak          float32 `json:"peak"`
	RMS           float32 `json:"rms"`
	DC            float32 `json:"dc"`
	Clipped       int     `json:"clipped"`
	NonFinite     int     `json:"non_finite"`
	ZeroCrossings int     `json:"zero_crossings"`
	Silent        bool    `json:"silent"`
}

// Analyze computes statistics for buf.
func (a *SignalAnalyzer) Analyze(buf []float32) SignalStats {
	stats := SignalStats{Samples: len(buf)}

	var sum, sumSquares float64
	var last float32
	finite := 0
	for _, s := range buf {
		if math.IsNaN(float64(s)) || math.IsInf(float64(s), 0) {
			stats.NonFinite++
			continue
		}

		abs := float32(math.Abs(float64(s)))
		if abs > stats.Peak {
			stats.Peak = abs
		}
		if abs >= a.ClipThreshold {
			stats.Clipped++
		}
		if finite > 0 && (last < 0) != (s < 0) {
			stats.ZeroCrossings++
		}

		sum += float64(s)
		sumSquares += float64(s) * float64(s)
		last = s
		finite++
	}

	if finite > 0 {
		stats.RMS = float32(math.Sqrt(sumSquares / float64(finite)))
		stats.DC = float32(sum / float64(finite))
	}
	stats.Silent = stats.RMS < a.SilenceThreshold
	return stats
}

// Issues lists the problems found in stats, prefixed with name.
func (a *SignalAnalyzer) Issues(stats SignalStats, name string) []string {
	var issues []string
	if stats.NonFinite > 0 {
		issues = append(issues, fmt.Sprintf("%s: %d non-finite samples", name, stats.NonFinite))
	}
	if stats.Clipped > 0 {
		issues = append(issues, fmt.Sprintf("%s: %d samples at or above %.2f", name, stats.Clipped, a.ClipThreshold))
	}
	if math.Abs(float64(stats.DC)) > float64(a.DCThreshold) {
		issues = append(issues, fmt.Sprintf("%s: DC offset %.3f", name, stats.DC))
	}
	if stats.Peak > 1 {
		issues = append(issues, fmt.Sprintf("%s: peak %.3f exceeds 1.0", name, stats.Peak))
	}
	return issues
}

// Mismatch is the result of comparing a signal against an expected one.
type Mismatch struct {
	Count    int     `json:"count"`
	MaxDiff  float32 `json:"max_diff"`
	MaxIndex int     `json:"max_index"`
}

// CompareSignals counts samples of got that differ from want by more than
// tolerance. Only the common prefix is compared; a length difference counts
// every missing sample.
func CompareSignals(got, want []float32, tolerance float32) Mismatch {
	var m Mismatch
	n := min(len(got), len(want))
	for i := 0; i < n; i++ {
		diff := float32(math.Abs(float64(got[i] - want[i])))
		if !(diff <= tolerance) {
			m.Count++
			if diff > m.MaxDiff || math.IsNaN(float64(diff)) {
				m.MaxDiff = diff
				m.MaxIndex = i
			}
		}
	}
	m.Count += max(len(got), len(want)) - n
	return m
}

// DumpSignal formats up to limit samples as an index/value/bits table.
func DumpSignal(buf []float32, limit int) string {
	if len(buf) == 0 {
		return "(no samples)\n"
	}
	if limit <= 0 || limit > len(buf) {
		limit = len(buf)
	}

	var sb strings.Builder
	for i := 0; i < limit; i++ {
		fmt.Fprintf(&sb, "%6d  %+.6f  0x%08X\n", i, buf[i], math.Float32bits(buf[i]))
	}
	if limit < len(buf) {
		fmt.Fprintf(&sb, "... %d more samples\n", len(buf)-limit)
	}
	return sb.String()
}

var defaultAnalyzer = NewSignalAnalyzer()

// AnalyzeSignal analyzes buf with the default thresholds.
func AnalyzeSignal(buf []float32) SignalStats {
	return defaultAnalyzer.Analyze(buf)
}

// CheckSignal logs a warning for each problem found in buf.
func CheckSignal(buf []float32, name string) {
	for _, issue := range defaultAnalyzer.Issues(defaultAnalyzer.Analyze(buf), name) {
		Warn("%s", issue)
	}
}
