package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/justyntemme/chuckgo/pkg/chuck"
	"github.com/justyntemme/chuckgo/pkg/chugin"
	"github.com/justyntemme/chuckgo/pkg/framework/debug"
	"github.com/justyntemme/chuckgo/pkg/host"
	"github.com/justyntemme/chuckgo/pkg/slot"
)

var (
	runSamples  int
	runInput    float64
	runSets     []string
	runScenario string
	runDump     int
	runProfile  bool
)

func init() {
	cmd := newRunCmd()
	cmd.Flags().IntVarP(&runSamples, "samples", "n", 16, "Number of samples to tick")
	cmd.Flags().Float64Var(&runInput, "input", 0, "Constant input sample")
	cmd.Flags().StringArrayVar(&runSets, "set", nil, "Call a method before ticking (name=value, repeatable)")
	cmd.Flags().StringVar(&runScenario, "scenario", "", "YAML scenario file")
	cmd.Flags().IntVar(&runDump, "dump", 16, "Print at most this many samples (0 = all)")
	cmd.Flags().BoolVar(&runProfile, "profile", false, "Time every callback")
	rootCmd.AddCommand(cmd)
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [class]",
		Short: "Instantiate a class, tick it and print the output",
		Long: `The run command creates one instance of a class, applies method calls,
ticks it and prints the output samples with summary statistics. The instance
is destroyed afterwards and any native object still alive is reported.

Example:
  chugctl run Blit --samples 64 --set freq=441
  chugctl run Korg35 --input 0.5 --set freq=1200 --set K=1.9
  chugctl run --scenario testdata/korg35.yaml --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(args)
		},
	}
	return cmd
}

// callResult is one method call and what it returned
type callResult struct {
	Call
	Return interface{} `json:"return,omitempty"`
}

// runResult is the output of the run command
type runResult struct {
	Class       string              `json:"class"`
	SampleRate  float64             `json:"sample_rate"`
	Calls       []callResult        `json:"calls,omitempty"`
	Output      []float32           `json:"output"`
	Stats       debug.SignalStats   `json:"stats"`
	Issues      []string            `json:"issues,omitempty"`
	Mismatch    *debug.Mismatch     `json:"mismatch,omitempty"`
	Timing      []debug.Measurement `json:"timing,omitempty"`
	TickLoad    float64             `json:"tick_load_percent,omitempty"`
	LiveObjects int                 `json:"live_objects"`
}

func buildScenario(args []string) (*Scenario, error) {
	var sc *Scenario
	if runScenario != "" {
		loaded, err := loadScenario(runScenario)
		if err != nil {
			return nil, err
		}
		sc = loaded
	} else {
		sc = &Scenario{Samples: runSamples, Input: Input{Kind: "constant", Value: runInput}}
	}

	if len(args) > 0 {
		sc.Class = args[0]
	}
	if sc.Class == "" {
		return nil, fmt.Errorf("no class given")
	}
	if runScenario == "" || sc.Samples == 0 {
		sc.Samples = runSamples
	}

	for _, s := range runSets {
		call, err := parseSet(s)
		if err != nil {
			return nil, err
		}
		sc.Calls = append(sc.Calls, call)
	}
	return sc, nil
}

// decodeReturn reads a method's result according to its declared type
func decodeReturn(ret chuck.Return, typ string) interface{} {
	switch typ {
	case chuck.TypeVoid:
		return nil
	case chuck.TypeInt:
		return ret.Int()
	case chuck.TypeFloat, chuck.TypeDur, chuck.TypeTime:
		return ret.Float()
	default:
		return ret.Uint()
	}
}

func call(inst *host.Instance, c Call, prof *debug.Profiler) (callResult, error) {
	m, ok := inst.Class().Method(c.Method, len(c.Args))
	if !ok {
		return callResult{}, fmt.Errorf("%s has no method %s with %d arguments", inst.Class().Name, c.Method, len(c.Args))
	}

	var ret chuck.Return
	var err error
	prof.Time("method "+c.Method, func() {
		ret, err = inst.Call(c.Method, c.Args...)
	})
	if err != nil {
		return callResult{}, err
	}
	return callResult{Call: c, Return: decodeReturn(ret, m.Return)}, nil
}

func simulate(vm *host.VM, sc *Scenario) (*runResult, error) {
	srate := chugin.SampleRate()
	prof := debug.NewProfiler(4096)
	prof.SetEnabled(runProfile)

	var inst *host.Instance
	var err error
	prof.Time("ctor", func() {
		inst, err = vm.Instantiate(sc.Class)
	})
	if err != nil {
		return nil, err
	}
	if !inst.Class().IsUGen() && sc.Samples > 0 {
		_ = inst.Destroy()
		return nil, fmt.Errorf("%s is not a unit generator", sc.Class)
	}

	result := &runResult{
		Class:      sc.Class,
		SampleRate: srate,
		Output:     make([]float32, 0, sc.Samples),
	}

	pending := sc.Calls
	for n := 0; n <= sc.Samples; n++ {
		for len(pending) > 0 && pending[0].At <= n {
			r, err := call(inst, pending[0], prof)
			if err != nil {
				_ = inst.Destroy()
				return nil, err
			}
			printVerbose("%s -> %v\n", r.Method, r.Return)
			result.Calls = append(result.Calls, r)
			pending = pending[1:]
		}
		if n == sc.Samples {
			break
		}

		in := sc.Input.signal(n, srate)
		stop := prof.Start("tick")
		out, ok, err := inst.Tick(in)
		stop()
		if err != nil {
			_ = inst.Destroy()
			return nil, err
		}
		if !ok {
			debug.Warn("%s tick %d reported failure", sc.Class, n)
		}
		result.Output = append(result.Output, out)
	}

	prof.Time("dtor", func() {
		err = inst.Destroy()
	})
	if err != nil {
		return nil, err
	}

	analyzer := debug.NewSignalAnalyzer()
	result.Stats = analyzer.Analyze(result.Output)
	result.Issues = analyzer.Issues(result.Stats, sc.Class)
	if sc.Expect != nil {
		m := debug.CompareSignals(result.Output, sc.Expect.Output, sc.Expect.Tolerance)
		result.Mismatch = &m
	}
	if runProfile {
		result.Timing = prof.Measurements()
		if m, ok := prof.Measurement("tick"); ok {
			result.TickLoad = m.RealtimeLoad(srate)
		}
	}
	result.LiveObjects = slot.Live()
	return result, nil
}

func runRun(args []string) error {
	sc, err := buildScenario(args)
	if err != nil {
		return err
	}
	sortCalls(sc.Calls)

	vm, _, err := loadVM()
	if err != nil {
		return err
	}
	result, err := simulate(vm, sc)
	if err != nil {
		return err
	}

	if jsonOut {
		if err := printJSON(result); err != nil {
			return err
		}
	} else {
		printResult(result)
	}

	if result.Mismatch != nil && result.Mismatch.Count > 0 {
		return fmt.Errorf("%d samples differ from expected output (max %.6g at %d)",
			result.Mismatch.Count, result.Mismatch.MaxDiff, result.Mismatch.MaxIndex)
	}
	return nil
}

func printResult(r *runResult) {
	printInfo("%s at %.0f Hz, %d samples\n", r.Class, r.SampleRate, len(r.Output))
	for _, c := range r.Calls {
		printInfo("  %s(%v) = %v\n", c.Method, c.Args, c.Return)
	}
	fmt.Print(debug.DumpSignal(r.Output, runDump))
	printInfo("peak %.6f  rms %.6f  dc %.6f  zero crossings %d\n",
		r.Stats.Peak, r.Stats.RMS, r.Stats.DC, r.Stats.ZeroCrossings)
	for _, issue := range r.Issues {
		printInfo("warning: %s\n", issue)
	}
	if r.Mismatch != nil && r.Mismatch.Count == 0 {
		printInfo("output matches expectation\n")
	}
	if len(r.Timing) > 0 {
		for _, m := range r.Timing {
			printInfo("  %-16s n=%-8d mean %-10v p99 %v\n", m.Name, m.Count, m.Mean(), m.Percentile(99))
		}
		printInfo("tick load %.3f%% of real time\n", r.TickLoad)
	}
	printVerbose("live native objects: %d\n", r.LiveObjects)
}
