package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/justyntemme/chuckgo/pkg/chugin"
	"github.com/justyntemme/chuckgo/pkg/framework/debug"
	"github.com/justyntemme/chuckgo/pkg/host"
	"github.com/justyntemme/chuckgo/pkg/ugens/blit"
	"github.com/justyntemme/chuckgo/pkg/ugens/korg35"
)

var (
	// Global flags
	verbose    bool
	quiet      bool
	jsonOut    bool
	sampleRate float64
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "chugctl",
	Short: "Inspect and run chugins without ChucK",
	Long: `chugctl loads the bundled chugins (Korg35, Blit, BlitSaw) into an in-process
ChucK host. It lists the classes they register, ticks instances and prints
their output, and emits JSON schemas for its input and output formats.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return applyConfig()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().
		Float64Var(&sampleRate, "srate", 0, "Sample rate in Hz (default from CHUGIN_SRATE or 44100)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error, off)")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// applyConfig layers flags over the environment over defaults
func applyConfig() error {
	cfg, err := chugin.ConfigFromEnv(chugin.DefaultConfig())
	if err != nil {
		return err
	}
	if os.Getenv(chugin.EnvLogLevel) == "" {
		cfg.LogLevel = "warn"
	}
	switch {
	case logLevel != "":
		cfg.LogLevel = logLevel
	case verbose:
		cfg.LogLevel = "debug"
	case quiet:
		cfg.LogLevel = "error"
	}
	if sampleRate > 0 {
		cfg.SampleRate = sampleRate
	}
	return chugin.SetConfig(cfg)
}

// newModule returns the chugins bundled with chugctl
func newModule() *chugin.Module {
	return chugin.NewModule("chugctl", korg35.Class(), blit.Class(), blit.SawClass())
}

// loadVM loads the bundled module into a fresh host
func loadVM() (*host.VM, *chugin.Module, error) {
	m := newModule()
	vm := host.New(host.WithLogger(debug.Default().WithField("component", "host")))
	if err := vm.Load(m); err != nil {
		return nil, nil, fmt.Errorf("failed to load chugins: %w", err)
	}
	return vm, m, nil
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
