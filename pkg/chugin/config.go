package chugin

import (
	"os"
	"strconv"
	"sync"

	"github.com/pkg/errors"

	"github.com/justyntemme/chuckgo/pkg/framework/debug"
)

// Environment variables read by ConfigFromEnv
const (
	EnvLogLevel   = "CHUGIN_LOG_LEVEL"
	EnvLogFile    = "CHUGIN_LOG_FILE"
	EnvSampleRate = "CHUGIN_SRATE"
)

// Config holds process-wide chugin settings
type Config struct {
	// LogLevel is one of debug, info, warn, error, fatal, off
	LogLevel string `json:"log_level" yaml:"log_level"`
	// LogFile redirects logging from stderr to a file
	LogFile string `json:"log_file,omitempty" yaml:"log_file,omitempty"`
	// SampleRate is used by classes that need it at construction time
	SampleRate float64 `json:"sample_rate" yaml:"sample_rate" validate:"gt=0,lte=768000"`
}

// DefaultConfig returns the settings used until SetConfig is called
func DefaultConfig() Config {
	return Config{
		LogLevel:   "info",
		SampleRate: 44100,
	}
}

var (
	globalConfig   = DefaultConfig()
	globalConfigMu sync.RWMutex
)

// SetConfig validates cfg, applies its logging settings and makes it current.
// The log file stays open across calls naming the same file.
func SetConfig(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		return errors.Wrap(err, "invalid chugin config")
	}

	level, err := debug.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	if cfg.LogFile != "" {
		err = debug.SetOutputFile(cfg.LogFile)
	} else {
		err = debug.CloseFile()
	}
	if err != nil {
		return err
	}
	debug.SetLevel(level)

	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
	return nil
}

// CurrentConfig returns the current settings
func CurrentConfig() Config {
	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// SampleRate returns the configured sample rate
func SampleRate() float64 {
	return CurrentConfig().SampleRate
}

// ConfigFromEnv overlays the CHUGIN_* environment variables on base
func ConfigFromEnv(base Config) (Config, error) {
	cfg := base
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		cfg.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvLogFile); ok {
		cfg.LogFile = v
	}
	if v, ok := os.LookupEnv(EnvSampleRate); ok {
		srate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return base, errors.Wrapf(err, "%s=%q", EnvSampleRate, v)
		}
		cfg.SampleRate = srate
	}
	return cfg, nil
}
