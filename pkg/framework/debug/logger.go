// Package debug provides logging and diagnostics for chugins and the tools
// that drive them.
package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// LogLevel represents the severity of a log message.
type LogLevel int

const (
	// LogLevelDebug is for detailed debugging information.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is for general informational messages.
	LogLevelInfo
	// LogLevelWarn is for warning messages.
	LogLevelWarn
	// LogLevelError is for error messages.
	LogLevelError
	// LogLevelFatal is for fatal errors that should terminate the chugin.
	LogLevelFatal
	// LogLevelOff disables all logging.
	LogLevelOff
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	case LogLevelFatal:
		return "FATAL"
	case LogLevelOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a level name (case-insensitive) to a LogLevel.
func ParseLevel(name string) (LogLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG", "TRACE":
		return LogLevelDebug, nil
	case "INFO", "":
		return LogLevelInfo, nil
	case "WARN", "WARNING":
		return LogLevelWarn, nil
	case "ERROR":
		return LogLevelError, nil
	case "FATAL":
		return LogLevelFatal, nil
	case "OFF", "NONE":
		return LogLevelOff, nil
	}
	return LogLevelInfo, errors.Errorf("unknown log level %q", name)
}

func (l LogLevel) logrus() logrus.Level {
	switch l {
	case LogLevelDebug:
		return logrus.DebugLevel
	case LogLevelWarn:
		return logrus.WarnLevel
	case LogLevelError:
		return logrus.ErrorLevel
	case LogLevelFatal:
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}

// Flags for logger output formatting.
const (
	FlagTime      = 1 << iota // Include timestamp
	FlagShortFile             // Include short file name and line number
	FlagLongFile              // Include full file path and line number
	FlagLevel                 // Include log level (logrus always does)
	FlagPrefix                // Include prefix
)

// DefaultFlags are the default formatting flags.
const DefaultFlags = FlagTime | FlagShortFile | FlagLevel | FlagPrefix

// Logger is a leveled logger backed by logrus. Messages are printf style;
// structured fields are attached with WithField/WithFields.
type Logger struct {
	mu      sync.Mutex
	backend *logrus.Logger
	fields  logrus.Fields
	level   LogLevel
	prefix  string
	flags   int
	enabled bool

	// set by SetOutputFile
	file *os.File
}

// Fields is an alias so callers need not import logrus.
type Fields = logrus.Fields

var defaultLogger *Logger

func init() {
	defaultLogger = New(os.Stderr, "chugin", DefaultFlags)
	defaultLogger.SetLevel(LogLevelInfo)
}

// New creates a new logger instance.
func New(output io.Writer, prefix string, flags int) *Logger {
	backend := logrus.New()
	backend.SetOutput(output)
	backend.SetLevel(logrus.DebugLevel)
	// Fatal must not exit the host process.
	backend.ExitFunc = func(int) {}

	l := &Logger{
		backend: backend,
		fields:  logrus.Fields{},
		level:   LogLevelInfo,
		prefix:  prefix,
		flags:   flags,
		enabled: true,
	}
	l.applyFormat()
	return l
}

func openLogFile(filename string) (*os.File, error) {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create log directory")
	}

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open log file")
	}
	return file, nil
}

func (l *Logger) applyFormat() {
	l.backend.SetFormatter(&logrus.TextFormatter{
		DisableColors:    true,
		DisableTimestamp: l.flags&FlagTime == 0,
		FullTimestamp:    true,
		TimestampFormat:  "2006-01-02 15:04:05.000",
		DisableQuote:     true,
	})
}

// SetOutput sets the output destination for the logger. A file opened by
// SetOutputFile is closed.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.backend.SetOutput(w)
	l.closeFile()
}

// SetOutputFile appends log output to filename, creating it and its
// directory if needed. Calling it again with the same name keeps the open
// file; a different name closes the previous one.
func (l *Logger) SetOutputFile(filename string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil && l.file.Name() == filename {
		return nil
	}
	file, err := openLogFile(filename)
	if err != nil {
		return err
	}
	l.backend.SetOutput(file)
	l.closeFile()
	l.file = file
	return nil
}

// OutputFile returns the name of the file set by SetOutputFile, or "".
func (l *Logger) OutputFile() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return ""
	}
	return l.file.Name()
}

// CloseFile closes the file set by SetOutputFile and returns output to
// stderr. It does nothing when no file is open.
func (l *Logger) CloseFile() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	l.backend.SetOutput(os.Stderr)
	return l.closeFile()
}

func (l *Logger) closeFile() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return errors.Wrap(err, "failed to close log file")
}

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Level returns the minimum log level.
func (l *Logger) Level() LogLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// SetEnabled enables or disables the logger.
func (l *Logger) SetEnabled(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = enabled
}

// IsEnabled returns whether the logger is enabled.
func (l *Logger) IsEnabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enabled
}

// WithField returns a logger that adds key=value to every message.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return l.WithFields(Fields{key: value})
}

// WithFields returns a logger that adds fields to every message. The child
// shares output and level settings captured at the time of the call.
func (l *Logger) WithFields(fields Fields) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	merged := make(logrus.Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	return &Logger{
		backend: l.backend,
		fields:  merged,
		level:   l.level,
		prefix:  l.prefix,
		flags:   l.flags,
		enabled: l.enabled,
	}
}

// log writes a log message at the specified level. skip is the number of
// frames between the caller being reported and log itself.
func (l *Logger) log(skip int, level LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.enabled || level < l.level || l.level == LogLevelOff {
		return
	}

	fields := make(logrus.Fields, len(l.fields)+2)
	for k, v := range l.fields {
		fields[k] = v
	}
	if l.flags&FlagPrefix != 0 && l.prefix != "" {
		fields["prefix"] = l.prefix
	}
	if l.flags&(FlagShortFile|FlagLongFile) != 0 {
		if _, file, line, ok := runtime.Caller(skip); ok {
			if l.flags&FlagShortFile != 0 {
				file = filepath.Base(file)
			}
			fields["caller"] = fmt.Sprintf("%s:%d", file, line)
		}
	}

	msg := strings.TrimSuffix(fmt.Sprintf(format, args...), "\n")
	l.backend.WithFields(fields).Log(level.logrus(), msg)
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(2, LogLevelDebug, format, args...)
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(2, LogLevelInfo, format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(2, LogLevelWarn, format, args...)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(2, LogLevelError, format, args...)
}

// Fatal logs a fatal error message and panics.
func (l *Logger) Fatal(format string, args ...interface{}) {
	l.log(2, LogLevelFatal, format, args...)
	panic(fmt.Sprintf(format, args...))
}

// WarnIf logs a warning message if the condition is true.
func (l *Logger) WarnIf(condition bool, format string, args ...interface{}) {
	if condition {
		l.log(2, LogLevelWarn, format, args...)
	}
}

// Global logger functions

// Default returns the default logger instance.
func Default() *Logger {
	return defaultLogger
}

// SetOutput sets the output destination for the default logger.
func SetOutput(w io.Writer) {
	defaultLogger.SetOutput(w)
}

// SetOutputFile sends the default logger's output to filename.
func SetOutputFile(filename string) error {
	return defaultLogger.SetOutputFile(filename)
}

// CloseFile closes the default logger's output file, if any.
func CloseFile() error {
	return defaultLogger.CloseFile()
}

// SetLevel sets the minimum log level for the default logger.
func SetLevel(level LogLevel) {
	defaultLogger.SetLevel(level)
}

// Debug logs a debug message using the default logger.
func Debug(format string, args ...interface{}) {
	defaultLogger.log(2, LogLevelDebug, format, args...)
}

// Warn logs a warning message using the default logger.
func Warn(format string, args ...interface{}) {
	defaultLogger.log(2, LogLevelWarn, format, args...)
}

// Error logs an error message using the default logger.
func Error(format string, args ...interface{}) {
	defaultLogger.log(2, LogLevelError, format, args...)
}

// DebugIf logs a debug message if the condition is true.
func DebugIf(condition bool, format string, args ...interface{}) {
	if condition {
		defaultLogger.log(2, LogLevelDebug, format, args...)
	}
}
