// Package logger provides the leveled logging facade used across planfeed.
// It keeps a package-level printf-style API and delegates the actual output to a zap SugaredLogger.
package logger

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel is a type representing the logging level.
type LogLevel int

const (
	// LevelDebug is the log level used for detailed debugging information.
	LevelDebug LogLevel = iota
	// LevelInfo is the log level used for general informational messages.
	LevelInfo
	// LevelWarn is the log level used for potential issues or warning messages.
	LevelWarn
	// LevelError is the log level used for error messages.
	LevelError
	// LevelFatal is the log level used for fatal error messages that cause application termination.
	LevelFatal
)

var (
	mu       sync.RWMutex
	logLevel = LevelInfo
	atom     = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	sugar    = newSugar(atom)
)

func newSugar(level zap.AtomicLevel) *zap.SugaredLogger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stderr), level)
	return zap.New(core).Sugar()
}

// SetLogLevel sets the global log level.
// Valid values are "DEBUG", "INFO", "WARN", "ERROR", "FATAL" (case-insensitive).
// An unknown value falls back to INFO and prints a notice.
func SetLogLevel(level string) {
	mu.Lock()
	defer mu.Unlock()
	switch strings.ToUpper(level) {
	case "DEBUG", "TRACE":
		logLevel = LevelDebug
		atom.SetLevel(zapcore.DebugLevel)
	case "INFO":
		logLevel = LevelInfo
		atom.SetLevel(zapcore.InfoLevel)
	case "WARN":
		logLevel = LevelWarn
		atom.SetLevel(zapcore.WarnLevel)
	case "ERROR":
		logLevel = LevelError
		atom.SetLevel(zapcore.ErrorLevel)
	case "FATAL", "SILENT":
		logLevel = LevelFatal
		atom.SetLevel(zapcore.FatalLevel)
	default:
		fmt.Printf("Unknown log level '%s' specified. Defaulting to INFO level.\n", level)
		logLevel = LevelInfo
		atom.SetLevel(zapcore.InfoLevel)
	}
}

// GetLogLevel returns the currently active level.
func GetLogLevel() LogLevel {
	mu.RLock()
	defer mu.RUnlock()
	return logLevel
}

// SetOutput replaces the underlying zap logger. Intended for tests that need to capture output.
func SetOutput(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	sugar = l.Sugar()
}

// Zap returns the underlying zap logger so that components such as HTTP middleware can log structured fields.
func Zap() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar.Desugar()
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// Debugf formats and outputs a DEBUG level log message.
func Debugf(format string, v ...interface{}) { current().Debugf(format, v...) }

// Infof formats and outputs an INFO level log message.
func Infof(format string, v ...interface{}) { current().Infof(format, v...) }

// Warnf formats and outputs a WARN level log message.
func Warnf(format string, v ...interface{}) { current().Warnf(format, v...) }

// Errorf formats and outputs an ERROR level log message.
func Errorf(format string, v ...interface{}) { current().Errorf(format, v...) }

// Fatalf formats and outputs a FATAL level log message, then terminates the program.
func Fatalf(format string, v ...interface{}) { current().Fatalf(format, v...) }

// Debugw outputs a DEBUG level message with structured key/value pairs.
func Debugw(msg string, keysAndValues ...interface{}) { current().Debugw(msg, keysAndValues...) }

// Infow outputs an INFO level message with structured key/value pairs.
func Infow(msg string, keysAndValues ...interface{}) { current().Infow(msg, keysAndValues...) }

// Warnw outputs a WARN level message with structured key/value pairs.
func Warnw(msg string, keysAndValues ...interface{}) { current().Warnw(msg, keysAndValues...) }

// Errorw outputs an ERROR level message with structured key/value pairs.
func Errorw(msg string, keysAndValues ...interface{}) { current().Errorw(msg, keysAndValues...) }

// Sync flushes any buffered log entries.
func Sync() error { return current().Sync() }
