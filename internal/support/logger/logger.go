// Package logger provides the level-filtered logging used throughout mapchat.
// It wraps the standard `log` package so every component, the Fx container,
// GORM and the HTTP server share one output and one level setting.
package logger

import (
	"fmt"
	"io"
	"log"
	"strings"
	"sync/atomic"
)

// LogLevel is a type representing the logging level.
type LogLevel int32

const (
	// LevelDebug is used for detailed debugging information such as generated SQL.
	LevelDebug LogLevel = iota
	// LevelInfo is used for general progress messages.
	LevelInfo
	// LevelWarn is used for recoverable problems, e.g. a place that could not be found.
	LevelWarn
	// LevelError is used for failures surfaced to a caller.
	LevelError
	// LevelFatal is used right before the process exits.
	LevelFatal
)

var levelNames = map[LogLevel]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
	LevelFatal: "FATAL",
}

// String returns the upper-case name used as the line prefix.
func (l LogLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LEVEL(%d)", int32(l))
}

// logLevel holds the current global level. Messages below it are dropped.
var logLevel atomic.Int32

func init() {
	logLevel.Store(int32(LevelInfo))
}

// ParseLevel converts a level name ("debug", "INFO", ...) into a LogLevel.
func ParseLevel(level string) (LogLevel, error) {
	name := strings.ToUpper(strings.TrimSpace(level))
	for l, n := range levelNames {
		if n == name {
			return l, nil
		}
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", level)
}

// SetLogLevel sets the global log level.
// An unknown value falls back to INFO and is reported on the log output.
func SetLogLevel(level string) {
	l, err := ParseLevel(level)
	if err != nil {
		log.Printf("[WARN] %v, defaulting to INFO", err)
	}
	logLevel.Store(int32(l))
}

// CurrentLevel returns the active global level.
func CurrentLevel() LogLevel {
	return LogLevel(logLevel.Load())
}

// Enabled reports whether a message at the given level would be written.
func Enabled(level LogLevel) bool {
	return level >= CurrentLevel()
}

// SetOutput redirects all log output. Tests use it to capture lines.
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

// Logf writes a message at the given level if it is enabled.
func Logf(level LogLevel, format string, v ...interface{}) {
	if !Enabled(level) {
		return
	}
	log.Printf("["+level.String()+"] "+format, v...)
}

// Debugf formats and outputs a DEBUG level log message.
func Debugf(format string, v ...interface{}) {
	Logf(LevelDebug, format, v...)
}

// Infof formats and outputs an INFO level log message.
func Infof(format string, v ...interface{}) {
	Logf(LevelInfo, format, v...)
}

// Warnf formats and outputs a WARN level log message.
func Warnf(format string, v ...interface{}) {
	Logf(LevelWarn, format, v...)
}

// Errorf formats and outputs an ERROR level log message.
func Errorf(format string, v ...interface{}) {
	Logf(LevelError, format, v...)
}

// Fatalf writes a FATAL message regardless of level and exits with status 1.
func Fatalf(format string, v ...interface{}) {
	log.Fatalf("[FATAL] "+format, v...)
}
