// Package logger is the small levelled logging interface shared by the link
// manager, the dashboard and the metrics server.
//
// While the dashboard owns the terminal, output goes to hazmon-debug.log
// (HAZMON_DEBUG set) or nowhere.
package logger

import (
	"fmt"
	"log"
	"os"
	"sync"
)

// DebugEnv enables debug output when set to any non-empty value.
const DebugEnv = "HAZMON_DEBUG"

// Levels, as recorded by Recorder.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Logger takes printf-style messages at four levels.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// DebugEnabled reports whether HAZMON_DEBUG is set.
func DebugEnabled() bool {
	return os.Getenv(DebugEnv) != ""
}

// stdLogger writes through the standard log package so tea.LogToFile can
// redirect it.
type stdLogger struct {
	prefix string
}

// NewEnvLogger returns a Logger that tags lines with prefix, e.g. "[link]".
// Debug lines are dropped unless HAZMON_DEBUG is set.
func NewEnvLogger(prefix string) Logger {
	return stdLogger{prefix: prefix}
}

func (l stdLogger) write(tag, format string, args []interface{}) {
	msg := fmt.Sprintf(format, args...)
	switch {
	case l.prefix == "" && tag == "":
		log.Print(msg)
	case tag == "":
		log.Print(l.prefix + " " + msg)
	default:
		log.Print(l.prefix + " " + tag + ": " + msg)
	}
}

func (l stdLogger) Debug(format string, args ...interface{}) {
	if DebugEnabled() {
		l.write("", format, args)
	}
}

func (l stdLogger) Info(format string, args ...interface{})  { l.write("", format, args) }
func (l stdLogger) Warn(format string, args ...interface{})  { l.write("WARN", format, args) }
func (l stdLogger) Error(format string, args ...interface{}) { l.write("ERROR", format, args) }

type noop struct{}

// Noop returns a Logger that discards everything.
func Noop() Logger { return noop{} }

func (noop) Debug(string, ...interface{}) {}
func (noop) Info(string, ...interface{})  {}
func (noop) Warn(string, ...interface{})  {}
func (noop) Error(string, ...interface{}) {}

// Entry is one line captured by a Recorder.
type Entry struct {
	Level   string
	Message string
}

// Recorder keeps every message in memory. Tests hand it to a component
// running on another goroutine, so it is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) add(level, format string, args []interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Message: fmt.Sprintf(format, args...)})
}

func (r *Recorder) Debug(format string, args ...interface{}) { r.add(LevelDebug, format, args) }
func (r *Recorder) Info(format string, args ...interface{})  { r.add(LevelInfo, format, args) }
func (r *Recorder) Warn(format string, args ...interface{})  { r.add(LevelWarn, format, args) }
func (r *Recorder) Error(format string, args ...interface{}) { r.add(LevelError, format, args) }

// Entries returns a copy of everything recorded so far.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// HasLevel reports whether anything was recorded at level.
func (r *Recorder) HasLevel(level string) bool {
	for _, e := range r.Entries() {
		if e.Level == level {
			return true
		}
	}
	return false
}

// Reset forgets all entries.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.entries = nil
	r.mu.Unlock()
}
