package logger

import (
	"fmt"
	"os"
	"time"
)

// logEntry is a single formatted log line queued for the backend's
// write goroutine.
type logEntry struct {
	level Level
	log   []byte
}

// Logger writes leveled, subsystem-tagged log lines to a Backend. The
// zero value is not usable; construct one with Backend.Logger.
type Logger struct {
	lvl          Level
	subsystemTag string
	b            *Backend
	writeChan    chan logEntry
}

// Level returns the logger's current verbosity level.
func (l *Logger) Level() Level {
	return l.lvl
}

// SetLevel changes the logger's verbosity. Messages below lvl are
// discarded; their format string is still expanded before the level
// is checked.
func (l *Logger) SetLevel(lvl Level) {
	l.lvl = lvl
}

// SubsystemTag returns the tag this logger was registered under.
func (l *Logger) SubsystemTag() string {
	return l.subsystemTag
}

func (l *Logger) write(lvl Level, s string) {
	if lvl < l.lvl {
		return
	}
	line := fmt.Sprintf("%s [%s] %s: %s\n", time.Now().Format("2006-01-02 15:04:05.000"), lvl, l.subsystemTag, s)
	entry := logEntry{level: lvl, log: []byte(line)}
	if l.b != nil && l.b.IsRunning() {
		l.writeChan <- entry
		return
	}
	// No backend configured yet (or it was never started) - fall back
	// to stderr rather than silently dropping or deadlocking on an
	// unbuffered channel nobody is draining.
	_, _ = os.Stderr.Write(entry.log)
}

// Tracef logs at LevelTrace.
func (l *Logger) Tracef(format string, args ...interface{}) {
	l.write(LevelTrace, fmt.Sprintf(format, args...))
}

// Debugf logs at LevelDebug.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.write(LevelDebug, fmt.Sprintf(format, args...))
}

// Infof logs at LevelInfo.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.write(LevelInfo, fmt.Sprintf(format, args...))
}

// Warnf logs at LevelWarn.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.write(LevelWarn, fmt.Sprintf(format, args...))
}

// Errorf logs at LevelError.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.write(LevelError, fmt.Sprintf(format, args...))
}

// Criticalf logs at LevelCritical.
func (l *Logger) Criticalf(format string, args ...interface{}) {
	l.write(LevelCritical, fmt.Sprintf(format, args...))
}

var defaultBackend = NewBackend()

// RegisterSubSystem returns the logger for tag on the package's
// default backend. Every package-level `var log = logger.
// RegisterSubSystem("TAG")` in the module shares this one backend, so
// a single SetLogWriters/SetLogLevel call at startup configures all
// of them at once.
func RegisterSubSystem(tag string) *Logger {
	lg := defaultBackend.Logger(tag)
	lg.SetLevel(LevelInfo)
	return lg
}

// SetLogWriters points the default backend's output at logFile (all
// levels at or above logLevel) and starts its write goroutine if it
// isn't already running. Call once during daemon startup, after flags
// have been parsed.
func SetLogWriters(logFile string, logLevel Level) error {
	if err := defaultBackend.AddLogFile(logFile, logLevel); err != nil {
		return err
	}
	if !defaultBackend.IsRunning() {
		return defaultBackend.Run()
	}
	return nil
}
