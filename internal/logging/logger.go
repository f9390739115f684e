package logging

import (
	"os"
	"sync"
	"time"

	"github.com/appscaffold/appscaffold/internal/domain"
)

// Logger fans messages at or above its level out to every registered appender.
// It is constructed by the application entry point and injected where needed.
type Logger struct {
	mu        sync.RWMutex
	level     Level
	appenders []Appender
	now       func() time.Time
	exit      func(code int)
}

var _ domain.Logger = (*Logger)(nil)

// New creates a logger with the given minimum level and appenders
func New(level Level, appenders ...Appender) *Logger {
	return &Logger{
		level:     level,
		appenders: appenders,
		now:       time.Now,
		exit:      os.Exit,
	}
}

// AddAppender registers an additional appender
func (l *Logger) AddAppender(appender Appender) {
	if appender == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.appenders = append(l.appenders, appender)
}

// ClearAppenders removes every appender
func (l *Logger) ClearAppenders() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.appenders = nil
}

// SetLevel sets the minimum level; lower levels are discarded
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Level returns the minimum level
func (l *Logger) Level() Level {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

// Log delivers a message at the given level
func (l *Logger) Log(level Level, msg string, fields ...interface{}) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if level < l.level {
		return
	}

	message := Message{Level: level, Text: msg, Fields: fields, Time: l.now()}
	for _, appender := range l.appenders {
		appender.Append(message)
	}
}

// Debug implements domain.Logger
func (l *Logger) Debug(msg string, fields ...interface{}) {
	l.Log(LevelDebug, msg, fields...)
}

// Info implements domain.Logger
func (l *Logger) Info(msg string, fields ...interface{}) {
	l.Log(LevelInfo, msg, fields...)
}

// Warn implements domain.Logger
func (l *Logger) Warn(msg string, fields ...interface{}) {
	l.Log(LevelWarn, msg, fields...)
}

// Error implements domain.Logger
func (l *Logger) Error(msg string, fields ...interface{}) {
	l.Log(LevelError, msg, fields...)
}

// Fatal implements domain.Logger and terminates the process
func (l *Logger) Fatal(msg string, fields ...interface{}) {
	l.Log(LevelFatal, msg, fields...)
	l.exit(1)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

// Nop returns a logger that discards everything
func Nop() domain.Logger {
	return nopLogger{}
}
