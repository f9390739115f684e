package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingAppender struct {
	messages []Message
}

func (a *recordingAppender) Append(msg Message) {
	a.messages = append(a.messages, msg)
}

func fixedClock() time.Time {
	return time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC)
}

func TestLoggerLevelFiltering(t *testing.T) {
	rec := &recordingAppender{}
	logger := New(LevelWarn, rec)

	logger.Debug("debug")
	logger.Info("info")
	logger.Warn("warn")
	logger.Error("error")

	require.Len(t, rec.messages, 2)
	assert.Equal(t, "warn", rec.messages[0].Text)
	assert.Equal(t, LevelError, rec.messages[1].Level)

	logger.SetLevel(LevelDebug)
	assert.Equal(t, LevelDebug, logger.Level())
	logger.Debug("debug again")
	assert.Len(t, rec.messages, 3)
}

func TestLoggerAppenders(t *testing.T) {
	first := &recordingAppender{}
	second := &recordingAppender{}
	logger := New(LevelDebug, first)
	logger.AddAppender(second)
	logger.AddAppender(nil)

	logger.Info("hello", "key", "value")
	assert.Len(t, first.messages, 1)
	assert.Len(t, second.messages, 1)
	assert.Equal(t, []interface{}{"key", "value"}, second.messages[0].Fields)

	logger.ClearAppenders()
	logger.Info("dropped")
	assert.Len(t, first.messages, 1)
}

func TestLoggerFatalExits(t *testing.T) {
	rec := &recordingAppender{}
	logger := New(LevelInfo, rec)
	exitCode := -1
	logger.exit = func(code int) { exitCode = code }

	logger.Fatal("boom")
	assert.Equal(t, 1, exitCode)
	require.Len(t, rec.messages, 1)
	assert.Equal(t, LevelFatal, rec.messages[0].Level)
}

func TestSimpleFormatter(t *testing.T) {
	formatter := NewSimpleFormatter(false)
	line := formatter.Format(Message{
		Level:  LevelInfo,
		Text:   "Saving settings",
		Fields: []interface{}{"path", "settings.ini", "keys", 3},
		Time:   fixedClock(),
	})

	assert.Equal(t, "[Info     ]: 2024-03-09 14:05:06 - Saving settings path=settings.ini keys=3", line)

	line = formatter.Format(Message{Level: LevelWarn, Text: "odd", Fields: []interface{}{"lonely"}, Time: fixedClock()})
	assert.True(t, strings.HasPrefix(line, "[Warning  ]:"))
	assert.True(t, strings.HasSuffix(line, "odd lonely"))
}

func TestSimpleFormatterColorKeepsText(t *testing.T) {
	formatter := NewSimpleFormatter(true)
	line := formatter.Format(Message{Level: LevelError, Text: "failed", Time: fixedClock()})
	assert.Contains(t, line, "Critical")
	assert.Contains(t, line, "failed")
}

func TestConsoleAppender(t *testing.T) {
	var buf bytes.Buffer
	logger := New(LevelDebug, NewConsoleAppender(&buf, NewSimpleFormatter(false)))
	logger.now = fixedClock

	logger.Debug("first")
	logger.Info("second")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "[Debug    ]:")
	assert.Contains(t, lines[1], "second")
}

func TestFileAppender(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	appender := NewFileAppender(path, NewSimpleFormatter(false))
	require.True(t, appender.IsOpen())

	logger := New(LevelInfo, appender)
	logger.Info("written to file")
	require.NoError(t, appender.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")

	// Appending after close is a no-op
	appender.Append(Message{Level: LevelInfo, Text: "ignored", Time: fixedClock()})
	assert.NoError(t, appender.Close())
}

func TestFileAppenderUnopenable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "app.log")
	appender := NewFileAppender(path, NewSimpleFormatter(false))
	assert.False(t, appender.IsOpen())

	appender.Append(Message{Level: LevelInfo, Text: "dropped", Time: fixedClock()})
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":    LevelDebug,
		"INFO":     LevelInfo,
		"":         LevelInfo,
		"warn":     LevelWarn,
		"warning":  LevelWarn,
		"error":    LevelError,
		"critical": LevelError,
		"fatal":    LevelFatal,
	}
	for input, expected := range tests {
		level, err := ParseLevel(input)
		assert.NoError(t, err, input)
		assert.Equal(t, expected, level, input)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
	assert.Equal(t, "Unknown", Level(99).String())
}

func TestNopLogger(t *testing.T) {
	logger := Nop()
	logger.Debug("a")
	logger.Info("b")
	logger.Warn("c")
	logger.Error("d")
	logger.Fatal("e")
}
