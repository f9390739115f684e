package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Appender delivers formatted messages to an output
type Appender interface {
	Append(msg Message)
}

// ConsoleAppender writes formatted messages to a writer, typically stderr
type ConsoleAppender struct {
	mu        sync.Mutex
	out       io.Writer
	formatter Formatter
}

// NewConsoleAppender creates a console appender
func NewConsoleAppender(out io.Writer, formatter Formatter) *ConsoleAppender {
	if out == nil {
		out = os.Stderr
	}
	return &ConsoleAppender{out: out, formatter: formatter}
}

// Append implements Appender
func (a *ConsoleAppender) Append(msg Message) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fmt.Fprintln(a.out, a.formatter.Format(msg))
}

// FileAppender appends formatted messages to a log file
type FileAppender struct {
	mu        sync.Mutex
	file      *os.File
	formatter Formatter
}

// NewFileAppender opens path in append mode. When the file cannot be opened a
// warning is written to stderr and the appender discards messages.
func NewFileAppender(path string, formatter Formatter) *FileAppender {
	a := &FileAppender{formatter: formatter}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v\n", path, err)
		return a
	}
	a.file = file
	return a
}

// IsOpen reports whether the log file was opened
func (a *FileAppender) IsOpen() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.file != nil
}

// Append implements Appender
func (a *FileAppender) Append(msg Message) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.file == nil {
		return
	}
	fmt.Fprintln(a.file, a.formatter.Format(msg))
}

// Close closes the underlying file
func (a *FileAppender) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.file == nil {
		return nil
	}
	err := a.file.Close()
	a.file = nil
	return err
}
