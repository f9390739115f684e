package logging

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Message is a single log record handed to appenders
type Message struct {
	Level  Level
	Text   string
	Fields []interface{}
	Time   time.Time
}

// Formatter turns a Message into a single output line
type Formatter interface {
	Format(msg Message) string
}

// SimpleFormatter renders "[Level    ]: date time - message key=value"
type SimpleFormatter struct {
	color  bool
	styles map[Level]lipgloss.Style
	faint  lipgloss.Style
}

// NewSimpleFormatter creates a formatter; color enables per-level tag colors
func NewSimpleFormatter(color bool) *SimpleFormatter {
	return &SimpleFormatter{
		color: color,
		styles: map[Level]lipgloss.Style{
			LevelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
			LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
			LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
			LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
			LevelFatal: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
		},
		faint: lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Faint(true),
	}
}

// Format implements Formatter
func (f *SimpleFormatter) Format(msg Message) string {
	tag := fmt.Sprintf("[%-9s]:", msg.Level.String())
	fields := formatFields(msg.Fields)

	if f.color {
		if style, ok := f.styles[msg.Level]; ok {
			tag = style.Render(tag)
		}
		if fields != "" {
			fields = f.faint.Render(fields)
		}
	}

	line := fmt.Sprintf("%s %s - %s", tag, msg.Time.Format("2006-01-02 15:04:05"), msg.Text)
	if fields != "" {
		line += " " + fields
	}
	return line
}

// formatFields renders alternating key/value pairs as key=value
func formatFields(fields []interface{}) string {
	if len(fields) == 0 {
		return ""
	}

	parts := make([]string, 0, len(fields)/2+1)
	for i := 0; i < len(fields); i += 2 {
		if i+1 >= len(fields) {
			parts = append(parts, fmt.Sprintf("%v", fields[i]))
			break
		}
		parts = append(parts, fmt.Sprintf("%v=%v", fields[i], fields[i+1]))
	}
	return strings.Join(parts, " ")
}
