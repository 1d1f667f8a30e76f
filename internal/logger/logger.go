package logger

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pfassina/wikilinks/internal/wikilink"
)

// Logger wraps charm/log for structured logging
type Logger struct {
	*log.Logger
}

// New creates a new logger with the given output
func New(w io.Writer) *Logger {
	return NewWithLevel(w, log.InfoLevel)
}

// NewWithLevel creates a logger with a specific level
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// ParseLevel converts a level name ("debug", "info", ...) to a log.Level.
func ParseLevel(name string) (log.Level, error) {
	return log.ParseLevel(name)
}

// Discard returns a logger that discards all output
func Discard() *Logger {
	return New(io.Discard)
}

// Resolved logs the outcome of resolving one document
func (l *Logger) Resolved(file string, report wikilink.Report, duration time.Duration) {
	l.Info("resolved",
		"file", file,
		"rewritten", len(report.Rewritten),
		"defined", report.Defined,
		"unbracketed", report.Unbracketed,
		"not_shortcut", report.NotShortcut,
		"duration", duration.Round(time.Microsecond))
	for _, rw := range report.Rewritten {
		l.Debug("link rewritten",
			"file", file,
			"label", rw.Label,
			"url", rw.URL,
			"from_definition", rw.Defined)
	}
}

// FileError logs an error for a specific file
func (l *Logger) FileError(file string, err error) {
	l.Error("file error",
		"file", file,
		"error", err)
}

// ConfigLoaded logs the effective configuration
func (l *Logger) ConfigLoaded(path string, exists bool, policy string) {
	l.Debug("config loaded",
		"path", path,
		"exists", exists,
		"policy", policy)
}
