package log

import (
	"github.com/rxtech-lab/argo-policy/internal/types"
)

// LogEntry is a single log entry tied to a simulation step.
type LogEntry struct {
	// Timestamp is the snapshot timestamp of the step that produced the entry.
	Timestamp int64
	// Symbol is the product the entry is about.
	Symbol string
	// Level is the severity level of the log.
	Level types.LogLevel
	// Message is the log message content.
	Message string
	// Fields contains optional structured key-value data.
	Fields map[string]string
}

// Log is the interface for storing step logs.
type Log interface {
	// Log stores a log entry.
	Log(entry LogEntry) error
	// GetLogs retrieves all stored log entries.
	GetLogs() ([]LogEntry, error)
}
