package evidence

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Log is the durable append-only record of what was sent where and when,
// independent of sink acknowledgments. One JSON object per line, never
// rewritten or compacted. Each append is a single write of a complete
// line, so concurrent writers may interleave lines but not corrupt one.
type Log struct {
	path string
}

// NewLog points at (and lazily creates) the evidence log file.
func NewLog(path string) *Log {
	return &Log{path: path}
}

// Path returns the log file location.
func (l *Log) Path() string { return l.path }

type logEntry struct {
	Destination string    `json:"destination"`
	Timestamp   time.Time `json:"timestamp"`
	Evidence    Packet    `json:"evidence"`
}

// Append records one send event.
func (l *Log) Append(destination string, sentAt time.Time, p Packet) error {
	line, err := json.Marshal(logEntry{Destination: destination, Timestamp: sentAt, Evidence: p})
	if err != nil {
		return fmt.Errorf("encode evidence entry: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open evidence log: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append evidence entry: %w", err)
	}
	return nil
}
