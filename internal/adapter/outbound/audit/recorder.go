// Package audit persists one JSON Lines record per tool invocation.
// The trail answers "which agent-driven API calls ran, when, and with
// what outcome" without re-running anything.
package audit

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry is one recorded tool invocation.
type Entry struct {
	ID         string    `json:"id"`
	Time       time.Time `json:"time"`
	Tool       string    `json:"tool"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	Status     int       `json:"status,omitempty"`
	Success    bool      `json:"success"`
	DurationMS int64     `json:"duration_ms"`
}

// Recorder appends entries to a writer, one JSON object per line.
// Safe for concurrent use; a failed write is logged and dropped rather
// than failing the tool invocation it describes.
type Recorder struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
	logger *slog.Logger
}

// NewRecorder opens (appending) the audit file at path.
func NewRecorder(path string, logger *slog.Logger) (*Recorder, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("open audit file: %w", err)
	}
	return &Recorder{w: f, closer: f, logger: logger}, nil
}

// NewRecorderWriter wraps an arbitrary writer. Used by tests and by
// stderr-only setups.
func NewRecorderWriter(w io.Writer, logger *slog.Logger) *Recorder {
	return &Recorder{w: w, logger: logger}
}

// Record writes one entry, assigning an id and timestamp when absent.
func (r *Recorder) Record(e Entry) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Time.IsZero() {
		e.Time = time.Now().UTC()
	}

	line, err := json.Marshal(e)
	if err != nil {
		r.logger.Warn("audit entry not serializable", "tool", e.Tool, "error", err)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.w.Write(append(line, '\n')); err != nil {
		r.logger.Warn("audit write failed", "tool", e.Tool, "error", err)
	}
}

// Close releases the underlying file, if any.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
