// Package trace writes per-resource scoring snapshots to an append-only
// line-delimited log. Trace writing never affects pricing control flow:
// failures are logged and swallowed.
package trace

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"plancost/core/enrich"
	"plancost/internal/logging"
)

// FileTracer appends NDJSON records to a file, one line per resource.
// Each process run is stamped with its own run ID.
type FileTracer struct {
	file  *os.File
	runID string
	log   *zap.Logger
	mu    sync.Mutex
}

// NewFileTracer opens (or creates) the trace file for appending
func NewFileTracer(path string) (*FileTracer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &FileTracer{
		file:  f,
		runID: uuid.New().String(),
		log:   logging.With(zap.String("component", "trace")),
	}, nil
}

// RunID returns this tracer's run identifier
func (t *FileTracer) RunID() string {
	return t.runID
}

// Trace appends one record. Marshal and write failures are swallowed.
func (t *FileTracer) Trace(rec enrich.TraceRecord) {
	rec.RunID = t.runID
	if rec.At.IsZero() {
		rec.At = time.Now().UTC()
	}

	line, err := json.Marshal(rec)
	if err != nil {
		t.log.Debug("trace marshal failed", zap.Error(err))
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := t.file.Write(append(line, '\n')); err != nil {
		t.log.Debug("trace write failed", zap.Error(err))
	}
}

// Close closes the underlying file
func (t *FileTracer) Close() error {
	return t.file.Close()
}
