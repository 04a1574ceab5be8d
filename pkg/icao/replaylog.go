package icao

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/klauspost/compress/gzip"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ReplayEntry is one recorded pipeline invocation: enough to replay the
// same Request through Process again and diff the Response, or to
// review what an operator actually said and heard.
type ReplayEntry struct {
	RequestID string   `json:"request_id"`
	Time      time.Time `json:"time"`
	Request   Request  `json:"request"`
	Response  Response `json:"response"`
}

// ReplayLog appends ReplayEntry records as gzip-compressed JSON lines
// to a lumberjack-rotated file. It is the audit trail cmd/icaoreplay
// reads back to replay a session; entries are flushed eagerly, so a
// crash loses at most the in-flight write.
type ReplayLog struct {
	mu     sync.Mutex
	file   *lumberjack.Logger
	gz     *gzip.Writer
	encode *json.Encoder
}

// NewReplayLog opens (creating if needed) a rotated replay log at path.
// maxMegabytes and maxBackups follow lumberjack's usual rotation
// semantics; every entry is gzip-streamed through klauspost as it is
// written, and lumberjack's own gzip-on-rotate is left off.
func NewReplayLog(path string, maxMegabytes, maxBackups int) *ReplayLog {
	file := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxMegabytes,
		MaxBackups: maxBackups,
		Compress:   false,
	}
	gz := gzip.NewWriter(file)
	return &ReplayLog{
		file:   file,
		gz:     gz,
		encode: json.NewEncoder(gz),
	}
}

// Append writes entry as one gzip-compressed JSON line and flushes it
// to disk immediately.
func (r *ReplayLog) Append(entry ReplayEntry) error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.encode.Encode(entry); err != nil {
		return err
	}
	return r.gz.Flush()
}

// Close flushes and closes the underlying gzip stream and file.
func (r *ReplayLog) Close() error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.gz.Close(); err != nil {
		return err
	}
	return r.file.Close()
}
