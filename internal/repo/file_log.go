// Package repo – FileLog
//
// FileLog appends newline-delimited JSON records to a single flat file.
// The file and its parent directory are created on first write. Each append
// is a scoped operation: acquire the lock, open the file in append mode,
// write the whole line with one call, optionally fsync, close. The handle is
// released on every exit path, and a failed or short write is truncated back
// so readers never see a partial line.
package repo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/tbourn/go-survey-backend/internal/observability"
)

// appendFile is the subset of *os.File used by FileLog.
type appendFile interface {
	io.Writer
	Stat() (os.FileInfo, error)
	Truncate(size int64) error
	Sync() error
	Close() error
}

// FileLog is an NDJSON AppendLog backed by a local file. It is safe for
// concurrent use; physical writes are serialized by a mutex.
type FileLog struct {
	path  string
	fsync bool

	mu   sync.Mutex
	open func(path string) (appendFile, error)
}

// NewFileLog returns a FileLog writing to path. When fsync is true every
// append is flushed to stable storage before it is reported successful.
func NewFileLog(path string, fsync bool) (*FileLog, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("file log: path is required")
	}
	return &FileLog{
		path:  path,
		fsync: fsync,
		open: func(p string) (appendFile, error) {
			return os.OpenFile(p, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		},
	}, nil
}

// Path returns the file the log appends to.
func (l *FileLog) Path() string { return l.path }

// Append writes line followed by a newline (added if missing).
func (l *FileLog) Append(ctx context.Context, key string, line []byte) (err error) {
	_, span := observability.StartSpan(ctx, "store.append",
		attribute.String("store.backend", BackendFile),
		attribute.String("survey.submission_id", key),
	)
	start := time.Now()
	defer func() {
		observability.ObserveAppend(BackendFile, err, time.Since(start))
		observability.EndSpan(span, err)
	}()

	if len(line) == 0 {
		return ErrEmptyRecord
	}
	buf := line
	if buf[len(buf)-1] != '\n' {
		buf = make([]byte, 0, len(line)+1)
		buf = append(buf, line...)
		buf = append(buf, '\n')
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}

	f, err := l.open(l.path)
	if err != nil {
		return fmt.Errorf("open %s: %w", l.path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", l.path, cerr)
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", l.path, err)
	}

	n, err := f.Write(buf)
	if err == nil && n < len(buf) {
		err = io.ErrShortWrite
	}
	if err != nil {
		if n > 0 {
			// Roll back the partial line; the original error is what matters.
			_ = f.Truncate(info.Size())
		}
		return fmt.Errorf("write record: %w", err)
	}

	if l.fsync {
		if err := f.Sync(); err != nil {
			return fmt.Errorf("sync %s: %w", l.path, err)
		}
	}
	return nil
}

// Close is a no-op: FileLog holds no handle between appends.
func (l *FileLog) Close() error { return nil }
