// Package repo implements the persistence layer for accepted survey records.
// Records are never updated or deleted: the only write operation is an
// append of one whole record to an append-only log.
package repo

import (
	"context"
	"errors"
)

// Backend names, used in configuration and as the metrics "backend" label.
const (
	BackendFile  = "file"
	BackendKafka = "kafka"
)

// ErrEmptyRecord is returned when Append is called with no payload.
var ErrEmptyRecord = errors.New("empty record")

// AppendLog is an append-only store of serialized records.
//
// Append must be atomic per record: concurrent callers never observe or
// produce interleaved bytes, and a failed append leaves no partial record.
// key identifies the record (the submission id); backends may use it for
// partitioning. Ordering between concurrent appends is not guaranteed.
type AppendLog interface {
	Append(ctx context.Context, key string, line []byte) error
	Close() error
}
