package streamzip

import "context"

// Sink is the four-operation byte sink contract the archive engine
// writes through. The sink is assumed forward-only; the engine never
// seeks and never rewinds a write.
//
// Concrete sinks (local file, in-memory buffer, HTTP response body,
// blob storage object) live in package sinks.
type Sink interface {
	// Set records advisory metadata ("name", "type") before Open is
	// called. The sink may use or ignore any key.
	Set(ctx context.Context, key, value string)

	// Open prepares the sink to accept bytes. Called exactly once,
	// before any Write.
	Open(ctx context.Context) error

	// Write appends bytes. Writes are all-or-nothing: a partial
	// underlying write is the sink's concern to retry or surface as
	// an error, never a short return with a nil error.
	Write(ctx context.Context, p []byte) error

	// Close flushes and releases the sink. Idempotent once closed;
	// it is an error to call Close before Open.
	Close(ctx context.Context) error
}
