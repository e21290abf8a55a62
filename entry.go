package streamzip

import (
	"context"
	"time"
)

type entryState int

const (
	entryInit entryState = iota
	entryData
	entryClosed
	entryError
)

func (s entryState) String() string {
	switch s {
	case entryInit:
		return "not yet open"
	case entryData:
		return "mid-write"
	case entryClosed:
		return "closed"
	default:
		return "in error"
	}
}

// finalizedEntry is the immutable record of a completed member, kept
// by the archive to write the central directory at Close.
type finalizedEntry struct {
	path              string
	comment           []byte
	method            Method
	modified          time.Time
	crc32             uint32
	uncompressedSize  uint64
	compressedSize    uint64
	localHeaderOffset uint64
}

// Entry is the handle a caller streams one member's bytes through. It
// is only valid for the duration of the AddFunc call that receives
// it: nothing returns an Entry outside that scope, so there is no
// runtime flag a caller could forget to check -- validity is enforced
// by Go's own lexical scoping.
type Entry struct {
	sinkWriter *sinkWriter
	path       string
	comment    []byte
	method     Method
	modified   time.Time

	state  entryState
	hasher *crcHasher
	filt   filter

	uncompressedSize  uint64
	compressedSize    uint64
	localHeaderOffset uint64
}

func newEntry(ctx context.Context, sink Sink, path string, comment []byte, method Method, modified time.Time) (*Entry, error) {
	if len(comment) >= uint16max {
		return nil, &CommentError{Len: len(comment)}
	}
	if err := validateMethod(method); err != nil {
		return nil, err
	}
	return &Entry{
		sinkWriter: &sinkWriter{ctx: ctx, sink: sink},
		path:       path,
		comment:    comment,
		method:     method,
		modified:   modified,
		state:      entryInit,
		hasher:     newCRCHasher(),
	}, nil
}

// writeLocalHeader emits the local file header and transitions
// entryInit -> entryData. offset is the archive's running byte
// counter at the instant the header begins, recorded as the entry's
// local-header offset for the central directory.
func (e *Entry) writeLocalHeader(offset uint64) (int, error) {
	if e.state != entryInit {
		return 0, &StateError{Op: "write local header", State: e.state.String()}
	}
	e.localHeaderOffset = offset
	dosDate, dosTime := dosDateTime(e.modified)
	header := localHeaderBytes(e.path, e.method, dosTime, dosDate)
	if err := e.sinkWriter.write(header); err != nil {
		e.state = entryError
		return 0, err
	}
	filt, err := newFilter(e.method, e.sinkWriter)
	if err != nil {
		e.state = entryError
		return len(header), err
	}
	e.filt = filt
	e.state = entryData
	return len(header), nil
}

// Write forwards bytes to the CRC-32 hasher and the compression
// filter. It requires the entry to be mid-write (i.e. called from
// within the AddFunc callback that owns this handle).
func (e *Entry) Write(p []byte) (int, error) {
	if e.state != entryData {
		return 0, &StateError{Op: "write", State: e.state.String()}
	}
	e.hasher.update(p)
	e.uncompressedSize += uint64(len(p))
	n, err := e.filt.write(p)
	e.compressedSize += uint64(n)
	if err != nil {
		e.state = entryError
		return 0, err
	}
	return len(p), nil
}

// writeLocalFooter flushes the filter, finalizes the CRC, emits the
// data descriptor, transitions entryData -> entryClosed, and returns
// the finalized record plus the number of footer bytes written.
func (e *Entry) writeLocalFooter() (*finalizedEntry, int, error) {
	if e.state != entryData {
		return nil, 0, &StateError{Op: "write local footer", State: e.state.String()}
	}
	tail, err := e.filt.close()
	if err != nil {
		e.state = entryError
		return nil, 0, err
	}
	e.compressedSize += uint64(tail)
	crc := e.hasher.finalize()

	footer := dataDescriptorBytes(crc, e.compressedSize, e.uncompressedSize)
	if err := e.sinkWriter.write(footer); err != nil {
		e.state = entryError
		return nil, 0, err
	}
	e.state = entryClosed

	finalized := &finalizedEntry{
		path:              e.path,
		comment:           e.comment,
		method:            e.method,
		modified:          e.modified,
		crc32:             crc,
		uncompressedSize:  e.uncompressedSize,
		compressedSize:    e.compressedSize,
		localHeaderOffset: e.localHeaderOffset,
	}
	return finalized, len(footer), nil
}

// sinkWriter adapts a Sink+context pair to io.Writer, so the
// compression filter (and the engine's own direct header/footer
// writes) can treat the sink as an ordinary byte stream while every
// underlying call still carries context.
type sinkWriter struct {
	ctx  context.Context
	sink Sink
}

func (w *sinkWriter) Write(p []byte) (int, error) {
	if err := w.write(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *sinkWriter) write(p []byte) error {
	if err := w.sink.Write(w.ctx, p); err != nil {
		return &SinkError{Op: "write", Err: err}
	}
	return nil
}
