package streamzip

import (
	"context"
	"io"
	"os"
	"time"
)

type archiveState int

const (
	stateInit archiveState = iota
	stateEntryOpen
	stateClosed
	stateError
)

func (s archiveState) String() string {
	switch s {
	case stateInit:
		return "idle"
	case stateEntryOpen:
		return "an entry is open"
	case stateClosed:
		return "closed"
	default:
		return "in error"
	}
}

// Archive serializes members one at a time to a Sink and, at Close,
// writes the central directory, the Zip64 end-of-central-directory
// record and locator, and the end-of-central-directory record.
//
// An Archive is not safe for concurrent use: the engine performs no
// internal concurrency and is not re-entrant. Separate Archives on
// separate Sinks are independent and may run on separate goroutines.
type Archive struct {
	sink Sink

	defaultMethod Method
	defaultTime   time.Time
	comment       []byte

	offset  uint64
	entries []*finalizedEntry
	paths   map[string]struct{}
	state   archiveState
}

// archiveOptions holds the resolved construction options for New.
type archiveOptions struct {
	method   Method
	comment  []byte
	time     time.Time
	mimeType string
	sink     Sink
}

// ArchiveOption configures New.
type ArchiveOption func(*archiveOptions)

// WithArchiveMethod sets the archive-wide default compression method,
// used by any entry that doesn't override it with WithMethod.
func WithArchiveMethod(m Method) ArchiveOption {
	return func(o *archiveOptions) { o.method = m }
}

// WithArchiveComment sets the archive comment, written into the
// end-of-central-directory record. Must be under 0xFFFF bytes.
func WithArchiveComment(comment []byte) ArchiveOption {
	return func(o *archiveOptions) { o.comment = comment }
}

// WithArchiveTime sets the archive-wide default timestamp, used by
// any entry that doesn't override it with WithTime.
func WithArchiveTime(t time.Time) ArchiveOption {
	return func(o *archiveOptions) { o.time = t }
}

// WithArchiveType sets the MIME type advertised to the sink via
// Set("type", ...). Defaults to "application/zip".
func WithArchiveType(mimeType string) ArchiveOption {
	return func(o *archiveOptions) { o.mimeType = mimeType }
}

// WithOutput sets the byte sink the archive writes to. Defaults to a
// sink writing to the process's standard output stream, the closest
// Go analogue of the originating design's "process's standard
// response channel" default (Go has no implicit current-HTTP-response
// global, so stdout is the only ambient forward-only stream a process
// always has).
func WithOutput(sink Sink) ArchiveOption {
	return func(o *archiveOptions) { o.sink = sink }
}

// New constructs an Archive and opens its sink. name is advisory and
// forwarded to the sink as Set("name", name).
func New(ctx context.Context, name string, opts ...ArchiveOption) (*Archive, error) {
	resolved := archiveOptions{
		method:   MethodDeflate,
		time:     time.Now(),
		mimeType: "application/zip",
		sink:     stdoutSink{},
	}
	for _, opt := range opts {
		opt(&resolved)
	}
	if err := validateMethod(resolved.method); err != nil {
		return nil, err
	}
	if len(resolved.comment) >= uint16max {
		return nil, &CommentError{Len: len(resolved.comment)}
	}

	ar := &Archive{
		sink:          resolved.sink,
		defaultMethod: resolved.method,
		defaultTime:   resolved.time,
		comment:       resolved.comment,
		paths:         make(map[string]struct{}),
		state:         stateInit,
	}

	ar.sink.Set(ctx, "name", name)
	ar.sink.Set(ctx, "type", resolved.mimeType)
	if err := ar.sink.Open(ctx); err != nil {
		ar.state = stateError
		return nil, &SinkError{Op: "open", Err: err}
	}
	return ar, nil
}

// EntryOption configures a single call to AddFunc and its wrappers.
type EntryOption func(*entryOptions)

type entryOptions struct {
	method     *Method
	time       *time.Time
	comment    []byte
	closeAfter bool
}

// WithMethod overrides the archive-wide default compression method
// for a single entry.
func WithMethod(m Method) EntryOption {
	return func(o *entryOptions) { o.method = &m }
}

// WithTime overrides the archive-wide default timestamp for a single
// entry.
func WithTime(t time.Time) EntryOption {
	return func(o *entryOptions) { o.time = &t }
}

// WithComment sets a per-entry comment. Must be under 0xFFFF bytes.
func WithComment(comment []byte) EntryOption {
	return func(o *entryOptions) { o.comment = comment }
}

// WithSourceClose, used only by AddStream, closes the source reader
// after it has been fully drained.
func WithSourceClose() EntryOption {
	return func(o *entryOptions) { o.closeAfter = true }
}

// EntryOptionsFromFileInfo derives a WithTime option from an
// os.FileInfo, mirroring archive/zip's FileInfoHeader convenience for
// callers of AddFileFromPath who want everything but the method
// derived from the filesystem.
func EntryOptionsFromFileInfo(fi os.FileInfo) []EntryOption {
	return []EntryOption{WithTime(fi.ModTime())}
}

// streamChunkSize is the buffer size AddStream reads in, matching
// spec's fixed chunking convention for generic byte sources.
const streamChunkSize = 8192

// AddFunc is the serializing primitive every other Add* wrapper is
// built on. It requires the archive to be idle; path must pass the
// path validator and must not already be present in the archive.
// fn streams the member's bytes through the Entry handle, which is
// valid only for the duration of this call.
func (a *Archive) AddFunc(ctx context.Context, path string, fn func(*Entry) error, opts ...EntryOption) error {
	if a.state != stateInit {
		return &StateError{Op: "add", State: a.state.String()}
	}
	if err := validatePath(path); err != nil {
		return err
	}
	if _, dup := a.paths[path]; dup {
		return &StateError{Op: "add", State: "path already present"}
	}

	resolved := entryOptions{}
	for _, opt := range opts {
		opt(&resolved)
	}
	method := a.defaultMethod
	if resolved.method != nil {
		method = *resolved.method
	}
	modified := a.defaultTime
	if resolved.time != nil {
		modified = *resolved.time
	}

	entry, err := newEntry(ctx, a.sink, path, resolved.comment, method, modified)
	if err != nil {
		return err
	}

	a.state = stateEntryOpen
	headerLen, err := entry.writeLocalHeader(a.offset)
	if err != nil {
		a.state = stateError
		return err
	}
	a.offset += uint64(headerLen)

	if err := fn(entry); err != nil {
		a.state = stateError
		return err
	}

	finalized, footerLen, err := entry.writeLocalFooter()
	if err != nil {
		a.state = stateError
		return err
	}
	a.offset += finalized.compressedSize + uint64(footerLen)
	observeEntryWritten(finalized.method, headerLen, int(finalized.compressedSize), footerLen)

	a.entries = append(a.entries, finalized)
	a.paths[path] = struct{}{}
	a.state = stateInit
	return nil
}

// AddFile is a one-shot write of an in-memory byte buffer.
func (a *Archive) AddFile(ctx context.Context, path string, data []byte, opts ...EntryOption) error {
	return a.AddFunc(ctx, path, func(e *Entry) error {
		_, err := e.Write(data)
		return err
	}, opts...)
}

// AddStream repeatedly reads streamChunkSize chunks from src until
// EOF, writing each to the entry. If WithSourceClose was given and
// src implements io.Closer, src is closed afterward.
func (a *Archive) AddStream(ctx context.Context, path string, src io.Reader, opts ...EntryOption) error {
	resolved := entryOptions{}
	for _, opt := range opts {
		opt(&resolved)
	}

	err := a.AddFunc(ctx, path, func(e *Entry) error {
		buf := make([]byte, streamChunkSize)
		for {
			n, rerr := src.Read(buf)
			if n > 0 {
				if _, werr := e.Write(buf[:n]); werr != nil {
					return werr
				}
			}
			if rerr == io.EOF {
				return nil
			}
			if rerr != nil {
				return rerr
			}
		}
	}, opts...)

	if resolved.closeAfter {
		if closer, ok := src.(io.Closer); ok {
			if cerr := closer.Close(); err == nil {
				err = cerr
			}
		}
	}
	return err
}

// AddFileFromPath opens fsPath for reading and streams its contents
// in, deriving the timestamp from the filesystem's modification time
// when the caller hasn't overridden it with WithTime. The source file
// is always closed afterward.
func (a *Archive) AddFileFromPath(ctx context.Context, path, fsPath string, opts ...EntryOption) error {
	f, err := os.Open(fsPath)
	if err != nil {
		return &FileError{Path: fsPath, Err: err}
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return &FileError{Path: fsPath, Err: err}
	}

	hasTime := false
	for _, opt := range opts {
		o := entryOptions{}
		opt(&o)
		if o.time != nil {
			hasTime = true
			break
		}
	}
	if !hasTime {
		opts = append(opts, WithTime(info.ModTime()))
	}
	opts = append(opts, WithSourceClose())

	return a.AddStream(ctx, path, f, opts...)
}

// EntryCount returns the number of members finalized so far.
func (a *Archive) EntryCount() int { return len(a.entries) }

// Offset returns the number of bytes handed to the sink so far.
func (a *Archive) Offset() uint64 { return a.offset }

// Close writes the central directory, the Zip64 end-of-central-
// directory record and locator, and the end-of-central-directory
// record, then closes the sink. It requires the archive to be idle
// and returns the final archive size in bytes.
func (a *Archive) Close(ctx context.Context) (uint64, error) {
	if a.state != stateInit {
		return 0, &StateError{Op: "close", State: a.state.String()}
	}

	closeStart := time.Now()
	cdrPos := a.offset
	sw := &sinkWriter{ctx: ctx, sink: a.sink}
	for _, e := range a.entries {
		record := centralDirectoryRecordBytes(e)
		if err := sw.write(record); err != nil {
			a.state = stateError
			return 0, err
		}
		a.offset += uint64(len(record))
	}
	cdrSize := a.offset - cdrPos
	observeClose(int(cdrSize), closeStart)

	zip64EOCDPos := a.offset
	zip64EOCD := zip64EndOfCentralDirectoryBytes(uint64(len(a.entries)), cdrSize, cdrPos)
	if err := sw.write(zip64EOCD); err != nil {
		a.state = stateError
		return 0, err
	}
	a.offset += uint64(len(zip64EOCD))

	locator := zip64LocatorBytes(zip64EOCDPos)
	if err := sw.write(locator); err != nil {
		a.state = stateError
		return 0, err
	}
	a.offset += uint64(len(locator))

	eocd := endOfCentralDirectoryBytes(uint64(len(a.entries)), cdrSize, cdrPos, a.comment)
	if err := sw.write(eocd); err != nil {
		a.state = stateError
		return 0, err
	}
	a.offset += uint64(len(eocd))
	observeClose(int(cdrSize), closeStart)

	if err := a.sink.Close(ctx); err != nil {
		a.state = stateError
		return 0, &SinkError{Op: "close", Err: err}
	}
	a.state = stateClosed
	return a.offset, nil
}

// Send constructs an Archive, invokes fn with it, and closes it,
// returning the final byte count -- a single-call façade over
// New/Close for callers that don't need the Archive afterward.
func Send(ctx context.Context, name string, fn func(*Archive) error, opts ...ArchiveOption) (uint64, error) {
	ar, err := New(ctx, name, opts...)
	if err != nil {
		return 0, err
	}
	if err := fn(ar); err != nil {
		return 0, err
	}
	return ar.Close(ctx)
}

// stdoutSink is the zero-configuration default output: the process's
// standard output stream. It ignores Set and never closes os.Stdout
// itself (the process owns that), matching the "never close the
// caller's stream" convention sinks.Stream also follows.
type stdoutSink struct{}

func (stdoutSink) Set(context.Context, string, string) {}

func (stdoutSink) Open(context.Context) error { return nil }

func (stdoutSink) Write(_ context.Context, p []byte) error {
	_, err := os.Stdout.Write(p)
	return err
}

func (stdoutSink) Close(context.Context) error { return nil }
