package streamzip

import (
	"io"

	"github.com/klauspost/compress/flate"
)

// filter streams compressed bytes to the sink behind an entry and
// reports how many bytes it forwarded. The entry never retains input
// after handing it to the filter; return values are summed into the
// entry's compressed-size counter.
type filter interface {
	// write pushes uncompressed bytes through the filter. It returns
	// the number of compressed bytes forwarded to the sink, which may
	// be 0 if the filter is still buffering.
	write(p []byte) (int, error)
	// close finishes the stream, forwarding any trailing output, and
	// returns the number of bytes emitted during close.
	close() (int, error)
}

func newFilter(method Method, sink io.Writer) (filter, error) {
	switch method {
	case MethodStore:
		return &storeFilter{w: sink}, nil
	case MethodDeflate:
		return newDeflateFilter(sink)
	default:
		return nil, &UnknownMethodError{Method: uint16(method)}
	}
}

// storeFilter is the identity filter: bytes pass through unchanged.
type storeFilter struct {
	w io.Writer
}

func (f *storeFilter) write(p []byte) (int, error) {
	n, err := f.w.Write(p)
	if err != nil {
		return n, &SinkError{Op: "write", Err: err}
	}
	return n, nil
}

func (f *storeFilter) close() (int, error) { return 0, nil }

// deflateFilter wraps klauspost/compress/flate's raw-DEFLATE encoder
// (no zlib header, no Adler-32, no gzip wrapper) -- a drop-in, faster
// replacement for compress/flate used the same way by
// buildbarn-bb-storage and distr1-distri.
type deflateFilter struct {
	cw *countingWriter
	zw *flate.Writer
}

func newDeflateFilter(sink io.Writer) (*deflateFilter, error) {
	cw := &countingWriter{w: sink}
	zw, err := flate.NewWriter(cw, flate.DefaultCompression)
	if err != nil {
		return nil, &DeflateError{Op: "init", Err: err}
	}
	return &deflateFilter{cw: cw, zw: zw}, nil
}

func (f *deflateFilter) write(p []byte) (int, error) {
	before := f.cw.count
	if _, err := f.zw.Write(p); err != nil {
		return int(f.cw.count - before), &DeflateError{Op: "write", Err: err}
	}
	return int(f.cw.count - before), nil
}

func (f *deflateFilter) close() (int, error) {
	before := f.cw.count
	if err := f.zw.Close(); err != nil {
		return int(f.cw.count - before), &DeflateError{Op: "close", Err: err}
	}
	return int(f.cw.count - before), nil
}

// countingWriter forwards to w while counting bytes actually written,
// so the filter can report compressed-size contributions even though
// flate.Writer buffers internally and may emit 0 bytes for a given
// write.
type countingWriter struct {
	w     io.Writer
	count int64
}

func (w *countingWriter) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	w.count += int64(n)
	if err != nil {
		return n, &SinkError{Op: "write", Err: err}
	}
	return n, nil
}
